package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/crypto"
)

// CheckVerificationMethod verifies that privateKeyHex is the secp256k1 private
// key of the verification method at verificationMethod.
func (r *Resolver) CheckVerificationMethod(ctx context.Context, privateKeyHex, verificationMethod string) (bool, error) {
	if privateKeyHex == "" || verificationMethod == "" {
		return false, fmt.Errorf("private key or verification method is empty")
	}

	publicKey, err := r.GetPublicKey(ctx, verificationMethod)
	if err != nil {
		return false, fmt.Errorf("failed to get public key for '%s': %w", verificationMethod, err)
	}

	isValid, err := VerifyKeyPairFromHex(privateKeyHex, publicKey)
	if err != nil {
		return false, fmt.Errorf("failed to verify key pair for '%s': %w", verificationMethod, err)
	}

	return isValid, nil
}

// VerifyKeyPairFromHex reports whether the hex secp256k1 private key derives
// the hex public key, compressed or uncompressed.
func VerifyKeyPairFromHex(privateKeyHex, publicKeyHex string) (bool, error) {
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return false, fmt.Errorf("failed to convert private key hex: %w", err)
	}

	publicKeyBytes, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return false, fmt.Errorf("failed to decode public key hex: %w", err)
	}

	publicKey, err := btcec.ParsePubKey(publicKeyBytes)
	if err != nil {
		return false, fmt.Errorf("failed to parse public key: %w", err)
	}

	derived := crypto.CompressPubkey(&privateKey.PublicKey)

	return bytes.Equal(derived, publicKey.SerializeCompressed()), nil
}
