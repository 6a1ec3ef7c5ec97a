package tezos

import (
	"crypto/ed25519"
	"crypto/elliptic"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pilacorp/go-did-resolver/did"
)

// keyEncoding describes one base58check public key encoding.
type keyEncoding struct {
	prefix   []byte
	size     int
	vmType   string
	validate func([]byte) error
}

var keyEncodings = map[string]keyEncoding{
	"edpk": {prefix: prefixEdpk, size: ed25519.PublicKeySize, vmType: did.TypeEd25519},
	"sppk": {prefix: prefixSppk, size: 33, vmType: did.TypeEcdsaSecp256k1, validate: validateSecp256k1},
	"p2pk": {prefix: prefixP2pk, size: 33, vmType: did.TypeEcdsaSecp256r1, validate: validateP256},
}

func validateSecp256k1(b []byte) error {
	_, err := secp256k1.ParsePubKey(b)
	return err
}

func validateP256(b []byte) error {
	if x, _ := elliptic.UnmarshalCompressed(elliptic.P256(), b); x == nil {
		return fmt.Errorf("not a compressed P-256 point")
	}
	return nil
}

// parseManagerKey turns a revealed manager key into DID public key material.
//
// Keys of curves without a verification method type (tz4 BLS keys) yield nil.
func parseManagerKey(key string) (*did.PublicKey, error) {
	if len(key) < 4 {
		return nil, fmt.Errorf("public key too short: %q", key)
	}

	enc, ok := keyEncodings[key[:4]]
	if !ok {
		if strings.HasPrefix(key, "BLpk") {
			return nil, nil
		}
		return nil, fmt.Errorf("unsupported public key encoding: %q", key[:4])
	}

	raw, err := decodeCheck(key, enc.prefix)
	if err != nil {
		return nil, fmt.Errorf("invalid %s public key: %w", key[:4], err)
	}

	if len(raw) != enc.size {
		return nil, fmt.Errorf("invalid %s public key: expected %d bytes, got %d", key[:4], enc.size, len(raw))
	}

	if enc.validate != nil {
		if err := enc.validate(raw); err != nil {
			return nil, fmt.Errorf("invalid %s public key: %w", key[:4], err)
		}
	}

	return &did.PublicKey{Type: enc.vmType, Base58: key}, nil
}
