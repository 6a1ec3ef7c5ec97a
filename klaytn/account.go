package klaytn

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pilacorp/go-did-resolver/did"
)

// Account key types as reported by klay_getAccount.
const (
	AccountKeyTypeNil              = 0
	AccountKeyTypeLegacy           = 1
	AccountKeyTypePublic           = 2
	AccountKeyTypeFail             = 3
	AccountKeyTypeWeightedMultiSig = 4
	AccountKeyTypeRoleBased        = 5
)

// account is the klay_getAccount result.
type account struct {
	AccType int `json:"accType"`
	Account struct {
		Key *accountKey `json:"key"`
	} `json:"account"`
}

type accountKey struct {
	KeyType int             `json:"keyType"`
	Key     json.RawMessage `json:"key"`
}

// publicKeyForRPC is the key of an AccountKeyPublic.
type publicKeyForRPC struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// PublicKey returns the AccountKeyPublic key of address.
//
// Accounts that do not exist, and accounts whose key is legacy, multisig,
// role-based or otherwise not a single public key, yield nil.
func (r *Resolver) PublicKey(ctx context.Context, address string) (*did.PublicKey, error) {
	var acc *account
	if err := r.rpc.CallContext(ctx, &acc, "klay_getAccount", address, "latest"); err != nil {
		return nil, did.NewAdapterError("klay_getAccount", err)
	}

	if acc == nil || acc.Account.Key == nil || acc.Account.Key.KeyType != AccountKeyTypePublic {
		return nil, nil
	}

	var point publicKeyForRPC
	if err := json.Unmarshal(acc.Account.Key.Key, &point); err != nil {
		return nil, did.NewAdapterError("decode account key", err)
	}

	keyHex, err := compressPoint(point)
	if err != nil {
		return nil, did.NewAdapterError("decode account key", err)
	}

	return &did.PublicKey{Type: did.TypeEcdsaSecp256k1, Hex: keyHex}, nil
}

// compressPoint validates an (x, y) secp256k1 point and returns its
// compressed 0x-prefixed hex encoding.
func compressPoint(point publicKeyForRPC) (string, error) {
	x, err := coordinate(point.X)
	if err != nil {
		return "", fmt.Errorf("invalid x coordinate: %w", err)
	}

	y, err := coordinate(point.Y)
	if err != nil {
		return "", fmt.Errorf("invalid y coordinate: %w", err)
	}

	uncompressed := make([]byte, 0, 65)
	uncompressed = append(uncompressed, 0x04)
	uncompressed = append(uncompressed, x...)
	uncompressed = append(uncompressed, y...)

	pubKey, err := btcec.ParsePubKey(uncompressed)
	if err != nil {
		return "", fmt.Errorf("failed to parse public key: %w", err)
	}

	return "0x" + hex.EncodeToString(pubKey.SerializeCompressed()), nil
}

// coordinate decodes a hex field element into 32 big-endian bytes.
func coordinate(s string) ([]byte, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return nil, fmt.Errorf("empty coordinate")
	}

	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("not a hex number: %q", s)
	}

	if n.BitLen() > 256 {
		return nil, fmt.Errorf("coordinate exceeds 32 bytes")
	}

	return n.FillBytes(make([]byte, 32)), nil
}
