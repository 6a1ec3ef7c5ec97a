package tezos

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Base58check prefixes of the Tezos encodings handled by the resolver.
var (
	prefixTZ1  = []byte{6, 161, 159}
	prefixTZ2  = []byte{6, 161, 161}
	prefixTZ3  = []byte{6, 161, 164}
	prefixTZ4  = []byte{6, 161, 166}
	prefixKT1  = []byte{2, 90, 121}
	prefixEdpk = []byte{13, 15, 37, 217}
	prefixSppk = []byte{3, 254, 226, 86}
	prefixP2pk = []byte{3, 178, 139, 127}
	prefixExpr = []byte{13, 44, 64, 27}
)

const (
	addressHashLen = 20
	checksumLen    = 4
)

var errChecksum = errors.New("invalid base58check checksum")

// addressKind binds an address prefix to its tag in the binary address encoding.
type addressKind struct {
	prefix     []byte
	originated bool
	tag        byte
}

var addressKinds = []addressKind{
	{prefix: prefixTZ1, tag: 0},
	{prefix: prefixTZ2, tag: 1},
	{prefix: prefixTZ3, tag: 2},
	{prefix: prefixTZ4, tag: 3},
	{prefix: prefixKT1, originated: true},
}

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}

// encodeCheck base58check-encodes data under prefix.
func encodeCheck(prefix, data []byte) string {
	payload := make([]byte, 0, len(prefix)+len(data)+checksumLen)
	payload = append(payload, prefix...)
	payload = append(payload, data...)
	payload = append(payload, checksum(payload)...)

	return base58.Encode(payload)
}

// decodeCheck decodes a base58check string, verifying its checksum, and
// returns the data following prefix.
func decodeCheck(s string, prefix []byte) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base58: %w", err)
	}

	if len(raw) < len(prefix)+checksumLen {
		return nil, fmt.Errorf("base58check value too short")
	}

	payload, sum := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	if !bytes.Equal(checksum(payload), sum) {
		return nil, errChecksum
	}

	if !bytes.HasPrefix(payload, prefix) {
		return nil, fmt.Errorf("unexpected base58check prefix")
	}

	return payload[len(prefix):], nil
}

// parseAddress decodes a tz1, tz2, tz3, tz4 or KT1 address.
func parseAddress(address string) (addressKind, []byte, error) {
	for _, kind := range addressKinds {
		hash, err := decodeCheck(address, kind.prefix)
		if err != nil {
			continue
		}

		if len(hash) != addressHashLen {
			return addressKind{}, nil, fmt.Errorf("address hash must be %d bytes, got %d", addressHashLen, len(hash))
		}

		return kind, hash, nil
	}

	return addressKind{}, nil, fmt.Errorf("not a Tezos address: %q", address)
}

// IsValidAddress reports whether address is a base58check tz1, tz2, tz3, tz4 or KT1 address.
func IsValidAddress(address string) bool {
	_, _, err := parseAddress(address)
	return err == nil
}

// IsOriginated reports whether address is a KT1 smart contract address.
func IsOriginated(address string) bool {
	kind, _, err := parseAddress(address)
	return err == nil && kind.originated
}

// binaryAddress returns the 22-byte binary encoding of address used by PACK.
func binaryAddress(address string) ([]byte, error) {
	kind, hash, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 22)
	if kind.originated {
		out = append(out, 0x01)
		out = append(out, hash...)
		return append(out, 0x00), nil
	}

	out = append(out, 0x00, kind.tag)
	return append(out, hash...), nil
}
