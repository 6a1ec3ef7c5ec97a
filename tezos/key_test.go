package tezos

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/pilacorp/go-did-resolver/did"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compressed generator points of secp256k1 and P-256.
const (
	secp256k1G = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	p256G      = "036b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func edpk() string {
	pub := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{1}, ed25519.SeedSize)).Public().(ed25519.PublicKey)
	return encodeCheck(prefixEdpk, pub)
}

func TestParseManagerKey(t *testing.T) {
	sppk := encodeCheck(prefixSppk, mustHex(t, secp256k1G))
	p2pk := encodeCheck(prefixP2pk, mustHex(t, p256G))
	ed := edpk()

	require.Equal(t, "edpk", ed[:4])
	require.Equal(t, "sppk", sppk[:4])
	require.Equal(t, "p2pk", p2pk[:4])

	tests := map[string]struct {
		key     string
		want    *did.PublicKey
		wantErr bool
	}{
		"ed25519":   {key: ed, want: &did.PublicKey{Type: did.TypeEd25519, Base58: ed}},
		"secp256k1": {key: sppk, want: &did.PublicKey{Type: did.TypeEcdsaSecp256k1, Base58: sppk}},
		"p256":      {key: p2pk, want: &did.PublicKey{Type: did.TypeEcdsaSecp256r1, Base58: p2pk}},
		"bls":       {key: "BLpk1yoPpFtFF3jGUSn2GrGzgHVcj1cm5o6HTMwiqSjiTNFSJskXFady9nrdhoZzrG6ybXiTSK5G"},
		"secp256k1 off curve": {
			key:     encodeCheck(prefixSppk, append([]byte{0x02}, bytes.Repeat([]byte{0xff}, 32)...)),
			wantErr: true,
		},
		"p256 off curve": {
			key:     encodeCheck(prefixP2pk, append([]byte{0x02}, bytes.Repeat([]byte{0xff}, 32)...)),
			wantErr: true,
		},
		"ed25519 wrong size": {key: encodeCheck(prefixEdpk, bytes.Repeat([]byte{1}, 31)), wantErr: true},
		"unknown encoding":   {key: "xxpk1234", wantErr: true},
		"too short":          {key: "ed", wantErr: true},
		"bad checksum":       {key: corrupt(t, ed), wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			key, err := parseManagerKey(tc.key)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, key)
		})
	}
}
