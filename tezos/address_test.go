package tezos

import (
	"bytes"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hash20(b byte) []byte {
	return bytes.Repeat([]byte{b}, addressHashLen)
}

// corrupt flips the last checksum byte of a base58check string.
func corrupt(t *testing.T, s string) string {
	t.Helper()
	raw, err := base58.Decode(s)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	return base58.Encode(raw)
}

func TestIsValidAddress(t *testing.T) {
	tz1 := encodeCheck(prefixTZ1, hash20(1))
	kt1 := encodeCheck(prefixKT1, hash20(2))

	tests := map[string]struct {
		address string
		want    bool
	}{
		"tz1":             {address: tz1, want: true},
		"tz2":             {address: encodeCheck(prefixTZ2, hash20(3)), want: true},
		"tz3":             {address: encodeCheck(prefixTZ3, hash20(4)), want: true},
		"tz4":             {address: encodeCheck(prefixTZ4, hash20(5)), want: true},
		"KT1":             {address: kt1, want: true},
		"bad checksum":    {address: corrupt(t, tz1), want: false},
		"short hash":      {address: encodeCheck(prefixTZ1, hash20(1)[:19]), want: false},
		"key not address": {address: encodeCheck(prefixEdpk, bytes.Repeat([]byte{1}, 32)), want: false},
		"not base58":      {address: "tz1-0OIl", want: false},
		"empty":           {address: "", want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidAddress(tc.address))
		})
	}
}

func TestAddressPrefixes(t *testing.T) {
	assert.Equal(t, "tz1", encodeCheck(prefixTZ1, hash20(0))[:3])
	assert.Equal(t, "tz2", encodeCheck(prefixTZ2, hash20(0))[:3])
	assert.Equal(t, "tz3", encodeCheck(prefixTZ3, hash20(0))[:3])
	assert.Equal(t, "KT1", encodeCheck(prefixKT1, hash20(0))[:3])
}

func TestIsOriginated(t *testing.T) {
	assert.True(t, IsOriginated(encodeCheck(prefixKT1, hash20(1))))
	assert.False(t, IsOriginated(encodeCheck(prefixTZ1, hash20(1))))
	assert.False(t, IsOriginated("KT1"))
}

func TestBinaryAddress(t *testing.T) {
	implicit, err := binaryAddress(encodeCheck(prefixTZ2, hash20(7)))
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0x00, 0x01}, hash20(7)...), implicit)

	originated, err := binaryAddress(encodeCheck(prefixKT1, hash20(7)))
	require.NoError(t, err)
	want := append([]byte{0x01}, hash20(7)...)
	assert.Equal(t, append(want, 0x00), originated)

	_, err = binaryAddress("tz1")
	assert.Error(t, err)
}

func TestDecodeCheck(t *testing.T) {
	s := encodeCheck(prefixExpr, bytes.Repeat([]byte{9}, 32))
	assert.Equal(t, "expr", s[:4])

	data, err := decodeCheck(s, prefixExpr)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{9}, 32), data)

	_, err = decodeCheck(s, prefixTZ1)
	assert.Error(t, err)
}
