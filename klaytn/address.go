package klaytn

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValidAddress reports whether address is a 0x-prefixed 20-byte hex address.
// Mixed-case addresses must carry a valid EIP-55 checksum.
func IsValidAddress(address string) bool {
	if !strings.HasPrefix(address, "0x") || !common.IsHexAddress(address) {
		return false
	}

	digits := address[2:]
	if digits == strings.ToLower(digits) || digits == strings.ToUpper(digits) {
		return true
	}

	return common.HexToAddress(address).Hex() == address
}
