package klaytn

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pilacorp/go-did-resolver/did"
)

const registryABIJSON = `[
  {
    "inputs": [{"internalType": "address", "name": "didAddress", "type": "address"}],
    "name": "isDeactivated",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

const isDeactivatedMethod = "isDeactivated"

var (
	parsedABI    abi.ABI
	parseABIOnce sync.Once
	errParseABI  error
)

// loadABI parses the DID registry ABI exactly once.
func loadABI() (abi.ABI, error) {
	parseABIOnce.Do(func() {
		parsedABI, errParseABI = abi.JSON(strings.NewReader(registryABIJSON))
	})

	return parsedABI, errParseABI
}

// callArgs is the call object of klay_call.
type callArgs struct {
	To   *common.Address `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

// IsDeactivated asks the DID registry contract whether address is deactivated.
//
// Without a configured registry every DID is active. An empty return value,
// as from an account without code, is read as not deactivated.
func (r *Resolver) IsDeactivated(ctx context.Context, address string) (bool, error) {
	if !r.hasContract {
		return false, nil
	}

	contractABI, err := loadABI()
	if err != nil {
		return false, fmt.Errorf("failed to load registry ABI: %w", err)
	}

	data, err := contractABI.Pack(isDeactivatedMethod, common.HexToAddress(address))
	if err != nil {
		return false, fmt.Errorf("failed to encode %s call: %w", isDeactivatedMethod, err)
	}

	var out hexutil.Bytes
	args := callArgs{To: &r.contract, Data: data}
	if err := r.rpc.CallContext(ctx, &out, "klay_call", args, "latest"); err != nil {
		return false, did.NewAdapterError("klay_call", err)
	}

	if len(out) == 0 {
		return false, nil
	}

	values, err := contractABI.Unpack(isDeactivatedMethod, out)
	if err != nil {
		return false, did.NewAdapterError("decode "+isDeactivatedMethod, err)
	}

	if len(values) == 0 {
		return false, did.NewAdapterError("decode "+isDeactivatedMethod, fmt.Errorf("contract returned no data"))
	}

	deactivated, ok := values[0].(bool)
	if !ok {
		return false, did.NewAdapterError("decode "+isDeactivatedMethod, fmt.Errorf("unexpected output type: %T", values[0]))
	}

	return deactivated, nil
}
