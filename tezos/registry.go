package tezos

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/pilacorp/go-did-resolver/blockchain"
	"github.com/pilacorp/go-did-resolver/did"
	"golang.org/x/crypto/blake2b"
)

// Michelson PACK prefix and the tag of a bytes literal.
const (
	packPrefix = 0x05
	bytesTag   = 0x0a
)

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}

// IsDeactivated looks address up in the deactivation mapping of the registry contract.
//
// Without a configured registry every DID is active, and an address missing
// from the mapping is not deactivated. The mapping is read from the registry
// storage, or from its big_map when the storage only holds the big_map id.
// A mapping that cannot be located or an entry that is not a bool is an
// adapter error.
func (r *Resolver) IsDeactivated(ctx context.Context, address string) (bool, error) {
	if r.contract == "" {
		return false, nil
	}

	if r.bigMapID != nil {
		return r.bigMapDeactivated(ctx, address, *r.bigMapID)
	}

	var storage node
	url := fmt.Sprintf("%s/contracts/%s/storage", r.headURL(), r.contract)
	if err := blockchain.GetJSON(ctx, r.httpClient, url, &storage); err != nil {
		return false, did.NewAdapterError("get registry storage", err)
	}

	bin, err := binaryAddress(address)
	if err != nil {
		return false, err
	}

	if value, found := storage.findElt(address, bin); found {
		deactivated, ok := value.boolValue()
		if !ok {
			return false, did.NewAdapterError("decode registry entry", fmt.Errorf("expected a bool, got %s", value.describe()))
		}
		return deactivated, nil
	}

	if storage.hasMap() {
		return false, nil
	}

	ids := storage.ints()
	if len(ids) != 1 {
		return false, did.NewAdapterError("locate deactivation mapping",
			fmt.Errorf("registry storage holds no map and %d big_map id candidates", len(ids)))
	}

	id, err := strconv.ParseInt(ids[0], 10, 64)
	if err != nil {
		return false, did.NewAdapterError("locate deactivation mapping", fmt.Errorf("invalid big_map id %q: %w", ids[0], err))
	}

	return r.bigMapDeactivated(ctx, address, id)
}

func (r *Resolver) bigMapDeactivated(ctx context.Context, address string, id int64) (bool, error) {
	expr, err := scriptExprHash(address)
	if err != nil {
		return false, err
	}

	var value node
	url := fmt.Sprintf("%s/big_maps/%d/%s", r.headURL(), id, expr)
	if err := blockchain.GetJSON(ctx, r.httpClient, url, &value); err != nil {
		if errors.Is(err, blockchain.ErrNotFound) {
			return false, nil
		}
		return false, did.NewAdapterError("get big_map value", err)
	}

	deactivated, ok := value.boolValue()
	if !ok {
		return false, did.NewAdapterError("decode big_map value", fmt.Errorf("expected a bool, got %s", value.describe()))
	}

	return deactivated, nil
}

// packAddress returns the Michelson PACK serialization of an address value.
func packAddress(address string) ([]byte, error) {
	bin, err := binaryAddress(address)
	if err != nil {
		return nil, err
	}

	packed := make([]byte, 0, 6+len(bin))
	packed = append(packed, packPrefix, bytesTag)
	packed = binary.BigEndian.AppendUint32(packed, uint32(len(bin)))

	return append(packed, bin...), nil
}

// scriptExprHash returns the expr... hash under which a big_map stores the
// entry keyed by address.
func scriptExprHash(address string) (string, error) {
	packed, err := packAddress(address)
	if err != nil {
		return "", err
	}

	sum := blake2b.Sum256(packed)

	return encodeCheck(prefixExpr, sum[:]), nil
}
