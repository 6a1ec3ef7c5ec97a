package tezos

import (
	"context"
	"errors"
	"fmt"

	"github.com/pilacorp/go-did-resolver/blockchain"
	"github.com/pilacorp/go-did-resolver/did"
)

// PublicKey returns the revealed manager key of an implicit account.
//
// Originated (KT1) accounts, unrevealed accounts and unknown accounts yield nil.
func (r *Resolver) PublicKey(ctx context.Context, address string) (*did.PublicKey, error) {
	if IsOriginated(address) {
		return nil, nil
	}

	var managerKey *string
	url := fmt.Sprintf("%s/contracts/%s/manager_key", r.headURL(), address)
	if err := blockchain.GetJSON(ctx, r.httpClient, url, &managerKey); err != nil {
		if errors.Is(err, blockchain.ErrNotFound) {
			return nil, nil
		}
		return nil, did.NewAdapterError("get manager key", err)
	}

	if managerKey == nil {
		return nil, nil
	}

	key, err := parseManagerKey(*managerKey)
	if err != nil {
		return nil, did.NewAdapterError("decode manager key", err)
	}

	return key, nil
}
