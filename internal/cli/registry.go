package cli

import (
	"github.com/pilacorp/go-did-resolver/did/config"
	"github.com/pilacorp/go-did-resolver/klaytn"
	"github.com/pilacorp/go-did-resolver/logging"
	"github.com/pilacorp/go-did-resolver/resolver"
	"github.com/pilacorp/go-did-resolver/tezos"
	"github.com/pkg/errors"
)

// buildDispatcher creates one resolver per configured network and routes
// each method to its networks.
func buildDispatcher(f *config.File) (*resolver.Dispatcher, error) {
	klaytnNets := map[string]resolver.ResolveFunc{}
	for _, cfg := range f.Klaytn {
		r, err := klaytn.New(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "creating did:klaytn resolver for %q", cfg.Network)
		}
		addNetwork(klaytnNets, klaytn.DIDMethod, cfg.Network, r.Resolve)
	}

	tezosNets := map[string]resolver.ResolveFunc{}
	for _, cfg := range f.Tezos {
		r, err := tezos.New(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "creating did:tezos resolver for %q", cfg.Network)
		}
		addNetwork(tezosNets, tezos.DIDMethod, cfg.Network, r.Resolve)
	}

	registry := resolver.Registry{}
	if len(klaytnNets) > 0 {
		registry = registry.Merge(resolver.Registry{klaytn.DIDMethod: resolver.ByNetwork(klaytnNets)})
	}
	if len(tezosNets) > 0 {
		registry = registry.Merge(resolver.Registry{tezos.DIDMethod: resolver.ByNetwork(tezosNets)})
	}

	return resolver.NewDispatcher(registry), nil
}

func addNetwork(nets map[string]resolver.ResolveFunc, method, network string, fn resolver.ResolveFunc) {
	if _, ok := nets[network]; ok {
		logging.Entry().WithFields(logging.Fields{"method": method, "network": network}).Warn("network configured twice, keeping the last entry")
	}
	nets[network] = fn
}
