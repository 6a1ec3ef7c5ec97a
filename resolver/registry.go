package resolver

import (
	"context"

	"github.com/pilacorp/go-did-resolver/did"
	"github.com/pilacorp/go-did-resolver/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Registry maps a DID method name to its resolver.
type Registry map[string]ResolveFunc

// Merge returns a new registry holding the entries of r and others.
// Later registries win on duplicate methods.
func (r Registry) Merge(others ...Registry) Registry {
	merged := make(Registry, len(r))
	for method, fn := range r {
		merged[method] = fn
	}

	for _, other := range others {
		for method, fn := range other {
			merged[method] = fn
		}
	}

	return merged
}

// ByNetwork combines per-network resolvers of one method into a single ResolveFunc,
// routing on the network segment of did:<method>:<network>:<address>.
func ByNetwork(resolvers map[string]ResolveFunc) ResolveFunc {
	return func(ctx context.Context, didStr string) (*did.ResolutionResult, error) {
		network, err := did.Network(didStr)
		if err != nil {
			return did.ErrorResult(did.ErrorInvalidDID), nil
		}

		fn, ok := resolvers[network]
		if !ok {
			return did.ErrorResult(did.ErrorInvalidDID), nil
		}

		return fn(ctx, didStr)
	}
}

// Dispatcher routes DIDs to the resolver registered for their method.
type Dispatcher struct {
	registry Registry
	log      *logrus.Entry
}

// NewDispatcher creates a Dispatcher over registry.
func NewDispatcher(registry Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		log:      logging.WithComponent("dispatcher"),
	}
}

// Resolve resolves didStr with the resolver registered for its method.
func (d *Dispatcher) Resolve(ctx context.Context, didStr string) (*did.ResolutionResult, error) {
	method, err := did.Method(didStr)
	if err != nil {
		return did.ErrorResult(did.ErrorInvalidDID), nil
	}

	fn, ok := d.registry[method]
	if !ok {
		d.log.WithField("method", method).Debug("method not supported")
		return did.ErrorResult(did.ErrorMethodNotSupported), nil
	}

	return fn(ctx, didStr)
}

// Methods returns the registered method names in sorted order.
func (d *Dispatcher) Methods() []string {
	methods := make([]string, 0, len(d.registry))
	for method := range d.registry {
		methods = append(methods, method)
	}
	slices.Sort(methods)

	return methods
}
