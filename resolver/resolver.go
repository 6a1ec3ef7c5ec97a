// Package resolver turns a chain adapter into a DID resolver and dispatches
// DIDs to the resolver registered for their method.
package resolver

import (
	"context"
	"time"

	"github.com/pilacorp/go-did-resolver/did"
	"github.com/pilacorp/go-did-resolver/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Chain is the blockchain-specific half of a resolver.
//
// PublicKey returns nil when the account does not exist or has no plain
// public key. IsDeactivated returns false when the registry has no entry for
// the address. Both return an error only when the chain could not be asked.
type Chain interface {
	Method() string
	Network() string
	IsValidAddress(address string) bool
	PublicKey(ctx context.Context, address string) (*did.PublicKey, error)
	IsDeactivated(ctx context.Context, address string) (bool, error)
}

// ResolveFunc resolves a DID string to a resolution result.
//
// Malformed input is reported in-band through the result; the error is
// reserved for chain failures and is always a *did.AdapterError.
type ResolveFunc func(ctx context.Context, did string) (*did.ResolutionResult, error)

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout bounds the chain lookups of a single resolution.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) { r.timeout = timeout }
}

// WithLogger sets the logger used for resolution events.
func WithLogger(log *logrus.Entry) Option {
	return func(r *Resolver) { r.log = log }
}

// Resolver resolves DIDs of one method and network against a Chain.
type Resolver struct {
	chain   Chain
	timeout time.Duration
	log     *logrus.Entry
}

// New creates a Resolver for chain.
func New(chain Chain, opts ...Option) *Resolver {
	r := &Resolver{
		chain: chain,
		log:   logging.WithComponent("resolver"),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.log = r.log.WithFields(logging.Fields{"method": chain.Method(), "network": chain.Network()})

	return r
}

// Resolve resolves didStr into a DID Resolution Result.
//
// The public key and the deactivation flag are fetched concurrently. A DID
// whose account has no plain public key is reported as invalidDid whatever its
// deactivation state; a deactivated DID resolves without a document.
func (r *Resolver) Resolve(ctx context.Context, didStr string) (*did.ResolutionResult, error) {
	log := r.log.WithField("did", didStr)

	parsed, err := did.Parse(didStr, r.chain.Method(), r.chain.Network())
	if err != nil {
		log.WithError(err).Debug("rejecting DID")
		return did.ErrorResult(did.ErrorInvalidDID), nil
	}

	if !r.chain.IsValidAddress(parsed.Address) {
		log.WithError(did.ErrInvalidAddress).Debug("rejecting DID")
		return did.ErrorResult(did.ErrorInvalidDID), nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var (
		key         *did.PublicKey
		deactivated bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deactivated, err = r.chain.IsDeactivated(gctx, parsed.Address)
		return adapterError("check deactivation", err)
	})
	g.Go(func() error {
		var err error
		key, err = r.chain.PublicKey(gctx, parsed.Address)
		return adapterError("get public key", err)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("chain lookup failed")
		return nil, err
	}

	if key == nil {
		log.Debug("no plain public key for address")
		return did.ErrorResult(did.ErrorInvalidDID), nil
	}

	log.WithField("deactivated", deactivated).Debug("resolved DID")

	return did.NewResult(did.NewDocument(didStr, key), deactivated), nil
}

// adapterError makes sure every chain failure leaves the resolver as a *did.AdapterError.
func adapterError(op string, err error) error {
	if err == nil {
		return nil
	}

	if did.IsAdapterError(err) {
		return err
	}

	return did.NewAdapterError(op, err)
}
