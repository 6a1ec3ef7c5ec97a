// Package tezos implements the did:tezos method.
//
// A did:tezos:<network>:<address> DID resolves to the revealed manager key of
// the implicit account at <address>. Deactivation is read from the storage of
// a DID registry contract mapping addresses to a bool.
package tezos

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pilacorp/go-did-resolver/blockchain"
	"github.com/pilacorp/go-did-resolver/did"
	"github.com/pilacorp/go-did-resolver/did/config"
	"github.com/pilacorp/go-did-resolver/logging"
	"github.com/pilacorp/go-did-resolver/resolver"
	"github.com/sirupsen/logrus"
)

// DIDMethod is the method name served by this package.
const DIDMethod = "tezos"

// Networks lists the networks a did:tezos resolver can be configured for.
var Networks = []string{config.NetworkMainnet, config.NetworkTestnet}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	httpClient *http.Client
	log        *logrus.Entry
}

// WithHTTPClient sets the HTTP client used to reach the node.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithLogger sets the logger used for resolution events.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

// Resolver resolves did:tezos DIDs of one network.
type Resolver struct {
	httpClient *http.Client
	rpcURL     string
	network    string
	contract   string
	bigMapID   *int64
	resolver   *resolver.Resolver
}

// New creates a did:tezos resolver from cfg.
func New(cfg config.Config, opts ...Option) (*Resolver, error) {
	if err := cfg.Validate(Networks...); err != nil {
		return nil, fmt.Errorf("invalid tezos configuration: %w", err)
	}
	cfg.Standardize()

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("invalid tezos configuration: rpc url is required")
	}

	if cfg.ContractAddress != "" && !IsOriginated(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid tezos configuration: contract address %q is not a KT1 address", cfg.ContractAddress)
	}

	o := &options{log: logging.WithComponent("tezos")}
	for _, opt := range opts {
		opt(o)
	}

	if o.httpClient == nil {
		o.httpClient = blockchain.NewHTTPClient(cfg.Timeout)
	}

	r := &Resolver{
		httpClient: o.httpClient,
		rpcURL:     strings.TrimRight(cfg.RPCURL, "/"),
		network:    cfg.Network,
		contract:   cfg.ContractAddress,
		bigMapID:   cfg.BigMapID,
	}
	r.resolver = resolver.New(r, resolver.WithTimeout(cfg.Timeout), resolver.WithLogger(o.log))

	return r, nil
}

// GetResolver returns a registry entry serving did:tezos from cfg.
func GetResolver(cfg config.Config, opts ...Option) (resolver.Registry, error) {
	r, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	return resolver.Registry{DIDMethod: r.Resolve}, nil
}

// Resolve resolves a did:tezos DID.
func (r *Resolver) Resolve(ctx context.Context, didStr string) (*did.ResolutionResult, error) {
	return r.resolver.Resolve(ctx, didStr)
}

// Method returns the DID method name.
func (r *Resolver) Method() string {
	return DIDMethod
}

// Network returns the configured network.
func (r *Resolver) Network() string {
	return r.network
}

// IsValidAddress reports whether address is a well-formed Tezos address.
func (r *Resolver) IsValidAddress(address string) bool {
	return IsValidAddress(address)
}

func (r *Resolver) headURL() string {
	return r.rpcURL + "/chains/main/blocks/head/context"
}
