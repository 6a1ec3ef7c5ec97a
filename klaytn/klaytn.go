// Package klaytn implements the did:klaytn method.
//
// A did:klaytn:<network>:<address> DID resolves to the AccountKeyPublic key of
// the Klaytn account at <address>. Deactivation is read from a DID registry
// contract exposing isDeactivated(address) returns (bool).
package klaytn

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pilacorp/go-did-resolver/blockchain"
	"github.com/pilacorp/go-did-resolver/did"
	"github.com/pilacorp/go-did-resolver/did/config"
	"github.com/pilacorp/go-did-resolver/logging"
	"github.com/pilacorp/go-did-resolver/resolver"
	"github.com/sirupsen/logrus"
)

// DIDMethod is the method name served by this package.
const DIDMethod = "klaytn"

// Networks lists the networks a did:klaytn resolver can be configured for.
var Networks = []string{config.NetworkBaobab, config.NetworkCypress}

// RPCCaller is the subset of *rpc.Client used by the resolver.
type RPCCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	httpClient *http.Client
	rpc        RPCCaller
	log        *logrus.Entry
}

// WithHTTPClient sets the HTTP client used to reach the node.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithRPCClient sets the JSON-RPC client, bypassing dialing cfg.RPCURL.
func WithRPCClient(client RPCCaller) Option {
	return func(o *options) { o.rpc = client }
}

// WithLogger sets the logger used for resolution events.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

// Resolver resolves did:klaytn DIDs of one network.
type Resolver struct {
	rpc         RPCCaller
	network     string
	contract    common.Address
	hasContract bool
	resolver    *resolver.Resolver
}

// New creates a did:klaytn resolver from cfg.
func New(cfg config.Config, opts ...Option) (*Resolver, error) {
	if err := cfg.Validate(Networks...); err != nil {
		return nil, fmt.Errorf("invalid klaytn configuration: %w", err)
	}
	cfg.Standardize()

	if cfg.ContractAddress != "" && !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid klaytn configuration: contract address %q is not a hex address", cfg.ContractAddress)
	}

	o := &options{log: logging.WithComponent("klaytn")}
	for _, opt := range opts {
		opt(o)
	}

	if o.rpc == nil {
		if o.httpClient == nil {
			o.httpClient = blockchain.NewHTTPClient(cfg.Timeout)
		}

		client, err := blockchain.DialRPC(context.Background(), cfg.RPCURL, o.httpClient)
		if err != nil {
			return nil, err
		}
		o.rpc = client
	}

	r := &Resolver{
		rpc:         o.rpc,
		network:     cfg.Network,
		contract:    common.HexToAddress(cfg.ContractAddress),
		hasContract: cfg.ContractAddress != "",
	}
	r.resolver = resolver.New(r, resolver.WithTimeout(cfg.Timeout), resolver.WithLogger(o.log))

	return r, nil
}

// GetResolver returns a registry entry serving did:klaytn from cfg.
func GetResolver(cfg config.Config, opts ...Option) (resolver.Registry, error) {
	r, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	return resolver.Registry{DIDMethod: r.Resolve}, nil
}

// Resolve resolves a did:klaytn DID.
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

// IsValidAddress reports whether address is a well-formed Klaytn address.
func (r *Resolver) IsValidAddress(address string) bool {
	return IsValidAddress(address)
}
