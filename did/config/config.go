// Package config holds resolver configuration: per-chain resolver settings,
// their defaults, and the file/environment loader used by the CLI.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Networks supported by the resolvers.
const (
	NetworkBaobab  = "baobab"
	NetworkCypress = "cypress"
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// Default values. The Tezos testnet is replaced every few protocol upgrades,
// so it has no default endpoint and needs an explicit rpcUrl.
const (
	DefaultBaobabRPC  = "https://public-en-kairos.node.kaia.io"
	DefaultCypressRPC = "https://public-en.node.kaia.io"
	DefaultMainnetRPC = "https://mainnet.ecadinfra.com"
	DefaultTimeout    = 10 * time.Second
	DefaultListen     = ":8080"
)

// Environment variable prefix and file name used by Load.
const (
	EnvPrefix = "DIDRESOLVER"
	FileName  = "didresolver"
)

var defaultRPC = map[string]string{
	NetworkBaobab:  DefaultBaobabRPC,
	NetworkCypress: DefaultCypressRPC,
	NetworkMainnet: DefaultMainnetRPC,
}

// Config holds the configuration of a single resolver instance.
type Config struct {
	// RPCURL is the node endpoint. Defaults to the public endpoint of Network,
	// when it has one.
	RPCURL string `mapstructure:"rpcUrl"`
	// Network is the network segment expected in resolved DIDs.
	Network string `mapstructure:"network"`
	// ContractAddress is the deactivation registry. Optional: without it no DID
	// is reported as deactivated.
	ContractAddress string `mapstructure:"contractAddress"`
	// BigMapID is the big_map holding the Tezos deactivation mapping, when the
	// registry keeps it in a big_map rather than in its storage.
	BigMapID *int64 `mapstructure:"bigMapId"`
	// Timeout bounds the chain lookups of one resolution.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Validate checks the network against the networks the resolver accepts.
func (c *Config) Validate(networks ...string) error {
	if c.Network == "" {
		return errors.New("network is required")
	}

	for _, n := range networks {
		if c.Network == n {
			return nil
		}
	}

	return fmt.Errorf("unsupported network %q, expected one of %v", c.Network, networks)
}

// Standardize sets default values for optional Config fields.
func (c *Config) Standardize() {
	if c.RPCURL == "" {
		c.RPCURL = defaultRPC[c.Network]
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// File is the resolver daemon configuration.
type File struct {
	Listen    string        `mapstructure:"listen"`
	Verbose   bool          `mapstructure:"verbose"`
	LogFormat string        `mapstructure:"logFormat"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Klaytn    []Config      `mapstructure:"klaytn"`
	Tezos     []Config      `mapstructure:"tezos"`
}

// Load reads the configuration from path, or from didresolver.yaml in the
// working directory, $HOME/.didresolver or /etc/didresolver when path is empty.
// DIDRESOLVER_* environment variables override top-level keys. A missing
// default file is not an error; every network with a public endpoint is then
// served from it.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("verbose", false)
	v.SetDefault("logFormat", "text")
	v.SetDefault("timeout", DefaultTimeout)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.didresolver")
		v.AddConfigPath("/etc/didresolver/")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	f := &File{}
	if err := v.Unmarshal(f); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if len(f.Klaytn) == 0 && len(f.Tezos) == 0 {
		f.Klaytn = []Config{{Network: NetworkBaobab}, {Network: NetworkCypress}}
		f.Tezos = []Config{{Network: NetworkMainnet}}
	}

	for i := range f.Klaytn {
		f.inherit(&f.Klaytn[i])
	}
	for i := range f.Tezos {
		f.inherit(&f.Tezos[i])
	}

	return f, nil
}

func (f *File) inherit(c *Config) {
	if c.Timeout == 0 {
		c.Timeout = f.Timeout
	}
	c.Standardize()
}
