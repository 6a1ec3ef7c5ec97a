package cli

import (
	"github.com/pilacorp/go-did-resolver/did/config"
	"github.com/pilacorp/go-did-resolver/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootCmd = &cobra.Command{
		Use:               "didresolver",
		Short:             "resolve did:klaytn and did:tezos DIDs",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

func Execute() error {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default ./didresolver.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	rootCmd.PersistentFlags().String("log-format", "", "log output format: text or json (default from config)")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))

	regCommands()

	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, args []string) error {
	logging.SetVerbose(viper.GetBool("verbose"))
	return logging.SetFormat(viper.GetString("log-format"))
}

// loadConfig reads the config file named by --config, or the default locations.
func loadConfig() (*config.File, error) {
	f, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	if f.Verbose || viper.GetBool("verbose") {
		logging.SetVerbose(true)
	}

	if err := applyLogFormat(f); err != nil {
		return nil, err
	}

	return f, nil
}

// applyLogFormat uses the config file format unless --log-format was given.
func applyLogFormat(f *config.File) error {
	format := viper.GetString("log-format")
	if format == "" {
		format = f.LogFormat
	}

	return errors.Wrap(logging.SetFormat(format), "configuring logging")
}
