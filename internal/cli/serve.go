package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pilacorp/go-did-resolver/logging"
	"github.com/pilacorp/go-did-resolver/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "serve DID resolution over HTTP",
		RunE:  runServe,
	}
)

func init() {
	serveCmd.Flags().StringP("listen", "l", "", "listen address (default :8080)")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func runServe(cmd *cobra.Command, args []string) error {
	f, err := loadConfig()
	if err != nil {
		return err
	}

	if listen := viper.GetString("listen"); listen != "" {
		f.Listen = listen
	}

	d, err := buildDispatcher(f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Entry().WithField("methods", d.Methods()).Info("starting resolver")

	if err := server.Serve(ctx, f.Listen, d); err != nil {
		return errors.Wrap(err, "serving")
	}

	return nil
}
