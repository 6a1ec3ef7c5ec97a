package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pilacorp/go-did-resolver/client"
	"github.com/pilacorp/go-did-resolver/did"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	resolveCmd = &cobra.Command{
		Use:   "resolve <did>",
		Short: "resolve a DID and print its resolution result",
		Args:  cobra.ExactArgs(1),
		RunE:  runResolve,
	}
)

func init() {
	resolveCmd.Flags().Bool("canonical", false, "print the URDNA2015 canonical form of the document")
	resolveCmd.Flags().String("remote", "", "resolve through the resolver server at this URL")
}

func runResolve(cmd *cobra.Command, args []string) error {
	canonical, _ := cmd.Flags().GetBool("canonical")
	remote, _ := cmd.Flags().GetString("remote")

	resolve, err := resolveFunc(remote)
	if err != nil {
		return err
	}

	result, err := resolve(cmd.Context(), args[0])
	if err != nil {
		return errors.Wrap(err, "resolving DID")
	}

	return writeResult(cmd.OutOrStdout(), result, canonical)
}

func resolveFunc(remote string) (func(context.Context, string) (*did.ResolutionResult, error), error) {
	if remote != "" {
		return client.NewResolver(remote).Resolve, nil
	}

	f, err := loadConfig()
	if err != nil {
		return nil, err
	}

	d, err := buildDispatcher(f)
	if err != nil {
		return nil, err
	}

	return d.Resolve, nil
}

// writeResult prints result as indented JSON, or the canonical document when
// canonical is set and the DID resolved to a document.
func writeResult(w io.Writer, result *did.ResolutionResult, canonical bool) error {
	if canonical {
		if result.Document == nil {
			return fmt.Errorf("no document to canonicalize: %s", resultStatus(result))
		}

		nquads, err := did.Canonicalize(result.Document, nil)
		if err != nil {
			return errors.Wrap(err, "canonicalizing document")
		}

		_, err = io.WriteString(w, nquads)
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}

	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

func resultStatus(result *did.ResolutionResult) string {
	if result.ResolutionMetadata.Error != "" {
		return result.ResolutionMetadata.Error
	}
	if result.DocumentMetadata.Deactivated {
		return "deactivated"
	}
	return "no document"
}
