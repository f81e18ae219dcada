package main

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/skinsight/diagnosis/backend/internal/domain/catalog"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/observability"
)

type rootOptions struct {
	catalogPath string
	verbose     bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "skindiag",
		Short:         "Rule-based skin condition diagnosis",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			// stdout carries JSON results, so logs go to stderr.
			observability.InitLogger("skindiag", "development",
				observability.WithWriter(cmd.ErrOrStderr()),
				observability.WithLevel(level))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "YAML condition catalog (default: built-in catalog)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newDiagnoseCommand(opts),
		newConditionsCommand(opts),
		newEvaluateCommand(opts),
	)
	return cmd
}

func (o *rootOptions) loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(o.catalogPath)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
