package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/ollama-bootstrap/internal/service/bootstrap"
)

var (
	// bestEffort reproduces the original setup script's ignore-all-failures behavior.
	bestEffort bool

	// upCmd runs the full bootstrap: install, pull, serve, probe, announce.
	upCmd = &cobra.Command{
		Use:   "up",
		Short: "Install the runtime, pull all models, start and verify the server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signalContext()
			defer stop()

			options := &bootstrap.Options{
				ConfigPath: configPath,
				BestEffort: bestEffort,
			}

			return bootstrap.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	upCmd.Flags().BoolVar(&bestEffort, "best-effort", false,
		"continue through step failures instead of stopping at the first one")

	rootCmd.AddCommand(upCmd)
}
