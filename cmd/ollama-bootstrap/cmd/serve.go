package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/ollama-bootstrap/internal/service/supervisor"
)

// serveCmd starts the server detached and waits for readiness.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server as a supervised background process",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signalContext()
		defer stop()

		options := &supervisor.Options{
			ConfigPath: configPath,
		}

		return supervisor.RunServe(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(serveCmd)
}
