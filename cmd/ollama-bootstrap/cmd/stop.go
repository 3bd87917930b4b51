package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/ollama-bootstrap/internal/service/supervisor"
)

// stopCmd terminates the supervised server process.
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the supervised server process",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signalContext()
		defer stop()

		options := &supervisor.Options{
			ConfigPath: configPath,
		}

		return supervisor.RunStop(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(stopCmd)
}
