package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/ollama-bootstrap/internal/service/supervisor"
)

// statusCmd reports the recorded process and API health.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the supervised process state and API health",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signalContext()
		defer stop()

		options := &supervisor.Options{
			ConfigPath: configPath,
		}

		return supervisor.RunStatus(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(statusCmd)
}
