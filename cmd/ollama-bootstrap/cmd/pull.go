package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/ollama-bootstrap/internal/service/puller"
)

// pullCmd downloads model artifacts sequentially, in order.
var pullCmd = &cobra.Command{
	Use:   "pull [model...]",
	Short: "Pull the configured model artifacts (or an explicit list)",
	RunE: func(_ *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signalContext()
		defer stop()

		options := &puller.Options{
			ConfigPath: configPath,
			Models:     args,
		}

		return puller.Run(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(pullCmd)
}
