package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/ollama-bootstrap/internal/service/installer"
)

var (
	// forceInstall reinstalls even when the binary is already present.
	forceInstall bool

	// installCmd provisions the server binary.
	installCmd = &cobra.Command{
		Use:   "install",
		Short: "Download and install the server binary",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signalContext()
			defer stop()

			options := &installer.Options{
				ConfigPath: configPath,
				Force:      forceInstall,
			}

			return installer.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	installCmd.Flags().BoolVar(&forceInstall, "force", false,
		"reinstall even when the binary is already on the PATH")

	rootCmd.AddCommand(installCmd)
}
