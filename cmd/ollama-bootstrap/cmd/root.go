package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	"github.com/oshokin/ollama-bootstrap/internal/logger"
	"github.com/oshokin/ollama-bootstrap/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel is the minimum level for console logging.
	logLevel string

	// rootCmd represents the base command for managing the local model runtime.
	rootCmd = &cobra.Command{
		Use:   "ollama-bootstrap",
		Short: "Install, provision and supervise a local Ollama runtime",
		Long: "ollama-bootstrap installs the Ollama binary, pulls the configured model " +
			"artifacts, starts the server as a supervised background process and " +
			"verifies it answers its HTTP API.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
	}
)

// signalContext returns a context canceled on SIGTERM/SIGINT.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// Execute runs the ollama-bootstrap CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup persistent flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
}
