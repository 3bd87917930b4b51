package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the bootstrap subcommands.
type Config struct {
	// InstallScriptURL is the HTTPS location of the vendor install script.
	InstallScriptURL string `yaml:"install_script_url"`
	// BinaryURL optionally points at a prebuilt server binary. When set,
	// the installer downloads it directly instead of running the script.
	BinaryURL string `yaml:"binary_url,omitempty"`
	// BinaryChecksum is the base64-encoded SHA-512 checksum required for
	// a binary downloaded from BinaryURL.
	BinaryChecksum string `yaml:"binary_checksum,omitempty"`
	// Executable is the name of the installed server binary.
	Executable string `yaml:"executable"`
	// BaseURL is the root of the local server HTTP API.
	BaseURL string `yaml:"base_url"`
	// Models lists the artifact identifiers to pull, in order.
	Models []string `yaml:"models"`
	// LogFile receives the combined stdout/stderr of the detached server.
	LogFile string `yaml:"log_file"`
	// StateFile is the path to the JSON file recording the managed process.
	StateFile string `yaml:"state_file"`
	// Timeout is the duration for individual HTTP API calls.
	Timeout time.Duration `yaml:"timeout"`
	// PullTimeout bounds a single model download.
	PullTimeout time.Duration `yaml:"pull_timeout"`
	// ReadinessTimeout bounds the post-start readiness gate.
	ReadinessTimeout time.Duration `yaml:"readiness_timeout"`
	// BestEffort keeps going after step failures, reproducing the behavior
	// of the original setup script which never checked exit codes. The
	// default is to stop at the first failure.
	BestEffort bool `yaml:"best_effort"`
}

const (
	// DefaultConfigFilename is the default filename for bootstrap settings.
	DefaultConfigFilename = "ollama-bootstrap-settings.yaml"

	// DefaultStateFilename is the default filename for the process state JSON.
	DefaultStateFilename = "ollama-bootstrap-state.json"

	// DefaultInstallScriptURL is the vendor-published installer location.
	DefaultInstallScriptURL = "https://ollama.com/install.sh"

	// DefaultExecutable is the name of the installed server binary.
	DefaultExecutable = "ollama"

	// DefaultBaseURL is where the local server listens by default.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultLogFilename receives the detached server output.
	DefaultLogFilename = "ollama.log"

	// DefaultTimeout is the default duration for HTTP API calls.
	DefaultTimeout = 5 * time.Second

	// DefaultPullTimeout bounds a single model download. Model blobs run to
	// several gigabytes, so this is deliberately generous.
	DefaultPullTimeout = 30 * time.Minute

	// DefaultReadinessTimeout bounds the wait for the server to answer
	// its first API request after start.
	DefaultReadinessTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// DefaultModels are the artifacts pulled when the settings file lists none.
//
//nolint:gochecknoglobals // Shared read-only default.
var DefaultModels = []string{"mistral", "mistral:7b", "mistral-nemo", "llama3.2:3b"}

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errChecksumRequired is returned when a binary URL is set without a checksum.
	errChecksumRequired = errors.New("binary checksum must be provided with binary URL")
)

// Default returns the settings the original setup script hardcoded.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
// A missing file is not an error: the defaults mirror the original script,
// which read no configuration at all.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling defaults for anything left empty.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if _, err := url.ParseRequestURI(cfg.InstallScriptURL); err != nil {
		return fmt.Errorf("invalid install script URL: %w", err)
	}

	parsedBase, err := url.Parse(cfg.BaseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	if cfg.BinaryURL != "" {
		if _, err = url.ParseRequestURI(cfg.BinaryURL); err != nil {
			return fmt.Errorf("invalid binary URL: %w", err)
		}

		if cfg.BinaryChecksum == "" {
			return errChecksumRequired
		}
	}

	return nil
}

// applyDefaults fills unset fields with the values the original script used.
func applyDefaults(cfg *Config) {
	if cfg.InstallScriptURL == "" {
		cfg.InstallScriptURL = DefaultInstallScriptURL
	}

	if cfg.Executable == "" {
		cfg.Executable = DefaultExecutable
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if len(cfg.Models) == 0 {
		cfg.Models = append([]string(nil), DefaultModels...)
	}

	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFilename
	}

	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStateFilename
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.PullTimeout <= 0 {
		cfg.PullTimeout = DefaultPullTimeout
	}

	if cfg.ReadinessTimeout <= 0 {
		cfg.ReadinessTimeout = DefaultReadinessTimeout
	}
}
