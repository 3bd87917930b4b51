package installer

import (
	"bytes"
	"context"
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/ollama-bootstrap/internal/config"
	"github.com/oshokin/ollama-bootstrap/internal/logger"
	"github.com/oshokin/ollama-bootstrap/internal/service/common"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// DefaultFileMode is used for the downloaded install script and binary.
	DefaultFileMode os.FileMode = 0o755

	// DefaultChecksumFunction is used to verify downloaded binaries.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512
)

var (
	errBadHTTPStatus    = errors.New("unexpected http status")
	errHashUnavailable  = errors.New("hash function unavailable")
	errChecksumMismatch = errors.New("binary checksum mismatch")
	errUnsupportedOS    = errors.New("os not supported")
	errNotInstalled     = errors.New("binary not found after install")
)

// Service downloads and installs the model server binary, either by running
// the vendor install script or by applying a prebuilt binary directly.
type Service struct {
	// cfg holds the install endpoints and the expected executable name.
	cfg *config.Config
	// runner executes the install script.
	runner common.Runner
	// httpClient downloads the script or binary.
	httpClient *http.Client
}

// NewService builds an installer for the provided settings.
func NewService(cfg *config.Config, runner common.Runner) *Service {
	return &Service{
		cfg:        cfg,
		runner:     runner,
		httpClient: http.DefaultClient,
	}
}

// SetHTTPClient replaces the download client, mostly for tests.
func (s *Service) SetHTTPClient(httpClient *http.Client) {
	if httpClient != nil {
		s.httpClient = httpClient
	}
}

// IsInstalled reports whether the server binary is already on the PATH.
func (s *Service) IsInstalled() (string, bool) {
	path, err := s.runner.LookPath(s.cfg.Executable)
	if err != nil {
		return "", false
	}

	return path, true
}

// Ensure installs the binary unless it is already present.
func (s *Service) Ensure(ctx context.Context) error {
	if path, installed := s.IsInstalled(); installed {
		logger.InfoKV(ctx, "Server binary already installed", "path", path)
		return nil
	}

	return s.Install(ctx)
}

// Install performs the installation. When a binary URL is configured the
// prebuilt binary is downloaded and applied with checksum verification;
// otherwise the vendor install script is fetched and executed.
func (s *Service) Install(ctx context.Context) error {
	var err error
	if s.cfg.BinaryURL != "" {
		err = s.installFromBinary(ctx)
	} else {
		err = s.installFromScript(ctx)
	}

	if err != nil {
		return err
	}

	// The original script never verified the install; a later "command not
	// found" was its only signal. Check here so the failure is attributable.
	if _, installed := s.IsInstalled(); !installed {
		return fmt.Errorf("%s: %w", s.cfg.Executable, errNotInstalled)
	}

	return nil
}

// installFromScript fetches the vendor install script over TLS and runs it
// through the shell, the way the original one-liner piped curl into sh.
func (s *Service) installFromScript(ctx context.Context) error {
	osLC := strings.ToLower(runtime.GOOS)
	if !strings.Contains(osLC, "linux") && !strings.Contains(osLC, "darwin") {
		return fmt.Errorf("install script requires a POSIX shell, %s: %w", runtime.GOOS, errUnsupportedOS)
	}

	logger.InfoKV(ctx, "Downloading install script", "url", s.cfg.InstallScriptURL)

	data, err := s.download(ctx, s.cfg.InstallScriptURL)
	if err != nil {
		return fmt.Errorf("download install script: %w", err)
	}

	temporaryDirectory, err := os.MkdirTemp("", "ollama-bootstrap-installer-")
	if err != nil {
		return fmt.Errorf("create temporary directory: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(temporaryDirectory)
	}()

	scriptPath := filepath.Join(temporaryDirectory, "install.sh")
	if err = os.WriteFile(scriptPath, data, DefaultFileMode); err != nil {
		return fmt.Errorf("write install script: %w", err)
	}

	logger.Info(ctx, "Running install script")

	output, err := s.runner.Run(ctx, "sh", scriptPath)
	if err != nil {
		return fmt.Errorf("run install script: %w: %s", err, tail(output))
	}

	logger.Info(ctx, "Install script finished")

	return nil
}

// installFromBinary downloads a prebuilt server binary and applies it with
// checksum verification into the target path.
func (s *Service) installFromBinary(ctx context.Context) error {
	logger.InfoKV(ctx, "Downloading server binary", "url", s.cfg.BinaryURL)

	data, err := s.download(ctx, s.cfg.BinaryURL)
	if err != nil {
		return fmt.Errorf("download binary: %w", err)
	}

	expectedChecksum, err := base64.StdEncoding.DecodeString(s.cfg.BinaryChecksum)
	if err != nil {
		return fmt.Errorf("decode binary checksum: %w", err)
	}

	actualChecksum, err := checksum(data)
	if err != nil {
		return err
	}

	if !bytes.Equal(expectedChecksum, actualChecksum) {
		return errChecksumMismatch
	}

	targetPath := s.cfg.Executable
	if _, statErr := os.Stat(targetPath); statErr != nil && os.IsNotExist(statErr) {
		file, createErr := os.Create(targetPath)
		if createErr != nil {
			return fmt.Errorf("create target file: %w", createErr)
		}

		_ = file.Close()
	}

	logger.InfoKV(ctx, "Applying binary", "target", targetPath)

	options := goupdate.Options{
		TargetPath: targetPath,
		TargetMode: DefaultFileMode,
		Checksum:   expectedChecksum,
		Hash:       DefaultChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("apply binary: %w", err)
	}

	oldFileName := targetPath + ".old"
	if _, statErr := os.Stat(oldFileName); statErr == nil {
		_ = os.Remove(oldFileName)
	}

	return nil
}

// download fetches a URL and returns the body, failing on non-200 statuses.
func (s *Service) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", rawURL, response.Status, errBadHTTPStatus)
	}

	return io.ReadAll(response.Body)
}

// checksum hashes data using DefaultChecksumFunction.
func checksum(data []byte) ([]byte, error) {
	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err := hasher.Write(data); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}

// tail returns the last part of command output for error messages.
func tail(output []byte) string {
	const maxTail = 512

	trimmed := strings.TrimSpace(string(output))
	if len(trimmed) <= maxTail {
		return trimmed
	}

	return "..." + trimmed[len(trimmed)-maxTail:]
}
