package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/oshokin/ollama-bootstrap/internal/config"
)

// Client wraps the local model server HTTP API with convenience helpers.
type Client struct {
	// baseURL is the root of the server API, e.g. http://localhost:11434.
	baseURL string
	// httpClient performs the requests.
	httpClient *http.Client

	// callTimeout is the default timeout for individual API calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for API calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client, mostly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

var (
	// errBaseURLRequired is returned when a required base URL is missing.
	errBaseURLRequired = errors.New("base URL must be provided")
	// errBadHTTPStatus is returned when the server answers with a non-200 status.
	errBadHTTPStatus = errors.New("unexpected http status")
)

// Model describes one installed artifact as reported by the tags endpoint.
type Model struct {
	// Name is the artifact identifier, e.g. "mistral:7b".
	Name string `json:"name"`
	// ModifiedAt is when the artifact was last written to the local cache.
	ModifiedAt time.Time `json:"modified_at"`
	// Size is the artifact size in bytes.
	Size int64 `json:"size"`
	// Digest is the content digest of the artifact.
	Digest string `json:"digest"`
}

// TagsResponse is the body of GET /api/tags.
type TagsResponse struct {
	// Models lists the artifacts present in the local cache.
	Models []Model `json:"models"`
}

// versionResponse is the body of GET /api/version.
type versionResponse struct {
	Version string `json:"version"`
}

// NewClient builds a client for the server rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  http.DefaultClient,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Tags lists the artifacts present in the server's local cache.
// This is also the endpoint used as the liveness probe.
func (c *Client) Tags(ctx context.Context) (*TagsResponse, error) {
	body, err := c.get(ctx, "/api/tags")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	var tags TagsResponse
	if err = json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	return &tags, nil
}

// Version reports the server's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/api/version")
	if err != nil {
		return "", fmt.Errorf("get version: %w", err)
	}

	var v versionResponse
	if err = json.Unmarshal(body, &v); err != nil {
		return "", fmt.Errorf("decode version: %w", err)
	}

	return v.Version, nil
}

// Heartbeat checks whether the server answers requests at all.
// The server responds to GET / with a short plain-text banner.
func (c *Client) Heartbeat(ctx context.Context) error {
	if _, err := c.get(ctx, "/"); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}

	return nil
}

// HasModel reports whether the named artifact is present in the given list.
// Identifiers without an explicit tag match any tag of the same name,
// so "mistral" matches "mistral:latest" and "mistral:7b" alike.
func HasModel(models []Model, name string) bool {
	for _, model := range models {
		if model.Name == name {
			return true
		}

		if !strings.Contains(name, ":") && strings.HasPrefix(model.Name, name+":") {
			return true
		}
	}

	return false
}

// get performs a GET against the API and returns the response body.
func (c *Client) get(ctx context.Context, apiPath string) ([]byte, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	requestURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}

	// Use path.Join to normalize duplicate slashes when composing the URL path.
	requestURL.Path = path.Join(requestURL.Path, apiPath)
	finalURL := requestURL.String()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, finalURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", finalURL, response.Status, errBadHTTPStatus)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	return body, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
