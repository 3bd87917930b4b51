package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTagsServer returns a test server answering /api/tags with the given body
// and records the requests it receives.
func newTagsServer(t *testing.T, body string, requests *[]*http.Request) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			*requests = append(*requests, r)
		}

		switch r.URL.Path {
		case "/api/tags":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		case "/api/version":
			_, _ = w.Write([]byte(`{"version":"0.5.7"}`))
		case "/":
			_, _ = w.Write([]byte("Ollama is running"))
		default:
			http.NotFound(w, r)
		}
	}))

	t.Cleanup(server.Close)

	return server
}

// TestClientTags verifies the probe targets GET /api/tags and decodes the models key.
func TestClientTags(t *testing.T) {
	t.Parallel()

	var requests []*http.Request

	server := newTagsServer(t, `{"models":[{"name":"mistral:latest","size":42}]}`, &requests)

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	tags, err := client.Tags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags.Models, 1)
	require.Equal(t, "mistral:latest", tags.Models[0].Name)

	require.Len(t, requests, 1)
	require.Equal(t, http.MethodGet, requests[0].Method)
	require.Equal(t, "/api/tags", requests[0].URL.Path)
}

// TestClientVersionAndHeartbeat covers the remaining endpoints.
func TestClientVersionAndHeartbeat(t *testing.T) {
	t.Parallel()

	server := newTagsServer(t, `{"models":[]}`, nil)

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	v, err := client.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0.5.7", v)

	require.NoError(t, client.Heartbeat(context.Background()))
}

// TestClientBadStatus ensures non-200 responses surface as errors.
func TestClientBadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.Tags(context.Background())
	require.Error(t, err)
}

// TestHasModel checks tag-insensitive matching of artifact names. An untagged
// identifier is satisfied by any tag of the same name, not just :latest.
func TestHasModel(t *testing.T) {
	t.Parallel()

	cached := []Model{
		{Name: "mistral:latest"},
		{Name: "mistral-nemo:12b"},
		{Name: "llama3.2:3b"},
	}

	require.True(t, HasModel(cached, "mistral"))
	require.True(t, HasModel(cached, "mistral:latest"))
	require.True(t, HasModel(cached, "mistral-nemo"))
	require.True(t, HasModel(cached, "llama3.2:3b"))
	require.True(t, HasModel(cached, "llama3.2"))
	require.False(t, HasModel(cached, "llama"))
	require.False(t, HasModel(cached, "mistral:7b"))
	require.False(t, HasModel(cached, "gemma"))
}

// TestNewClientValidation rejects an empty base URL.
func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	_, err := NewClient("")
	require.Error(t, err)
}
