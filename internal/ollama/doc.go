// Package ollama is a minimal client for the local model server HTTP API.
// It covers only what the bootstrap needs: the tags listing used as the
// liveness probe, the version endpoint, and a heartbeat against the root.
package ollama
