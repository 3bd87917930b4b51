// Package puller downloads model artifacts through the server's pull
// subcommand, sequentially and in configured order, with a per-model timeout
// and an explicit strict/best-effort failure policy.
package puller
