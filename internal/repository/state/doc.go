// Package state persists the record of the detached model server process
// between subcommand invocations. The record is stored as a small JSON file
// next to the settings, so `serve`, `status` and `stop` agree on which PID
// belongs to the bootstrap.
package state
