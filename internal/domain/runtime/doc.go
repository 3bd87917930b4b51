// Package runtime holds the domain model for the managed model server:
// the process record persisted between subcommand invocations and the
// actor metadata attached to it for auditing.
package runtime
