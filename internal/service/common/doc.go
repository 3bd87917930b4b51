// Package common contains helpers shared by the bootstrap services:
// actor detection for the audit trail and the Runner abstraction over
// external command execution.
package common
