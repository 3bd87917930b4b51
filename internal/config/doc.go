// Package config defines bootstrap settings shared by the subcommands and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the install endpoint, the model list, the server
// log/state file locations and the timeouts governing pulls and readiness.
// Every field has a default matching the original setup script, so running
// without a settings file reproduces its behavior.
package config
