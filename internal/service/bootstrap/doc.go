// Package bootstrap orchestrates the full runtime setup: install the server
// binary, pull the configured model artifacts in order, start the server
// detached, gate on readiness and announce the outcome. The strictness of
// failure handling is a configuration choice, not an accident.
package bootstrap
