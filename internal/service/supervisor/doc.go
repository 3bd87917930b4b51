// Package supervisor manages the detached model server process: start with
// log redirection and a persisted PID record, readiness polling against the
// HTTP API, status inspection and verified stop. It is the supervised
// replacement for the fire-and-forget `serve &` of the original script.
package supervisor
