package version

import "fmt"

// Build metadata, overridden via ldflags on release builds.
var (
	// Version is the semantic version of the bootstrap tool.
	Version = "0.1.0"
	// Commit is the short git SHA of the build, "none" for local builds.
	Commit = "none"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full renders the version with commit and build time for CLI output.
func Full() string {
	return fmt.Sprintf("ollama-bootstrap %s (commit %s, built %s)", Version, Commit, BuildTime)
}
