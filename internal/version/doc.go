// Package version carries the build metadata of the bootstrap tool.
// Version, Commit and BuildTime are injected via ldflags; Short and Full
// render them for CLI output.
package version
