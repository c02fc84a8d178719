// Package version exposes build metadata for the About dialog and startup log.
package version

// Stamped by the release build via
// -ldflags "-X .../internal/version.Version=... -X .../internal/version.BuildTime=...".
var (
	// Version is the semantic version of this build.
	Version = "0.3.0"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the abbreviated commit hash.
	GitCommit = "unknown"
)
