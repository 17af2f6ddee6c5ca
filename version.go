package neuroio

import "runtime"

// Version is the semantic version of the neuroio library.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// VersionInfo carries the build metadata baked into release binaries.
type VersionInfo struct {
	// Version is the semantic version (e.g. "0.1.0")
	Version string
	// GitCommit is the git commit hash, set via ldflags at build time
	GitCommit string
	// BuildTime is the build timestamp, set via ldflags at build time
	BuildTime string
	// GoVersion is the Go version used to build
	GoVersion string
}

// GetVersionInfo returns the build metadata. Fields not injected at build
// time read "unknown", except GoVersion which falls back to the runtime.
//
// Example build command:
//
//	go build -ldflags="-X github.com/sourcewave/neuroio.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/sourcewave/neuroio.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
func GetVersionInfo() VersionInfo {
	goVer := goVersion
	if goVer == "unknown" {
		goVer = runtime.Version()
	}

	return VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: goVer,
	}
}

// Populated at build time via -ldflags.
var (
	gitCommit = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)
