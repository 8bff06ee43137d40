package version

import (
	"fmt"
	"runtime"
)

// Build metadata injected by goreleaser or makefile
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// IsRelease reports whether this is a packaged build. Development builds
// skip the startup update check.
func IsRelease() bool { return Version != "dev" && Version != "" }

// GetVersion returns a formatted version string
func GetVersion() string {
	if !IsRelease() {
		return "dev"
	}
	return Version
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() string {
	if !IsRelease() {
		return fmt.Sprintf("MindTask dev (%s, %s)", runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("MindTask %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}

// GetShortVersion returns a short version string for display
func GetShortVersion() string {
	return "MindTask " + GetVersion()
}
