// Package version provides build-time version information.
package version

import "fmt"

// These variables are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the version line printed by tint --version.
func String() string {
	return fmt.Sprintf("tint version %s (commit: %s, built: %s)", Version, Commit, Date)
}
