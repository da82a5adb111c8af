// Package version holds build metadata injected via ldflags, e.g.
//
//	-X github.com/kailas-cloud/cvmatch/internal/version.Version=v0.4.0
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String is the one-line build banner printed by `cvmatch version`.
func String() string {
	return fmt.Sprintf("cvmatch %s (commit %s, built %s)", Version, Commit, Date)
}
