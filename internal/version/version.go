// Package version holds build metadata injected via ldflags, e.g.
//
//	-ldflags "-X github.com/kailas-cloud/extsearch/internal/version.Version=v0.3.0"
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the build metadata of the running binary.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the build metadata.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String formats the metadata on one line, e.g. "v0.3.0 (commit 1a2b3c, built 2026-01-02)".
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}
