// Package version exposes the melodex build identity stamped in at
// link time and logged on startup.
package version

//nolint:revive // Set via -ldflags "-X ..." at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
