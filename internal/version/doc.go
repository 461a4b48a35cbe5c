// Package version exposes build metadata for the dashboard-sync binaries.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
package version
