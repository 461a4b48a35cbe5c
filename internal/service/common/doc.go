// Package common holds helpers shared by the dashboard-sync binaries.
//
// It provides a typed client over the DashboardSync gRPC API with per-call
// timeouts, and detects the local actor (hostname/username) recorded with
// timezone preference changes.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
