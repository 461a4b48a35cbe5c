// Package config defines the settings shared by the dashboard-sync binaries
// and provides helpers to load, validate and save them in YAML format.
//
// Config holds the gRPC address, the preference state file, the fallback
// timezone and the asset locations used to resolve card images.
package config
