// Package env carries build-time identity, injected via -ldflags.
package env

const AppName = "rescuer"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
