// Package version exposes the build version injected at link time.
package version

// version is overridden via -ldflags at build time.
var version = "v0.0.0-dev"

// Version returns the build version string.
func Version() string {
	return version
}
