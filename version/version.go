// Package version exposes build-time version information.
// The variables are overridden at link time via -ldflags "-X".
package version

//nolint:gochecknoglobals // set by the linker
var (
	name    = "texlog"
	version = "0.0.0-dev"
	commit  = "unknown"
)

// Name returns the binary name.
func Name() string {
	return name
}

// Version returns the semantic version of the build.
func Version() string {
	return version
}

// Commit returns the git commit the binary was built from.
func Commit() string {
	return commit
}
