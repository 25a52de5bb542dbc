// Package buildinfo carries build metadata injected at link time via
// -ldflags "-X github.com/sooop-pk/sooop-portal/internal/buildinfo.Version=...".
package buildinfo

var (
	// Version is the release version of the running binary.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = ""
	// BuildDate is the UTC build timestamp.
	BuildDate = ""
)
