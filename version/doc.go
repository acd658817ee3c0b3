// Package version reports the build version of flatkit binaries.
//
// The version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/flatkit/version.Version=1.2.0" ./cmd/flatten
//
// Values left unset fall back to the VCS stamp in the binary's build info.
package version
