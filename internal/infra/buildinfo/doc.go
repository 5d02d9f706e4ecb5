// Package buildinfo reports the version of the running binary.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/ltrgate-go/internal/infra/buildinfo.Version=v1.0.0"
//
// Fields left unset are filled from the build information embedded by the
// Go toolchain, when available.
package buildinfo
