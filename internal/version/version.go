// Package version holds build information set through ldflags:
//
//	go build -ldflags "-X esign-composer/internal/version.Version=1.2.0"
package version

// Version is set during build via ldflags
var Version = "dev"
