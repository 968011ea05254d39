// Package version provides version information for the hexa binary and
// the framework version generated projects require.
package version

import (
	_ "embed"
	"strings"
)

// VERSION is the release version from the VERSION file. It is used when
// ldflags do not set one, e.g. for go install.
//
//go:embed VERSION
var VERSION string

// Get returns the version with a "v" prefix.
func Get() string {
	return "v" + strings.TrimPrefix(strings.TrimSpace(VERSION), "v")
}
