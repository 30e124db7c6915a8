// Package hostwatch carries build metadata shared by the binaries.
package hostwatch

import (
	_ "embed"
	"os"
	"sync"

	"github.com/doodlesbykumbi/hostwatch/pkg/release"
)

//go:embed CHANGELOG.md
var changelog []byte

var (
	parseOnce sync.Once
	parsed    *release.Changelog
)

// Changelog returns the release notes compiled into the binary.
func Changelog() *release.Changelog {
	parseOnce.Do(func() {
		cl, err := release.Parse(changelog)
		if err != nil {
			cl = &release.Changelog{Links: map[string]string{}}
		}
		parsed = cl
	})
	return parsed
}

// Version is HOSTWATCH_VERSION when set, else the newest release in the
// changelog.
func Version() string {
	if v := os.Getenv("HOSTWATCH_VERSION"); v != "" {
		return v
	}
	if r, ok := Changelog().Latest(); ok {
		return r.Version
	}
	return "dev"
}
