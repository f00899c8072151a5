// Package archive fetches Packages metadata from an apt mirror: it
// enumerates sources, downloads and decompresses their indexes with a
// worker pool and keeps a local cache keyed on the mirror's
// Last-Modified stamps.
package archive

import (
	"fmt"
	"strings"

	"github.com/open-edge-platform/apt-preflight/internal/index"
)

// Pocket labels. Release maps to the bare dists/<series> tree, the
// others to dists/<series>-<pocket>.
const (
	PocketRelease  = "release"
	PocketSecurity = "security"
	PocketUpdates  = "updates"
)

// DefaultPockets lists the pockets checked when the caller does not
// narrow them down.
var DefaultPockets = []string{PocketRelease, PocketSecurity, PocketUpdates}

// DefaultComponents lists the archive components checked by default.
var DefaultComponents = []string{"main", "restricted", "universe", "multiverse"}

// Sources expands components and pockets into their cross product,
// component-major. The order is stable: it decides which source wins
// when several publish the same package version.
func Sources(components, pockets []string) []index.Source {
	sources := make([]index.Source, 0, len(components)*len(pockets))
	for _, component := range components {
		for _, pocket := range pockets {
			sources = append(sources, index.Source{Component: component, Pocket: pocket})
		}
	}
	return sources
}

// PackagesURL builds the URL of one metadata file below the mirror.
// The release pocket lives directly under dists/<series>; every other
// pocket under dists/<series>-<pocket>.
func PackagesURL(mirror, series string, src index.Source, arch, filename string) string {
	dist := series
	if src.Pocket != PocketRelease {
		dist = series + "-" + src.Pocket
	}
	return fmt.Sprintf("%s/dists/%s/%s/binary-%s/%s",
		strings.TrimRight(mirror, "/"), dist, src.Component, arch, filename)
}
