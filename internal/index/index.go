// Package index builds an in-memory package catalog from fetched
// Packages metadata and answers version and provider queries for the
// resolver.
package index

import (
	"fmt"
	"sort"

	"github.com/open-edge-platform/apt-preflight/internal/deb"
)

// Source identifies where a metadata file came from: one component of
// one pocket. Pocket labels follow the caller's configuration, the
// index only carries them through.
type Source struct {
	Component string `json:"component"`
	Pocket    string `json:"pocket"`
}

func (s Source) String() string { return s.Component + "/" + s.Pocket }

// SourceData pairs a source with the decompressed text of its
// Packages file.
type SourceData struct {
	Source   Source
	Contents string
}

// Entry is one (package, version) row of the index.
type Entry struct {
	Version string      `json:"version"`
	Source  Source      `json:"source"`
	Package deb.Package `json:"-"`
}

// Provider is one registered Provides edge: the named concrete package
// version declares the virtual name. ProvideVersion is empty for
// unversioned provides.
type Provider struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	ProvideVersion string `json:"provideVersion,omitempty"`
}

// SourceCount reports how many stanzas a single source contributed
// after architecture filtering, and the archive bytes they describe.
type SourceCount struct {
	Source   Source `json:"source"`
	Packages int    `json:"packages"`
	Bytes    int64  `json:"bytes,omitempty"`
}

// Selection is the outcome of satisfying one dependency alternative:
// the concrete package version picked, and whether it was reached
// through a virtual provide.
type Selection struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Source  Source `json:"source"`
	Virtual bool   `json:"virtual,omitempty"`
}

// Index maps package names to their known versions across all fetched
// sources. It is built once and read-only afterwards.
type Index struct {
	arch     string
	packages map[string][]Entry
	provides map[string][]Provider
	counts   []SourceCount
}

// Build parses every source in caller order into a single index.
// Records whose architecture matches neither the target nor "all" are
// dropped. When the same (name, version) pair appears in several
// sources the first source in caller order wins.
//
// Parse problems come back as warnings; they never fail the build.
func Build(arch string, sources []SourceData) (*Index, []string) {
	ix := &Index{
		arch:     arch,
		packages: make(map[string][]Entry),
		provides: make(map[string][]Provider),
	}
	var warnings []string

	for _, sd := range sources {
		records, parseWarnings := deb.ParsePackages(sd.Contents)
		for _, w := range parseWarnings {
			warnings = append(warnings, fmt.Sprintf("%s: %s", sd.Source, w))
		}

		kept := 0
		var bytes int64
		for _, r := range records {
			if !ix.archMatches(r.Architecture) {
				continue
			}
			kept++
			bytes += r.Size
			ix.add(r, sd.Source)
		}
		ix.counts = append(ix.counts, SourceCount{Source: sd.Source, Packages: kept, Bytes: bytes})
	}

	for name := range ix.packages {
		entries := ix.packages[name]
		sort.SliceStable(entries, func(i, j int) bool {
			return deb.CompareVersions(entries[i].Version, entries[j].Version) < 0
		})
	}

	return ix, warnings
}

func (ix *Index) archMatches(arch string) bool {
	if arch == "" || arch == "all" || ix.arch == "" {
		return true
	}
	return arch == ix.arch
}

// add registers one record unless the same (name, version) pair was
// already seen in an earlier source.
func (ix *Index) add(r deb.Package, src Source) {
	for _, e := range ix.packages[r.Name] {
		if e.Version == r.Version {
			return
		}
	}
	ix.packages[r.Name] = append(ix.packages[r.Name], Entry{
		Version: r.Version,
		Source:  src,
		Package: r,
	})
	for _, p := range r.Provides {
		ix.provides[p.Name] = append(ix.provides[p.Name], Provider{
			Name:           r.Name,
			Version:        r.Version,
			ProvideVersion: p.Version,
		})
	}
}

// Arch returns the architecture the index was built for.
func (ix *Index) Arch() string { return ix.arch }

// Len returns the number of distinct package names.
func (ix *Index) Len() int { return len(ix.packages) }

// Names returns every distinct package name in sorted order.
func (ix *Index) Names() []string {
	names := make([]string, 0, len(ix.packages))
	for name := range ix.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SourceCounts returns per-source stanza counts in caller order.
func (ix *Index) SourceCounts() []SourceCount { return ix.counts }

// Lookup returns all known versions of a package in ascending version
// order. The returned slice is shared and must not be modified.
func (ix *Index) Lookup(name string) []Entry { return ix.packages[name] }

// Versions returns the known version strings of a package in ascending
// order.
func (ix *Index) Versions(name string) []string {
	entries := ix.packages[name]
	if len(entries) == 0 {
		return nil
	}
	versions := make([]string, len(entries))
	for i, e := range entries {
		versions[i] = e.Version
	}
	return versions
}

// Latest returns the highest known version of a package.
func (ix *Index) Latest(name string) (Entry, bool) {
	entries := ix.packages[name]
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[len(entries)-1], true
}

// Exact returns the entry whose version string matches literally.
func (ix *Index) Exact(name, version string) (Entry, bool) {
	for _, e := range ix.packages[name] {
		if e.Version == version {
			return e, true
		}
	}
	return Entry{}, false
}

// Providers returns the packages declaring the given virtual name, in
// registration order.
func (ix *Index) Providers(name string) []Provider { return ix.provides[name] }

// Best returns the entry satisfying the constraint. Unconstrained
// lookups take the latest version; pinned "=" constraints require the
// literal version string so a pinned dependency is never silently
// served by a different build; range constraints take the highest
// satisfying version.
func (ix *Index) Best(name string, c *deb.Constraint) (Entry, bool) {
	if c == nil {
		return ix.Latest(name)
	}
	if c.Relation == deb.RelEqual {
		return ix.Exact(name, c.Version)
	}
	entries := ix.packages[name]
	for i := len(entries) - 1; i >= 0; i-- {
		if c.Satisfies(entries[i].Version) {
			return entries[i], true
		}
	}
	return Entry{}, false
}

// Satisfy resolves one dependency alternative against the index. It
// prefers a concrete package; when none satisfies, it falls back to
// virtual provides. An unconstrained dependency accepts any provider;
// a constrained one only matches providers declaring a version that
// satisfies it. The first registered satisfying provider wins.
func (ix *Index) Satisfy(name string, c *deb.Constraint) (Selection, bool) {
	if e, ok := ix.Best(name, c); ok {
		return Selection{Name: e.Package.Name, Version: e.Version, Source: e.Source}, true
	}
	for _, p := range ix.provides[name] {
		if c != nil && (p.ProvideVersion == "" || !c.Satisfies(p.ProvideVersion)) {
			continue
		}
		e, ok := ix.Exact(p.Name, p.Version)
		if !ok {
			continue
		}
		return Selection{Name: p.Name, Version: p.Version, Source: e.Source, Virtual: true}, true
	}
	return Selection{}, false
}
