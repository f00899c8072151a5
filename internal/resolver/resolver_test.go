package resolver

import (
	"encoding/json"
	"testing"

	"github.com/open-edge-platform/apt-preflight/internal/index"
)

func buildIndex(t *testing.T, text string) *index.Index {
	t.Helper()
	ix, warnings := index.Build("amd64", []index.SourceData{
		{Source: index.Source{Component: "main", Pocket: "release"}, Contents: text},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected index warnings: %v", warnings)
	}
	return ix
}

func TestResolveLatestRoot(t *testing.T) {
	ix := buildIndex(t, `Package: linux-generic
Version: 6.8.0-94.96
Depends: linux-image-generic (= 6.8.0-94.96)

Package: linux-generic
Version: 6.8.0-100.100
Depends: linux-image-generic (= 6.8.0-100.100)

Package: linux-image-generic
Version: 6.8.0-94.96

Package: linux-image-generic
Version: 6.8.0-100.100
`)

	res := Resolve(ix, Request{Name: "linux-generic"})
	if res.Status != StatusFound {
		t.Fatalf("expected found, got %s", res.Status)
	}
	if res.Root.Version != "6.8.0-100.100" {
		t.Errorf("expected latest root version, got %s", res.Root.Version)
	}
	if !res.Satisfied() {
		t.Errorf("expected satisfied result, missing: %v", res.Missing)
	}
	if res.Stats.DirectClauses != 1 {
		t.Errorf("expected 1 direct clause, got %d", res.Stats.DirectClauses)
	}
}

func TestResolvePinnedRoot(t *testing.T) {
	ix := buildIndex(t, `Package: tool
Version: 1.0

Package: tool
Version: 2.0
`)

	res := Resolve(ix, Request{Name: "tool", Version: "1.0"})
	if res.Status != StatusFound || res.Root.Version != "1.0" {
		t.Fatalf("expected pinned root 1.0, got %+v", res)
	}

	res = Resolve(ix, Request{Name: "tool", Version: "3.0"})
	if res.Status != StatusMissing {
		t.Fatal("expected missing status for absent pinned version")
	}
	if len(res.Missing) != 1 || res.Missing[0].Name != "tool" || res.Missing[0].Version != "3.0" {
		t.Errorf("unexpected missing list %+v", res.Missing)
	}
	if len(res.KnownVersions) != 2 || res.KnownVersions[1] != "2.0" {
		t.Errorf("expected known versions hint, got %v", res.KnownVersions)
	}
}

func TestResolveUnknownRoot(t *testing.T) {
	ix := buildIndex(t, "")

	res := Resolve(ix, Request{Name: "ghost"})
	if res.Status != StatusMissing {
		t.Fatal("expected missing on empty index")
	}
	if res.Root != nil {
		t.Error("expected nil root node")
	}
	if res.KnownVersions != nil {
		t.Errorf("expected no version hints, got %v", res.KnownVersions)
	}
}

func TestResolveExactPinFidelity(t *testing.T) {
	// The meta-package pins an exact dependency version. Only the
	// newer build exists, which must not satisfy the pin.
	ix := buildIndex(t, `Package: linux-generic
Version: 6.8.0-94.96
Depends: linux-image-generic (= 6.8.0-94.96)

Package: linux-image-generic
Version: 6.8.0-100.100
`)

	res := Resolve(ix, Request{Name: "linux-generic"})
	if res.Status != StatusFound {
		t.Fatalf("expected root found, got %s", res.Status)
	}
	if res.Satisfied() {
		t.Fatal("expected unsatisfied pinned dependency")
	}
	if len(res.Missing) != 1 {
		t.Fatalf("expected exactly one missing entry, got %+v", res.Missing)
	}
	md := res.Missing[0]
	if md.Name != "linux-image-generic" || md.Version != "6.8.0-94.96" {
		t.Errorf("unexpected missing entry %+v", md)
	}
	if md.RequiredBy != "linux-generic" {
		t.Errorf("expected requiredBy linux-generic, got %q", md.RequiredBy)
	}
}

func TestResolveVirtualProvide(t *testing.T) {
	ix := buildIndex(t, `Package: linux-generic
Version: 6.8.0-100.100
Depends: linux-image-generic (= 6.8.0.100.100)

Package: linux-image-6.8.0-100-generic
Version: 6.8.0-100.100
Provides: linux-image-generic (= 6.8.0.100.100)
`)

	res := Resolve(ix, Request{Name: "linux-generic", Recursive: true})
	if !res.Satisfied() {
		t.Fatalf("expected provide to satisfy pinned dependency, missing: %v", res.Missing)
	}

	alt := res.Root.Clauses[0].Alternatives[0]
	if alt.Selected == nil || !alt.Selected.Virtual {
		t.Fatalf("expected virtual selection, got %+v", alt.Selected)
	}
	if alt.Selected.Name != "linux-image-6.8.0-100-generic" {
		t.Errorf("unexpected provider %q", alt.Selected.Name)
	}

	// The provider itself is walked in recursive mode.
	if len(res.Nodes) != 1 || res.Nodes[0].Name != "linux-image-6.8.0-100-generic" {
		t.Errorf("expected provider node visit, got %+v", res.Nodes)
	}
}

func TestResolveAlternatives(t *testing.T) {
	ix := buildIndex(t, `Package: app
Version: 1.0
Depends: missing-db | sqlite3, gone-a | gone-b

Package: sqlite3
Version: 3.45.1
`)

	res := Resolve(ix, Request{Name: "app"})
	if res.Status != StatusFound {
		t.Fatal("expected root found")
	}

	first := res.Root.Clauses[0]
	if !first.Satisfied {
		t.Error("expected clause satisfied through second alternative")
	}
	if first.Alternatives[0].Satisfied || !first.Alternatives[1].Satisfied {
		t.Errorf("unexpected alternative outcomes %+v", first.Alternatives)
	}

	second := res.Root.Clauses[1]
	if second.Satisfied {
		t.Error("expected second clause unsatisfied")
	}
	if len(res.Missing) != 1 || res.Missing[0].Name != "gone-a" {
		t.Errorf("expected first alternative as representative missing, got %+v", res.Missing)
	}
}

func TestResolveCycleVisitedOnce(t *testing.T) {
	ix := buildIndex(t, `Package: pkg-a
Version: 1.0
Depends: pkg-b

Package: pkg-b
Version: 2.0
Depends: pkg-a
`)

	res := Resolve(ix, Request{Name: "pkg-a", Recursive: true})
	if !res.Satisfied() {
		t.Fatalf("expected cycle to resolve, missing: %v", res.Missing)
	}
	if res.Stats.Visited != 2 {
		t.Errorf("expected each cycle member visited once, got %d visits", res.Stats.Visited)
	}
	if len(res.Nodes) != 1 || res.Nodes[0].Name != "pkg-b" {
		t.Errorf("expected single transitive node pkg-b, got %+v", res.Nodes)
	}
}

func TestResolveSelfDependency(t *testing.T) {
	ix := buildIndex(t, `Package: ouroboros
Version: 1.0
Depends: ouroboros
`)

	res := Resolve(ix, Request{Name: "ouroboros", Recursive: true})
	if !res.Satisfied() {
		t.Fatalf("expected self-dependency to terminate, missing: %v", res.Missing)
	}
	if res.Stats.Visited != 1 {
		t.Errorf("expected one visit, got %d", res.Stats.Visited)
	}
}

func TestResolveMissingPropagation(t *testing.T) {
	// Several packages in the closure require the same absent package;
	// the aggregate must list it once.
	ix := buildIndex(t, `Package: linux-generic
Version: 6.8.0-100.100
Depends: linux-image-generic (= 6.8.0-100.100), linux-headers-generic (= 6.8.0-100.100)

Package: linux-image-generic
Version: 6.8.0-100.100
Depends: linux-modules-6.8.0-100-generic (= 6.8.0-100.100)

Package: linux-headers-generic
Version: 6.8.0-100.100
Depends: linux-modules-6.8.0-100-generic (= 6.8.0-100.100)
`)

	res := Resolve(ix, Request{Name: "linux-generic", Recursive: true})
	if res.Satisfied() {
		t.Fatal("expected missing transitive dependency")
	}
	if len(res.Missing) != 1 {
		t.Fatalf("expected single deduplicated missing entry, got %+v", res.Missing)
	}
	md := res.Missing[0]
	if md.Name != "linux-modules-6.8.0-100-generic" {
		t.Errorf("unexpected missing name %q", md.Name)
	}
	if md.RequiredBy != "linux-image-generic" {
		t.Errorf("expected first reporter kept, got %q", md.RequiredBy)
	}
	if res.Stats.MissingClauses != 2 {
		t.Errorf("expected both failing clauses counted, got %d", res.Stats.MissingClauses)
	}
}

func TestResolveBreadthFirstDepths(t *testing.T) {
	ix := buildIndex(t, `Package: root
Version: 1.0
Depends: mid-a, mid-b

Package: mid-a
Version: 1.0
Depends: leaf

Package: mid-b
Version: 1.0

Package: leaf
Version: 1.0
`)

	res := Resolve(ix, Request{Name: "root", Recursive: true})
	if !res.Satisfied() {
		t.Fatalf("expected satisfied, missing: %v", res.Missing)
	}

	// Both mids are discovered before the leaf is expanded.
	order := make([]string, 0, len(res.Nodes))
	depths := make(map[string]int)
	for _, n := range res.Nodes {
		order = append(order, n.Name)
		depths[n.Name] = n.Depth
	}
	expected := []string{"mid-a", "mid-b", "leaf"}
	for i, name := range expected {
		if order[i] != name {
			t.Fatalf("expected traversal order %v, got %v", expected, order)
		}
	}
	if depths["mid-a"] != 1 || depths["mid-b"] != 1 || depths["leaf"] != 2 {
		t.Errorf("unexpected depths %v", depths)
	}
	if res.Stats.MaxDepth != 2 {
		t.Errorf("expected max depth 2, got %d", res.Stats.MaxDepth)
	}
}

func TestResolveNonRecursiveStopsAtDirect(t *testing.T) {
	ix := buildIndex(t, `Package: root
Version: 1.0
Depends: mid

Package: mid
Version: 1.0
Depends: absent-leaf
`)

	res := Resolve(ix, Request{Name: "root"})
	if !res.Satisfied() {
		t.Fatalf("expected direct-only check to pass, missing: %v", res.Missing)
	}
	if len(res.Nodes) != 0 {
		t.Errorf("expected no transitive nodes, got %+v", res.Nodes)
	}

	// The same request walked recursively finds the broken leaf.
	res = Resolve(ix, Request{Name: "root", Recursive: true})
	if res.Satisfied() {
		t.Fatal("expected recursive walk to surface the missing leaf")
	}
	if len(res.Missing) != 1 || res.Missing[0].Name != "absent-leaf" {
		t.Errorf("unexpected missing %+v", res.Missing)
	}
}

func TestResolveIdempotent(t *testing.T) {
	ix := buildIndex(t, `Package: root
Version: 1.0
Depends: a | b, c (= 9.9), self

Package: a
Version: 1.0
Depends: b

Package: b
Version: 2.0

Package: self
Version: 1.0
Depends: root
`)

	req := Request{Name: "root", Recursive: true}
	first, err := json.Marshal(Resolve(ix, req))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Resolve(ix, req))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("expected identical results across runs:\n%s\n%s", first, second)
	}
}

func TestResolveDependencyParseWarnings(t *testing.T) {
	ix := buildIndex(t, `Package: warped
Version: 1.0
Depends: fine, broken (~~ 1.0)

Package: fine
Version: 1.0
`)

	res := Resolve(ix, Request{Name: "warped"})
	if !res.Satisfied() {
		t.Fatalf("expected parseable clauses to resolve, missing: %v", res.Missing)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one clause warning, got %v", res.Warnings)
	}
}
