package archive

import (
	"testing"

	"github.com/open-edge-platform/apt-preflight/internal/index"
)

func TestSourcesCrossProduct(t *testing.T) {
	sources := Sources([]string{"main", "universe"}, []string{PocketRelease, PocketSecurity})
	expected := []index.Source{
		{Component: "main", Pocket: "release"},
		{Component: "main", Pocket: "security"},
		{Component: "universe", Pocket: "release"},
		{Component: "universe", Pocket: "security"},
	}

	if len(sources) != len(expected) {
		t.Fatalf("expected %d sources, got %d", len(expected), len(sources))
	}
	for i, want := range expected {
		if sources[i] != want {
			t.Errorf("position %d: expected %v, got %v", i, want, sources[i])
		}
	}
}

func TestDefaultSourceSpace(t *testing.T) {
	sources := Sources(DefaultComponents, DefaultPockets)
	if len(sources) != 12 {
		t.Errorf("expected 4 components x 3 pockets = 12 sources, got %d", len(sources))
	}
}

func TestPackagesURL(t *testing.T) {
	testCases := []struct {
		name     string
		mirror   string
		src      index.Source
		expected string
	}{
		{
			name:     "release pocket uses bare dist",
			mirror:   "http://archive.ubuntu.com/ubuntu",
			src:      index.Source{Component: "main", Pocket: PocketRelease},
			expected: "http://archive.ubuntu.com/ubuntu/dists/noble/main/binary-amd64/Packages.gz",
		},
		{
			name:     "security pocket uses suffixed dist",
			mirror:   "http://archive.ubuntu.com/ubuntu",
			src:      index.Source{Component: "universe", Pocket: PocketSecurity},
			expected: "http://archive.ubuntu.com/ubuntu/dists/noble-security/universe/binary-amd64/Packages.gz",
		},
		{
			name:     "trailing mirror slash is trimmed",
			mirror:   "http://mirror.example.com/ubuntu/",
			src:      index.Source{Component: "main", Pocket: PocketUpdates},
			expected: "http://mirror.example.com/ubuntu/dists/noble-updates/main/binary-amd64/Packages.gz",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := PackagesURL(tc.mirror, "noble", tc.src, "amd64", "Packages.gz")
			if got != tc.expected {
				t.Errorf("expected %s\ngot      %s", tc.expected, got)
			}
		})
	}
}
