package deb

import (
	"testing"
)

// FuzzCompareVersions checks ordering invariants over arbitrary inputs
func FuzzCompareVersions(f *testing.F) {
	f.Add("1.0", "1.0~beta")
	f.Add("1:0.5", "2.0")
	f.Add("6.8.0-94.96", "6.8.0-100.100")
	f.Add("", "")
	f.Add("~", ":")
	f.Add("0:0-0", "0")
	f.Add("1.0-1-2", "1.0-1")
	f.Add("a", "A")
	f.Add("1000000000000000000000", "999999999999999999999")

	f.Fuzz(func(t *testing.T, a string, b string) {
		got := CompareVersions(a, b)
		if got < -1 || got > 1 {
			t.Fatalf("CompareVersions(%q, %q) = %d, outside [-1, 1]", a, b, got)
		}

		// Antisymmetry
		if back := CompareVersions(b, a); back != -got {
			t.Errorf("CompareVersions(%q, %q) = %d but reversed = %d", a, b, got, back)
		}

		// Reflexivity
		if CompareVersions(a, a) != 0 {
			t.Errorf("CompareVersions(%q, %q) != 0", a, a)
		}
		if CompareVersions(b, b) != 0 {
			t.Errorf("CompareVersions(%q, %q) != 0", b, b)
		}
	})
}

// FuzzParsePackages ensures stanza parsing never panics and only emits
// records with the mandatory fields present
func FuzzParsePackages(f *testing.F) {
	f.Add("Package: a\nVersion: 1.0\n")
	f.Add("Package: a\nVersion: 1.0\n\nPackage: b\nVersion: 2.0\n")
	f.Add("Package: a\n\nVersion: 1.0\n")
	f.Add(" leading continuation\n")
	f.Add("NoSeparatorLine\nPackage: a\nVersion: 1\n")
	f.Add("Package: a\nVersion: 1\nProvides: b (= 2), c\n")
	f.Add("Package: a\nVersion: 1\nDepends: x | y (>= 1), z\n")
	f.Add("")
	f.Add("\n\n\n")
	f.Add("Package: a\nVersion: 1\nDescription: text\n .\n more\n")

	f.Fuzz(func(t *testing.T, text string) {
		packages, _ := ParsePackages(text)
		for _, p := range packages {
			if p.Name == "" {
				t.Error("parsed package with empty name")
			}
			if p.Version == "" {
				t.Errorf("package %s parsed with empty version", p.Name)
			}
		}
	})
}

// FuzzParseDepends checks that clause parsing never panics and that
// parsed clauses survive a render and re-parse round trip
func FuzzParseDepends(f *testing.F) {
	f.Add("libc6 (>= 2.38), zlib1g")
	f.Add("logsave | e2fsprogs (<< 1.45.3-1~)")
	f.Add("python3:any")
	f.Add("libfoo [amd64 i386]")
	f.Add("a (= 1:2.0-1), b (>> 0), c (<< 9)")
	f.Add("(((")
	f.Add("|||")
	f.Add(",,,")
	f.Add("a (~> 1.0)")
	f.Add("")

	f.Fuzz(func(t *testing.T, raw string) {
		clauses, _ := ParseDepends(raw)
		for _, clause := range clauses {
			if len(clause.Alternatives) == 0 {
				t.Fatal("parsed clause with no alternatives")
			}
			for _, alt := range clause.Alternatives {
				if alt.Name == "" {
					t.Fatal("parsed alternative with empty name")
				}
			}

			// A parsed clause renders to text that parses back to the
			// same clause.
			again, warnings := ParseDepends(clause.String())
			if len(warnings) != 0 {
				t.Fatalf("re-parse of %q warned: %v", clause.String(), warnings)
			}
			if len(again) != 1 || again[0].String() != clause.String() {
				t.Fatalf("round trip changed clause %q to %+v", clause.String(), again)
			}
		}
	})
}
