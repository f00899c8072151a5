package deb

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Provide is one entry of a Provides field. Version carries the
// declared "= x" version and stays empty for unversioned provides.
type Provide struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Package is one stanza of a Packages index. Depends holds the raw
// Depends and Pre-Depends values joined with a comma; callers parse it
// lazily with ParseDepends.
type Package struct {
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Architecture string    `json:"architecture,omitempty"`
	Depends      string    `json:"depends,omitempty"`
	Provides     []Provide `json:"provides,omitempty"`
	Filename     string    `json:"filename,omitempty"`
	Size         int64     `json:"size,omitempty"`
}

// Fields carried over from a stanza. Everything else is skipped while
// scanning.
var trackedFields = map[string]bool{
	"Package":      true,
	"Version":      true,
	"Architecture": true,
	"Depends":      true,
	"Pre-Depends":  true,
	"Provides":     true,
	"Filename":     true,
	"Size":         true,
}

// ParsePackages parses the decompressed text of one Packages index
// into package records. Stanzas are separated by blank lines; lines
// starting with space or tab continue the previous field.
//
// Malformed input degrades per stanza: a stanza without Package or
// Version is skipped with a warning and parsing continues with the
// next one.
func ParsePackages(text string) ([]Package, []string) {
	var (
		packages []Package
		warnings []string

		fields    = make(map[string]string)
		lastField string
		sawField  bool
		stanza    = 1
		line      int
	)

	flush := func() {
		if !sawField {
			return
		}
		pkg, err := buildPackage(fields)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("stanza %d: %v", stanza, err))
		} else {
			packages = append(packages, pkg)
		}
		fields = make(map[string]string)
		lastField = ""
		sawField = false
		stanza++
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line++
		raw := sc.Text()

		if strings.TrimSpace(raw) == "" {
			flush()
			continue
		}

		if raw[0] == ' ' || raw[0] == '\t' {
			if lastField == "" {
				warnings = append(warnings, fmt.Sprintf("line %d: continuation without a field", line))
				continue
			}
			if trackedFields[lastField] {
				fields[lastField] = joinContinuation(fields[lastField], raw)
			}
			continue
		}

		colon := strings.IndexByte(raw, ':')
		if colon < 0 {
			warnings = append(warnings, fmt.Sprintf("line %d: missing field separator", line))
			continue
		}

		name := strings.TrimSpace(raw[:colon])
		lastField = name
		sawField = true
		if trackedFields[name] {
			fields[name] = strings.TrimSpace(raw[colon+1:])
		}
	}
	flush()

	return packages, warnings
}

// joinContinuation appends a continuation line to a field value. The
// lone dot marks a paragraph break; other lines join with a space.
func joinContinuation(value, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "." {
		return value + "\n"
	}
	if value == "" {
		return trimmed
	}
	return value + " " + trimmed
}

func buildPackage(fields map[string]string) (Package, error) {
	name := fields["Package"]
	if name == "" {
		return Package{}, fmt.Errorf("missing Package field")
	}
	version := fields["Version"]
	if version == "" {
		return Package{}, fmt.Errorf("package %s: missing Version field", name)
	}

	depends := fields["Depends"]
	if pre := fields["Pre-Depends"]; pre != "" {
		if depends == "" {
			depends = pre
		} else {
			depends = depends + ", " + pre
		}
	}

	size, _ := strconv.ParseInt(fields["Size"], 10, 64)

	return Package{
		Name:         name,
		Version:      version,
		Architecture: fields["Architecture"],
		Depends:      depends,
		Provides:     parseProvides(fields["Provides"]),
		Filename:     fields["Filename"],
		Size:         size,
	}, nil
}

// parseProvides parses a Provides field. Policy only permits exact "="
// versions on provides; tokens with any other relation are kept as
// unversioned provides.
func parseProvides(raw string) []Provide {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var provides []Provide
	for _, tok := range strings.Split(raw, ",") {
		alt, err := parseAlternative(tok)
		if err != nil {
			continue
		}
		p := Provide{Name: alt.Name}
		if alt.Constraint != nil && alt.Constraint.Relation == RelEqual {
			p.Version = alt.Constraint.Version
		}
		provides = append(provides, p)
	}
	return provides
}
