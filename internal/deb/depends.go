package deb

import (
	"fmt"
	"strings"
)

// Relation is a version comparison operator in a dependency constraint.
// The legacy single-character forms < and > are normalized to << and >>
// during parsing.
type Relation string

const (
	RelEqual           Relation = "="
	RelLessOrEqual     Relation = "<="
	RelGreaterOrEqual  Relation = ">="
	RelStrictlyLess    Relation = "<<"
	RelStrictlyGreater Relation = ">>"
)

// Constraint restricts the acceptable versions of a dependency.
type Constraint struct {
	Relation Relation `json:"relation"`
	Version  string   `json:"version"`
}

// Satisfies reports whether the given candidate version meets the
// constraint. A nil constraint accepts every version.
func (c *Constraint) Satisfies(version string) bool {
	if c == nil {
		return true
	}
	cmp := CompareVersions(version, c.Version)
	switch c.Relation {
	case RelEqual:
		return cmp == 0
	case RelLessOrEqual:
		return cmp <= 0
	case RelGreaterOrEqual:
		return cmp >= 0
	case RelStrictlyLess:
		return cmp < 0
	case RelStrictlyGreater:
		return cmp > 0
	default:
		return false
	}
}

func (c *Constraint) String() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", c.Relation, c.Version)
}

// Alternative is one choice inside a dependency clause: a package name
// with an optional version constraint.
type Alternative struct {
	Name       string      `json:"name"`
	Constraint *Constraint `json:"constraint,omitempty"`
}

func (a Alternative) String() string {
	if a.Constraint == nil {
		return a.Name
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.Constraint)
}

// Clause is one comma-separated element of a Depends field. The clause
// is satisfied when any of its pipe-separated alternatives is
// satisfiable.
type Clause struct {
	Alternatives []Alternative `json:"alternatives"`
}

func (c Clause) String() string {
	parts := make([]string, 0, len(c.Alternatives))
	for _, a := range c.Alternatives {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " | ")
}

// ParseDepends parses a raw Depends field value into clauses. Clauses
// that fail to parse are dropped and reported as warnings; they never
// abort parsing of the remaining clauses.
func ParseDepends(raw string) ([]Clause, []string) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var clauses []Clause
	var warnings []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		alts := make([]Alternative, 0, 1)
		ok := true
		for _, tok := range strings.Split(part, "|") {
			alt, err := parseAlternative(tok)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("skipping clause %q: %v", part, err))
				ok = false
				break
			}
			alts = append(alts, alt)
		}
		if !ok || len(alts) == 0 {
			continue
		}
		clauses = append(clauses, Clause{Alternatives: alts})
	}
	return clauses, warnings
}

// parseAlternative parses a single "name (op version)" token. The
// multiarch suffix on the name and any bracketed architecture
// qualifier are stripped.
func parseAlternative(tok string) (Alternative, error) {
	if i := strings.IndexByte(tok, '['); i >= 0 {
		tok = tok[:i]
	}
	tok = strings.TrimSpace(tok)

	name := tok
	var inside string
	hasConstraint := false
	if lp := strings.IndexByte(tok, '('); lp >= 0 {
		rp := strings.IndexByte(tok[lp:], ')')
		if rp < 0 {
			return Alternative{}, fmt.Errorf("unterminated version constraint in %q", tok)
		}
		name = tok[:lp]
		inside = strings.TrimSpace(tok[lp+1 : lp+rp])
		hasConstraint = true
	}

	name = strings.TrimSpace(name)
	if ci := strings.IndexByte(name, ':'); ci >= 0 {
		name = name[:ci]
	}
	if name == "" {
		return Alternative{}, fmt.Errorf("empty package name in %q", tok)
	}

	if !hasConstraint {
		return Alternative{Name: name}, nil
	}

	op := inside
	for i := 0; i < len(inside); i++ {
		if c := inside[i]; c != '<' && c != '>' && c != '=' {
			op = inside[:i]
			break
		}
	}
	version := strings.TrimSpace(inside[len(op):])

	rel, err := normalizeRelation(op)
	if err != nil {
		return Alternative{}, err
	}
	if version == "" {
		return Alternative{}, fmt.Errorf("missing version in constraint %q", inside)
	}
	return Alternative{Name: name, Constraint: &Constraint{Relation: rel, Version: version}}, nil
}

func normalizeRelation(op string) (Relation, error) {
	switch op {
	case "=":
		return RelEqual, nil
	case "<=":
		return RelLessOrEqual, nil
	case ">=":
		return RelGreaterOrEqual, nil
	case "<<", "<":
		return RelStrictlyLess, nil
	case ">>", ">":
		return RelStrictlyGreater, nil
	default:
		return "", fmt.Errorf("unsupported version relation %q", op)
	}
}
