// Package resolver walks the dependency graph of one root package
// against a built index and reports which dependency clauses can be
// satisfied.
package resolver

import (
	"fmt"

	"github.com/open-edge-platform/apt-preflight/internal/deb"
	"github.com/open-edge-platform/apt-preflight/internal/index"
	"github.com/open-edge-platform/apt-preflight/internal/utils/logger"
)

// Status of a resolved package or of the whole run.
type Status string

const (
	StatusFound   Status = "found"
	StatusMissing Status = "missing"
)

// Request names the root package to check. An empty Version selects
// the latest known version; Recursive walks the transitive closure.
type Request struct {
	Name      string `json:"name"`
	Version   string `json:"version,omitempty"`
	Recursive bool   `json:"recursive"`
}

// AlternativeResult records the outcome of one alternative inside a
// dependency clause.
type AlternativeResult struct {
	Name       string           `json:"name"`
	Constraint *deb.Constraint  `json:"constraint,omitempty"`
	Satisfied  bool             `json:"satisfied"`
	Selected   *index.Selection `json:"selected,omitempty"`
}

// ClauseResult records the outcome of one dependency clause. The
// clause is satisfied when at least one alternative is.
type ClauseResult struct {
	Clause       string              `json:"clause"`
	Satisfied    bool                `json:"satisfied"`
	Alternatives []AlternativeResult `json:"alternatives"`
}

// MissingDep is one unsatisfiable dependency. Version is set when the
// representative alternative carried an exact pin. RequiredBy names
// the first package that needed it.
type MissingDep struct {
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	RequiredBy string `json:"requiredBy,omitempty"`
}

func (m MissingDep) String() string {
	if m.Version == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (version %s)", m.Name, m.Version)
}

// Node is one resolved (package, version) pair in the traversal.
// Depth 0 is the root.
type Node struct {
	Name    string         `json:"name"`
	Version string         `json:"version"`
	Source  index.Source   `json:"source"`
	Depth   int            `json:"depth"`
	Clauses []ClauseResult `json:"clauses,omitempty"`
}

// Stats summarizes a resolution run.
type Stats struct {
	Visited          int `json:"visited"`
	DirectClauses    int `json:"directClauses"`
	SatisfiedClauses int `json:"satisfiedClauses"`
	MissingClauses   int `json:"missingClauses"`
	MaxDepth         int `json:"maxDepth"`
}

// Result is the full outcome of one resolution run. Nodes lists the
// transitive visits beyond the root in traversal order; it stays empty
// in non-recursive mode.
type Result struct {
	Request       Request      `json:"request"`
	Status        Status       `json:"status"`
	Root          *Node        `json:"root,omitempty"`
	KnownVersions []string     `json:"knownVersions,omitempty"`
	Nodes         []Node       `json:"nodes,omitempty"`
	Missing       []MissingDep `json:"missing,omitempty"`
	Warnings      []string     `json:"warnings,omitempty"`
	Stats         Stats        `json:"stats"`
}

// Satisfied reports whether the root and every checked dependency
// clause resolved.
func (r *Result) Satisfied() bool {
	return r.Status == StatusFound && len(r.Missing) == 0
}

type workItem struct {
	name    string
	version string
	depth   int
}

// Resolve checks the availability of the requested package and, in
// recursive mode, of its transitive dependency closure.
//
// Traversal is breadth-first over an explicit work queue. Every
// satisfied alternative enqueues its selected (name, version) pair;
// a pair is visited at most once per run, so dependency cycles
// terminate naturally. The walk is deterministic: clauses are checked
// in parse order and the queue preserves insertion order.
func Resolve(ix *index.Index, req Request) *Result {
	log := logger.Logger()

	res := &Result{Request: req, Status: StatusMissing}

	rootEntry, ok := lookupRoot(ix, req)
	if !ok {
		log.Debugf("root package %s not found (version %q)", req.Name, req.Version)
		res.Missing = append(res.Missing, MissingDep{Name: req.Name, Version: req.Version})
		res.KnownVersions = ix.Versions(req.Name)
		return res
	}

	res.Status = StatusFound

	visited := map[string]bool{
		visitKey(rootEntry.Package.Name, rootEntry.Version): true,
	}
	var queue []workItem

	root := resolveNode(ix, res, rootEntry, 0, req.Recursive, visited, &queue)
	res.Root = &root
	res.Stats.DirectClauses = len(root.Clauses)
	res.Stats.Visited = 1

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		entry, ok := ix.Exact(item.name, item.version)
		if !ok {
			// Selections always come from the index, so this only
			// happens if the index mutates underneath us.
			res.Missing = appendMissing(res.Missing, MissingDep{Name: item.name, Version: item.version})
			continue
		}

		node := resolveNode(ix, res, entry, item.depth, req.Recursive, visited, &queue)
		res.Nodes = append(res.Nodes, node)
		res.Stats.Visited++
		if item.depth > res.Stats.MaxDepth {
			res.Stats.MaxDepth = item.depth
		}
	}

	log.Debugf("resolved %s %s: %d visited, %d missing",
		rootEntry.Package.Name, rootEntry.Version, res.Stats.Visited, len(res.Missing))
	return res
}

func lookupRoot(ix *index.Index, req Request) (index.Entry, bool) {
	if req.Version != "" {
		return ix.Exact(req.Name, req.Version)
	}
	return ix.Latest(req.Name)
}

// resolveNode evaluates every dependency clause of one entry,
// enqueues satisfied selections in recursive mode and collects missing
// clauses into the result.
func resolveNode(ix *index.Index, res *Result, e index.Entry, depth int, recursive bool, visited map[string]bool, queue *[]workItem) Node {
	node := Node{
		Name:    e.Package.Name,
		Version: e.Version,
		Source:  e.Source,
		Depth:   depth,
	}

	clauses, parseWarnings := deb.ParseDepends(e.Package.Depends)
	for _, w := range parseWarnings {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s %s: %s", e.Package.Name, e.Version, w))
	}

	for _, clause := range clauses {
		cr := ClauseResult{Clause: clause.String()}
		for _, alt := range clause.Alternatives {
			ar := AlternativeResult{Name: alt.Name, Constraint: alt.Constraint}
			if sel, ok := ix.Satisfy(alt.Name, alt.Constraint); ok {
				ar.Satisfied = true
				ar.Selected = &sel
				cr.Satisfied = true
				if recursive {
					key := visitKey(sel.Name, sel.Version)
					if !visited[key] {
						visited[key] = true
						*queue = append(*queue, workItem{name: sel.Name, version: sel.Version, depth: depth + 1})
					}
				}
			}
			cr.Alternatives = append(cr.Alternatives, ar)
		}

		if cr.Satisfied {
			res.Stats.SatisfiedClauses++
		} else {
			res.Stats.MissingClauses++
			res.Missing = appendMissing(res.Missing, missingFromClause(clause, node.Name))
		}
		node.Clauses = append(node.Clauses, cr)
	}

	return node
}

// missingFromClause builds the representative missing entry for a
// fully unsatisfied clause: the first alternative's name, with the
// version attached when it was an exact pin.
func missingFromClause(clause deb.Clause, requiredBy string) MissingDep {
	first := clause.Alternatives[0]
	md := MissingDep{Name: first.Name, RequiredBy: requiredBy}
	if first.Constraint != nil && first.Constraint.Relation == deb.RelEqual {
		md.Version = first.Constraint.Version
	}
	return md
}

// appendMissing deduplicates on (name, version), keeping the first
// reporter.
func appendMissing(missing []MissingDep, md MissingDep) []MissingDep {
	for _, m := range missing {
		if m.Name == md.Name && m.Version == md.Version {
			return missing
		}
	}
	return append(missing, md)
}

func visitKey(name, version string) string {
	return name + "_" + version
}
