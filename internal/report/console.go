package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/open-edge-platform/apt-preflight/internal/index"
	"github.com/open-edge-platform/apt-preflight/internal/resolver"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - headings
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - failures
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - labels
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleVerdictPass = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	styleVerdictFail = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// RenderText writes the human-readable view of the report. Verbose
// adds the per-clause outcomes for every visited package.
func (r *Report) RenderText(w io.Writer, verbose bool) {
	if r.Result == nil {
		fmt.Fprintln(w, styleVerdictFail.Render(iconError+" ISSUES DETECTED"))
		return
	}

	r.renderHeader(w)
	r.renderSources(w)
	r.renderRoot(w)
	if verbose {
		r.renderClauses(w)
		r.renderWarnings(w)
	}
	r.renderMissing(w)
	r.renderSummary(w)
	r.renderVerdict(w)
}

func (r *Report) renderHeader(w io.Writer) {
	fmt.Fprintln(w, styleTitle.Render("Package availability check"))

	req := r.Result.Request
	version := req.Version
	if version == "" {
		version = "latest"
	}
	writeKeyValue(w, "Package", req.Name)
	writeKeyValue(w, "Version", version)
	writeKeyValue(w, "Series", r.Series)
	writeKeyValue(w, "Architecture", r.Architecture)
	writeKeyValue(w, "Mirror", r.Mirror)
	if req.Recursive {
		writeKeyValue(w, "Mode", "recursive")
	}
	fmt.Fprintln(w)
}

func (r *Report) renderSources(w io.Writer) {
	if len(r.Sources) == 0 {
		return
	}

	fmt.Fprintln(w, styleTitle.Render("Sources"))
	for _, sc := range r.Sources {
		count := fmt.Sprintf("%d packages", sc.Packages)
		fmt.Fprintln(w, "  "+styleSuccess.Render(iconSuccess)+" "+sc.Source.String()+styleDim.Render(" · "+count))
	}
	writeDetail(w, "%d packages indexed", r.TotalPackages)
	fmt.Fprintln(w)
}

func (r *Report) renderRoot(w io.Writer) {
	res := r.Result
	req := res.Request

	if res.Root == nil {
		missing := req.Name
		if req.Version != "" {
			missing = fmt.Sprintf("%s (version %s)", req.Name, req.Version)
		}
		fmt.Fprintln(w, styleError.Render(iconError)+" "+missing+" not found in any source")
		if len(res.KnownVersions) > 0 {
			writeDetail(w, "known versions: %s", strings.Join(res.KnownVersions, ", "))
		}
		fmt.Fprintln(w)
		return
	}

	root := res.Root
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" "+
		styleValue.Render(fmt.Sprintf("%s %s", root.Name, root.Version))+
		styleDim.Render(" ("+root.Source.String()+")"))
	fmt.Fprintln(w)
}

func (r *Report) renderClauses(w io.Writer) {
	res := r.Result
	if res.Root == nil {
		return
	}

	nodes := make([]resolver.Node, 0, len(res.Nodes)+1)
	nodes = append(nodes, *res.Root)
	nodes = append(nodes, res.Nodes...)

	printed := false
	for _, node := range nodes {
		if len(node.Clauses) == 0 {
			continue
		}
		if !printed {
			fmt.Fprintln(w, styleTitle.Render("Dependencies"))
			printed = true
		}
		renderNodeClauses(w, node)
	}
	if printed {
		fmt.Fprintln(w)
	}
}

func renderNodeClauses(w io.Writer, node resolver.Node) {
	fmt.Fprintln(w, "  "+styleValue.Render(fmt.Sprintf("%s %s", node.Name, node.Version)))
	for _, cr := range node.Clauses {
		if !cr.Satisfied {
			fmt.Fprintln(w, "    "+styleError.Render(iconError+" "+cr.Clause))
			continue
		}

		line := "    " + styleSuccess.Render(iconSuccess) + " " + cr.Clause
		if sel := selectedAlternative(cr); sel != nil {
			picked := fmt.Sprintf("%s %s", sel.Name, sel.Version)
			if sel.Virtual {
				picked += " (virtual)"
			}
			line += styleDim.Render(" " + iconArrow + " " + picked + " [" + sel.Source.String() + "]")
		}
		fmt.Fprintln(w, line)
	}
}

func (r *Report) renderWarnings(w io.Writer) {
	warnings := append(append([]string{}, r.Warnings...), r.Result.Warnings...)
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintln(w, styleTitle.Render("Warnings"))
	for _, warning := range warnings {
		fmt.Fprintln(w, "  "+styleWarning.Render(iconWarning)+" "+warning)
	}
	fmt.Fprintln(w)
}

func (r *Report) renderMissing(w io.Writer) {
	res := r.Result
	if len(res.Missing) == 0 || res.Root == nil {
		return
	}

	missing := make([]resolver.MissingDep, len(res.Missing))
	copy(missing, res.Missing)
	sort.Slice(missing, func(i, j int) bool { return missing[i].Name < missing[j].Name })

	fmt.Fprintln(w, styleTitle.Render("Missing"))
	for _, md := range missing {
		line := "  " + styleError.Render(iconError) + " " + md.String()
		if md.RequiredBy != "" {
			line += styleDim.Render(" · required by " + md.RequiredBy)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

func (r *Report) renderSummary(w io.Writer) {
	res := r.Result
	if res.Root == nil {
		return
	}

	parts := []string{
		fmt.Sprintf("%d packages", res.Stats.Visited),
		fmt.Sprintf("%d clauses", res.Stats.SatisfiedClauses+res.Stats.MissingClauses),
		fmt.Sprintf("%d satisfied", res.Stats.SatisfiedClauses),
		fmt.Sprintf("%d missing", res.Stats.MissingClauses),
	}
	if res.Request.Recursive {
		parts = append(parts, fmt.Sprintf("max depth %d", res.Stats.MaxDepth))
	}
	if n := len(r.Warnings) + len(res.Warnings); n > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", n))
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += styleDim.Render(" · ")
		}
		line += styleDim.Render(part)
	}
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)
}

func (r *Report) renderVerdict(w io.Writer) {
	if r.Satisfied() {
		fmt.Fprintln(w, styleVerdictPass.Render(iconSuccess+" ALL CHECKS PASSED"))
		return
	}
	fmt.Fprintln(w, styleVerdictFail.Render(iconError+" ISSUES DETECTED"))
}

// selectedAlternative returns the selection of the first satisfied
// alternative in a clause.
func selectedAlternative(cr resolver.ClauseResult) *index.Selection {
	for _, alt := range cr.Alternatives {
		if alt.Satisfied && alt.Selected != nil {
			return alt.Selected
		}
	}
	return nil
}

// writeKeyValue prints a labeled value.
func writeKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleLabel.Render("  "+key)+" "+styleValue.Render(value))
}

// writeDetail prints an indented secondary line.
func writeDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}
