// Package report renders resolution results for people and for
// machines: a styled console view, a JSON view and a persisted report
// file per run.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/open-edge-platform/apt-preflight/internal/index"
	"github.com/open-edge-platform/apt-preflight/internal/resolver"
)

// ErrIssuesDetected signals that a check completed but found missing
// packages or unsatisfiable dependencies. Commands return it so the
// process can exit non-zero without printing a stack of wrapped errors.
var ErrIssuesDetected = errors.New("dependency issues detected")

// Report is the full record of one availability check. It wraps the
// resolver result with the run parameters and the fetch summary so a
// written report file is self-contained.
type Report struct {
	RunID         string              `json:"runId"`
	GeneratedAt   time.Time           `json:"generatedAt"`
	Series        string              `json:"series"`
	Architecture  string              `json:"architecture"`
	Mirror        string              `json:"mirror"`
	Sources       []index.SourceCount `json:"sources,omitempty"`
	TotalPackages int                 `json:"totalPackages"`
	Warnings      []string            `json:"warnings,omitempty"`
	Result        *resolver.Result    `json:"result"`
}

// New builds a report around a resolver result, stamping it with a
// fresh run ID and the current time.
func New(series, arch, mirror string, sources []index.SourceCount, totalPackages int, res *resolver.Result) *Report {
	return &Report{
		RunID:         uuid.New().String(),
		GeneratedAt:   time.Now().UTC(),
		Series:        series,
		Architecture:  arch,
		Mirror:        mirror,
		Sources:       sources,
		TotalPackages: totalPackages,
		Result:        res,
	}
}

// Satisfied reports whether the check found the root package and every
// dependency clause it examined.
func (r *Report) Satisfied() bool {
	return r.Result != nil && r.Result.Satisfied()
}

// RenderJSON writes the report as a single JSON document.
func (r *Report) RenderJSON(w io.Writer, pretty bool) error {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(r, "", "  ")
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, _ = fmt.Fprintln(w, string(b))
	return nil
}

// WriteFile persists the report as check-<runID>.json under dir,
// creating the directory when needed. It returns the written path.
func (r *Report) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("check-%s.json", r.RunID))
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
