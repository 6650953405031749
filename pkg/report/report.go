// Package report renders audit findings for people and machines.
//
// A Report is an immutable snapshot of one audit run. Emitters turn it into
// plain text for terminals, Markdown for committing next to the vault, or
// JSON for scripting. All three list the same findings grouped by kind in
// the checker's deterministic order.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/cognetkb/cognet/pkg/audit"
	"github.com/cognetkb/cognet/pkg/corpus"
)

// Report is the outcome of a single audit run.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Vault       string    `json:"vault"`

	NoteCount int `json:"note_count"`
	LinkCount int `json:"link_count"`
	TagCount  int `json:"tag_count"`

	Findings []audit.Finding    `json:"findings"`
	Summary  map[audit.Kind]int `json:"summary"`
}

// New assembles a report for the given vault and findings. Findings are
// assumed to be in checker order already.
func New(vaultPath string, idx *corpus.Index, findings []audit.Finding) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Vault:       vaultPath,
		NoteCount:   idx.NoteCount(),
		LinkCount:   idx.LinkCount(),
		TagCount:    len(idx.Tags()),
		Findings:    findings,
		Summary:     audit.CountByKind(findings),
	}
}

// Healthy reports whether the run found nothing to fix.
func (r *Report) Healthy() bool {
	return len(r.Findings) == 0
}

// ByKind returns the report's findings for one kind, preserving order.
func (r *Report) ByKind(kind audit.Kind) []audit.Finding {
	var out []audit.Finding
	for _, f := range r.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
