// Package audit implements the consistency checker for a note corpus.
//
// The checker is a pure function over a built corpus index: given the same
// index and configuration it produces the same findings in the same order.
// It classifies problems - it never mutates the corpus and never repairs
// anything. All suggestions (tag merges, link fixes) are advisory.
package audit

import (
	"fmt"
	"sort"
)

// Kind classifies a finding.
type Kind string

// Finding kinds, ordered roughly by severity for report grouping.
const (
	KindParseError      Kind = "parse-error"
	KindBrokenLink      Kind = "broken-link"
	KindDuplicateID     Kind = "duplicate-identifier"
	KindOrphan          Kind = "orphan"
	KindMissingMetadata Kind = "missing-metadata"
	KindUnusedTag       Kind = "unused-tag"
	KindDuplicateTag    Kind = "duplicate-tag"
)

// kindOrder fixes the grouping order of kinds in sorted output.
var kindOrder = map[Kind]int{
	KindParseError:      0,
	KindBrokenLink:      1,
	KindDuplicateID:     2,
	KindOrphan:          3,
	KindMissingMetadata: 4,
	KindUnusedTag:       5,
	KindDuplicateTag:    6,
}

// Kinds returns all finding kinds in report grouping order.
func Kinds() []Kind {
	return []Kind{
		KindParseError,
		KindBrokenLink,
		KindDuplicateID,
		KindOrphan,
		KindMissingMetadata,
		KindUnusedTag,
		KindDuplicateTag,
	}
}

// Title returns the heading used for the kind in reports.
func (k Kind) Title() string {
	switch k {
	case KindParseError:
		return "Parse Errors"
	case KindBrokenLink:
		return "Broken Links"
	case KindDuplicateID:
		return "Duplicate Identifiers"
	case KindOrphan:
		return "Orphaned Notes"
	case KindMissingMetadata:
		return "Missing Metadata"
	case KindUnusedTag:
		return "Rarely Used Tags"
	case KindDuplicateTag:
		return "Near-Duplicate Tags"
	}
	return string(k)
}

// Finding is a single classified issue. Exactly one of ID or Tag is set
// depending on whether the finding implicates a note or a tag.
type Finding struct {
	Kind Kind `json:"kind"`

	ID     string `json:"id,omitempty"`     // implicated note identifier
	Tag    string `json:"tag,omitempty"`    // implicated tag
	Target string `json:"target,omitempty"` // dangling link target or counterpart tag
	Path   string `json:"path,omitempty"`   // file path, when one is implicated

	Detail  string `json:"detail,omitempty"`  // human-readable explanation
	Context string `json:"context,omitempty"` // body excerpt around the offending link
}

// Subject returns the identifier the finding is about - the note ID for
// note findings, the tag for tag findings. Used as the sort key within a
// kind group.
func (f Finding) Subject() string {
	if f.ID != "" {
		return f.ID
	}
	return f.Tag
}

// String renders a single-line summary, mainly for logs and tests.
func (f Finding) String() string {
	s := fmt.Sprintf("[%s] %s", f.Kind, f.Subject())
	if f.Target != "" {
		s += " -> " + f.Target
	}
	if f.Detail != "" {
		s += ": " + f.Detail
	}
	return s
}

// Sort orders findings by kind group, then subject, then target.
// The order is total, so equal inputs always produce identical output.
func Sort(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if kindOrder[a.Kind] != kindOrder[b.Kind] {
			return kindOrder[a.Kind] < kindOrder[b.Kind]
		}
		if a.Subject() != b.Subject() {
			return a.Subject() < b.Subject()
		}
		return a.Target < b.Target
	})
}

// CountByKind tallies findings per kind.
func CountByKind(findings []Finding) map[Kind]int {
	counts := make(map[Kind]int)
	for _, f := range findings {
		counts[f.Kind]++
	}
	return counts
}
