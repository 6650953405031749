package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognetkb/cognet/pkg/corpus"
)

// Config carries the checker's tunables. The checker owns none of it -
// values come from the vault config file and CLI flags, and are passed in
// explicitly so runs are reproducible.
type Config struct {
	// EntryPoints lists normalized identifiers exempt from orphan
	// detection (index pages, inbox notes). Never inferred.
	EntryPoints []string

	// EntryPointTypes lists front-matter "type" values whose notes are
	// exempt from orphan detection (e.g. "daily-log", "index").
	EntryPointTypes []string

	// UnusedTagThreshold flags tags used by at most this many notes.
	// The default of 1 flags tags used by exactly one note.
	UnusedTagThreshold int

	// TagSimilarity is the ratio above which two tags are reported as
	// near-duplicates. Range (0,1]; 0 disables similarity matching.
	TagSimilarity float64

	// CaseFold enables case-insensitive duplicate tag detection.
	CaseFold bool

	// PluralFold enables singular/plural (trailing-s) duplicate detection.
	PluralFold bool
}

// DefaultConfig returns the checker defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		EntryPointTypes:    []string{"index", "daily-log"},
		UnusedTagThreshold: 1,
		TagSimilarity:      0.85,
		CaseFold:           true,
		PluralFold:         true,
	}
}

// ParseFailure records a file the parser rejected. The scan keeps going;
// the failure surfaces as a parse-error finding.
type ParseFailure struct {
	Path    string
	Message string
}

// Run executes all checks against the index and returns sorted findings.
// Parse failures collected during scanning are folded in so a single
// report covers the whole corpus.
func Run(idx *corpus.Index, failures []ParseFailure, cfg Config) []Finding {
	var findings []Finding

	for _, f := range failures {
		findings = append(findings, Finding{
			Kind:   KindParseError,
			ID:     f.Path, // no identifier exists for an unparsable file
			Path:   f.Path,
			Detail: f.Message,
		})
	}

	findings = append(findings, checkDuplicateIDs(idx)...)
	findings = append(findings, checkBrokenLinks(idx)...)
	findings = append(findings, checkOrphans(idx, cfg)...)
	findings = append(findings, checkMissingMetadata(idx)...)
	findings = append(findings, checkUnusedTags(idx, cfg)...)
	findings = append(findings, checkDuplicateTags(idx, cfg)...)

	Sort(findings)
	return findings
}

// checkDuplicateIDs reports one finding per colliding identifier,
// regardless of how many files collided.
func checkDuplicateIDs(idx *corpus.Index) []Finding {
	dups := idx.Duplicates()
	if len(dups) == 0 {
		return nil
	}
	ids := make([]string, 0, len(dups))
	for id := range dups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	findings := make([]Finding, 0, len(ids))
	for _, id := range ids {
		kept, _ := idx.Note(id)
		findings = append(findings, Finding{
			Kind:   KindDuplicateID,
			ID:     id,
			Path:   kept.Path,
			Detail: fmt.Sprintf("also found at %s (first-seen copy kept)", strings.Join(dups[id], ", ")),
		})
	}
	return findings
}

// checkBrokenLinks reports every forward link whose target is absent from
// the corpus, with the source note and body context.
func checkBrokenLinks(idx *corpus.Index) []Finding {
	var findings []Finding
	for _, id := range idx.IDs() {
		n, _ := idx.Note(id)
		seen := make(map[string]bool)
		for _, l := range n.Links {
			if idx.Contains(l.Target) || seen[l.Target] {
				continue
			}
			seen[l.Target] = true
			findings = append(findings, Finding{
				Kind:    KindBrokenLink,
				ID:      id,
				Target:  l.Target,
				Path:    n.Path,
				Detail:  fmt.Sprintf("link [[%s]] has no matching note", l.Raw),
				Context: l.Context,
			})
		}
	}
	return findings
}

// checkOrphans reports fully disconnected notes: no inbound links, no
// outbound links, and not designated as an entry point.
func checkOrphans(idx *corpus.Index, cfg Config) []Finding {
	entryIDs := make(map[string]bool, len(cfg.EntryPoints))
	for _, id := range cfg.EntryPoints {
		entryIDs[id] = true
	}
	entryTypes := make(map[string]bool, len(cfg.EntryPointTypes))
	for _, t := range cfg.EntryPointTypes {
		entryTypes[t] = true
	}

	var findings []Finding
	for _, id := range idx.IDs() {
		if entryIDs[id] {
			continue
		}
		n, _ := idx.Note(id)
		if entryTypes[n.Type] {
			continue
		}
		if len(idx.Inbound(id)) == 0 && len(idx.Neighbors(id)) == 0 {
			findings = append(findings, Finding{
				Kind:   KindOrphan,
				ID:     id,
				Path:   n.Path,
				Detail: "no inbound or outbound links",
			})
		}
	}
	return findings
}

// checkMissingMetadata reports notes without a front-matter block.
func checkMissingMetadata(idx *corpus.Index) []Finding {
	var findings []Finding
	for _, id := range idx.IDs() {
		n, _ := idx.Note(id)
		if !n.HasFrontmatter {
			findings = append(findings, Finding{
				Kind:   KindMissingMetadata,
				ID:     id,
				Path:   n.Path,
				Detail: "note has no front-matter block",
			})
		}
	}
	return findings
}

// checkUnusedTags flags tags whose usage count is at or below the
// configured threshold, as candidates for pruning or merging.
func checkUnusedTags(idx *corpus.Index, cfg Config) []Finding {
	var findings []Finding
	for _, tag := range idx.Tags() {
		count := idx.TagCount(tag)
		if count > cfg.UnusedTagThreshold {
			continue
		}
		findings = append(findings, Finding{
			Kind:   KindUnusedTag,
			Tag:    tag,
			Detail: fmt.Sprintf("used by %d note(s): %s", count, strings.Join(idx.NotesByTag(tag), ", ")),
		})
	}
	return findings
}

// checkDuplicateTags compares tags pairwise and reports merge candidates.
// Pairs are emitted once, with the lexically smaller tag as the subject.
func checkDuplicateTags(idx *corpus.Index, cfg Config) []Finding {
	tags := idx.Tags()
	var findings []Finding
	for i, a := range tags {
		for _, b := range tags[i+1:] {
			reason, ok := tagsAlike(a, b, cfg)
			if !ok {
				continue
			}
			findings = append(findings, Finding{
				Kind:   KindDuplicateTag,
				Tag:    a,
				Target: b,
				Detail: fmt.Sprintf("%s (%d vs %d notes)", reason, idx.TagCount(a), idx.TagCount(b)),
			})
		}
	}
	return findings
}
