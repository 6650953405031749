// Package corpus builds the in-memory index over a set of parsed notes.
//
// The index is constructed once per run from the parser's output and is
// read-only afterwards: queries never mutate, and there is no incremental
// update path. A changed vault means a fresh Build.
//
// The central invariant is that the reverse adjacency is exactly the
// transpose of the forward links, restricted to identifiers present in the
// corpus. Links to unknown identifiers stay visible through Outbound but
// never appear in Inbound.
package corpus

import (
	"maps"
	"slices"

	"github.com/cognetkb/cognet/pkg/note"
)

// Index is the identifier-keyed view of a note corpus.
//
// The zero value is not usable - use Build. Index is safe for concurrent
// readers once built.
type Index struct {
	notes    map[string]*note.Note
	outgoing map[string][]string // id -> outbound targets, in link order, deduplicated
	incoming map[string][]string // id -> inbound sources (transpose, known ids only), sorted
	tags     map[string][]string // tag -> note ids, sorted

	// duplicates maps each colliding identifier to the paths that lost the
	// first-seen race. The retained note is the one in notes.
	duplicates map[string][]string
}

// Build constructs an Index from parsed notes.
//
// Identifier collisions follow a first-seen-wins policy: the first note
// with a given identifier is retained, later ones are recorded under
// Duplicates for the checker to report. Build never fails; malformed notes
// are the parser's concern and never reach this point.
func Build(notes []*note.Note) *Index {
	idx := &Index{
		notes:      make(map[string]*note.Note, len(notes)),
		outgoing:   make(map[string][]string, len(notes)),
		incoming:   make(map[string][]string),
		tags:       make(map[string][]string),
		duplicates: make(map[string][]string),
	}

	for _, n := range notes {
		if _, exists := idx.notes[n.ID]; exists {
			idx.duplicates[n.ID] = append(idx.duplicates[n.ID], n.Path)
			continue
		}
		idx.notes[n.ID] = n
	}

	for id, n := range idx.notes {
		idx.outgoing[id] = dedupe(n.Outbound())
		for _, tag := range n.Tags {
			idx.tags[tag] = append(idx.tags[tag], id)
		}
	}

	// Reverse adjacency: transpose of forward links over known identifiers.
	for id, targets := range idx.outgoing {
		for _, target := range targets {
			if _, known := idx.notes[target]; known {
				idx.incoming[target] = append(idx.incoming[target], id)
			}
		}
	}

	for id := range idx.incoming {
		slices.Sort(idx.incoming[id])
	}
	for tag := range idx.tags {
		slices.Sort(idx.tags[tag])
	}

	return idx
}

// Note returns the note with the given identifier and true, or nil and false.
func (x *Index) Note(id string) (*note.Note, bool) {
	n, ok := x.notes[id]
	return n, ok
}

// Contains reports whether the identifier exists in the corpus.
func (x *Index) Contains(id string) bool {
	_, ok := x.notes[id]
	return ok
}

// IDs returns all note identifiers in sorted order.
func (x *Index) IDs() []string {
	return slices.Sorted(maps.Keys(x.notes))
}

// Neighbors returns the note's outbound link targets in link order,
// deduplicated. Targets may reference identifiers absent from the corpus.
// The returned slice is a read-only view.
func (x *Index) Neighbors(id string) []string { return x.outgoing[id] }

// Inbound returns the sorted identifiers of notes linking to id.
// Only identifiers present in the corpus appear. The returned slice is a
// read-only view.
func (x *Index) Inbound(id string) []string { return x.incoming[id] }

// Tags returns all tags in sorted order.
func (x *Index) Tags() []string {
	return slices.Sorted(maps.Keys(x.tags))
}

// NotesByTag returns the sorted identifiers of notes carrying the tag.
// The returned slice is a read-only view.
func (x *Index) NotesByTag(tag string) []string { return x.tags[tag] }

// TagCount returns the number of notes carrying the tag.
func (x *Index) TagCount(tag string) int { return len(x.tags[tag]) }

// Duplicates returns colliding identifiers mapped to the paths of the
// discarded notes, for reporting. The retained note is always first-seen.
func (x *Index) Duplicates() map[string][]string { return x.duplicates }

// NoteCount returns the number of retained notes.
func (x *Index) NoteCount() int { return len(x.notes) }

// LinkCount returns the total number of outbound links across the corpus,
// counting links to unknown targets.
func (x *Index) LinkCount() int {
	total := 0
	for _, targets := range x.outgoing {
		total += len(targets)
	}
	return total
}

// dedupe removes duplicate targets while preserving first-occurrence order.
func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
