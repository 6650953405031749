// Package note parses individual Markdown notes: YAML front-matter,
// wiki-style links, and inline hashtags.
//
// A parsed Note is an immutable snapshot of a single file. The parser never
// touches the filesystem - callers supply raw content and a path, and the
// path is only used to derive the note's identifier.
package note

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
)

// Link is an outbound reference from one note to another.
// Target is always in normalized identifier form; Raw preserves the text
// as written inside the brackets (including any display segment).
type Link struct {
	Target  string `json:"target"`
	Raw     string `json:"raw"`
	Context string `json:"context,omitempty"` // surrounding body text, for diagnostics
}

// Note is an immutable snapshot of a parsed note file.
type Note struct {
	ID    string `json:"id"`   // normalized identifier derived from the file path
	Path  string `json:"path"` // path as supplied to the parser
	Title string `json:"title,omitempty"`

	Tags    []string `json:"tags,omitempty"`    // front-matter tags plus inline hashtags, deduplicated
	Links   []Link   `json:"links,omitempty"`   // ordered: front-matter "related" first, then body links
	Related []string `json:"related,omitempty"` // normalized identifiers from the "related" field only

	Created time.Time `json:"created,omitempty"`
	Updated time.Time `json:"updated,omitempty"`

	Type     string `json:"type,omitempty"` // note type from front-matter (e.g. "daily-log")
	Archived bool   `json:"archived,omitempty"`

	// HasFrontmatter reports whether the file begins with a front-matter block.
	// Notes without one still parse; the checker flags them separately.
	HasFrontmatter bool `json:"has_frontmatter"`

	// Words counts whitespace-separated tokens in the body.
	Words int `json:"words"`

	Body string `json:"-"` // opaque body text, front-matter stripped
}

// Outbound returns the normalized identifiers of all outbound links in order.
func (n *Note) Outbound() []string {
	ids := make([]string, len(n.Links))
	for i, l := range n.Links {
		ids[i] = l.Target
	}
	return ids
}

// HasTag reports whether the note carries the given tag (exact match).
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// markdownExtensions are stripped during identifier normalization so that
// "[[My Note.md]]" and "[[My Note]]" resolve to the same target.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
}

// NormalizeID converts a file path or link reference into canonical
// identifier form: base name, Markdown extension removed, slugified
// (lowercase, spaces and punctuation collapsed to hyphens).
//
//	NormalizeID("02-Notes/My Note.md") == "my-note"
//	NormalizeID("My Note")             == "my-note"
func NormalizeID(ref string) string {
	base := filepath.Base(strings.TrimSpace(ref))
	if ext := strings.ToLower(filepath.Ext(base)); markdownExtensions[ext] {
		base = base[:len(base)-len(ext)]
	}
	if s, err := slug.Normalize(base); err == nil && s != "" {
		return s
	}
	// Fallback for inputs the slug rules reject outright.
	return strings.ToLower(strings.Join(strings.Fields(base), "-"))
}
