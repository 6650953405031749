// Package indexgen regenerates the vault's index files: a tag reference,
// a system overview with recent updates, and a map of the most connected
// notes. Output is deterministic for a given corpus and clock.
package indexgen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cognetkb/cognet/pkg/corpus"
	"github.com/cognetkb/cognet/pkg/errors"
)

// Options configures index generation.
type Options struct {
	// Root is the vault directory; index files land under Root/IndexDir.
	Root     string
	IndexDir string

	// RecentDays bounds the "recent updates" window. Zero means 7.
	RecentDays int

	// Now anchors the report clock; zero means time.Now().
	Now time.Time
}

// Generator renders index files from a corpus.
type Generator struct {
	idx  *corpus.Index
	opts Options
}

// New creates a generator over a built corpus.
func New(idx *corpus.Index, opts Options) *Generator {
	if opts.RecentDays <= 0 {
		opts.RecentDays = 7
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return &Generator{idx: idx, opts: opts}
}

// Generate writes tags.md, index.md, and related.md into the index
// directory, creating it if needed. It returns the paths written.
func (g *Generator) Generate() ([]string, error) {
	dir := filepath.Join(g.opts.Root, g.opts.IndexDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create index directory %s", dir)
	}

	files := []struct {
		name   string
		render func(io.Writer) error
	}{
		{"tags.md", g.RenderTags},
		{"index.md", g.RenderOverview},
		{"related.md", g.RenderRelated},
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		out, err := os.Create(path)
		if err != nil {
			return written, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		renderErr := f.render(out)
		closeErr := out.Close()
		if renderErr != nil {
			return written, renderErr
		}
		if closeErr != nil {
			return written, closeErr
		}
		written = append(written, path)
	}
	return written, nil
}

// tagCategory buckets a tag for the tag reference file.
func tagCategory(tag string) string {
	switch {
	case strings.HasPrefix(tag, "project-"):
		return "Project"
	case tag == "active" || tag == "archived" || tag == "completed":
		return "Status"
	case strings.HasPrefix(tag, "concept-"):
		return "Concept"
	}
	return "Other"
}

var categoryOrder = []string{"Project", "Concept", "Status", "Other"}

// RenderTags writes the tag reference grouped by category. Each tag lists
// up to three of its notes.
func (g *Generator) RenderTags(w io.Writer) error {
	grouped := make(map[string][]string)
	for _, tag := range g.idx.Tags() {
		cat := tagCategory(tag)
		grouped[cat] = append(grouped[cat], tag)
	}

	fmt.Fprintf(w, "# Tag Reference\n")
	for _, cat := range categoryOrder {
		tags := grouped[cat]
		if len(tags) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n## %s Tags\n", cat)
		for _, tag := range tags {
			notes := g.idx.NotesByTag(tag)
			fmt.Fprintf(w, "- #%s (%d notes)\n", tag, len(notes))
			for i, id := range notes {
				if i == 3 {
					break
				}
				if n, ok := g.idx.Note(id); ok {
					fmt.Fprintf(w, "  - `%s`\n", n.Path)
				}
			}
		}
	}
	return nil
}

// recentNote pairs a note path with its modification time.
type recentNote struct {
	path string
	mod  time.Time
}

// recentUpdates returns notes modified within the window, newest first.
func (g *Generator) recentUpdates() []recentNote {
	cutoff := g.opts.Now.AddDate(0, 0, -g.opts.RecentDays)
	var out []recentNote
	for _, id := range g.idx.IDs() {
		n, ok := g.idx.Note(id)
		if !ok {
			continue
		}
		info, err := os.Stat(filepath.Join(g.opts.Root, n.Path))
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			out = append(out, recentNote{path: n.Path, mod: info.ModTime()})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].mod.Equal(out[j].mod) {
			return out[i].mod.After(out[j].mod)
		}
		return out[i].path < out[j].path
	})
	return out
}

// RenderOverview writes the main index: navigation, recent updates, and
// the most used tags.
func (g *Generator) RenderOverview(w io.Writer) error {
	fmt.Fprintf(w, "# Vault Overview\n\n")
	fmt.Fprintf(w, "Last updated: %s\n", g.opts.Now.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "\n## Recent Updates\n")
	recent := g.recentUpdates()
	if len(recent) > 5 {
		recent = recent[:5]
	}
	for _, r := range recent {
		fmt.Fprintf(w, "- %s: `%s`\n", r.mod.Format("2006-01-02"), r.path)
	}

	fmt.Fprintf(w, "\n## Popular Tags\n")
	type tagged struct {
		tag   string
		count int
	}
	var popular []tagged
	for _, tag := range g.idx.Tags() {
		popular = append(popular, tagged{tag, g.idx.TagCount(tag)})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].count != popular[j].count {
			return popular[i].count > popular[j].count
		}
		return popular[i].tag < popular[j].tag
	})
	if len(popular) > 5 {
		popular = popular[:5]
	}
	for _, p := range popular {
		fmt.Fprintf(w, "- #%s (%d notes)\n", p.tag, p.count)
	}
	return nil
}

// RenderRelated writes the connection map: the most linked-to notes and
// who links to them.
func (g *Generator) RenderRelated(w io.Writer) error {
	fmt.Fprintf(w, "# Related Notes\n\n")
	fmt.Fprintf(w, "Connections between notes, ranked by inbound links.\n")

	type hub struct {
		id      string
		inbound []string
	}
	var hubs []hub
	for _, id := range g.idx.IDs() {
		if in := g.idx.Inbound(id); len(in) > 0 {
			hubs = append(hubs, hub{id: id, inbound: in})
		}
	}
	sort.Slice(hubs, func(i, j int) bool {
		if len(hubs[i].inbound) != len(hubs[j].inbound) {
			return len(hubs[i].inbound) > len(hubs[j].inbound)
		}
		return hubs[i].id < hubs[j].id
	})
	if len(hubs) > 20 {
		hubs = hubs[:20]
	}
	for _, h := range hubs {
		fmt.Fprintf(w, "\n## %s (%d inbound)\n", h.id, len(h.inbound))
		for _, from := range h.inbound {
			fmt.Fprintf(w, "- [[%s]]\n", from)
		}
	}
	return nil
}
