package note

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/cognetkb/cognet/pkg/errors"
)

// contextRadius is the number of body characters captured on each side of
// a wiki link for diagnostic context in findings.
const contextRadius = 50

var (
	// wikiLinkPattern matches [[target]] and [[target|display text]].
	wikiLinkPattern = regexp.MustCompile(`\[\[([^\[\]]+?)\]\]`)

	// inlineTagPattern matches #tag tokens in body text. The leading letter
	// requirement keeps hex colors and issue numbers out.
	inlineTagPattern = regexp.MustCompile(`#([A-Za-z][\w-]*)`)
)

// frontmatterEnvelope is the YAML front-matter schema for vault notes.
// Unknown keys land in Custom via the inline map.
type frontmatterEnvelope struct {
	Title        string         `yaml:"title"`
	Tags         []string       `yaml:"tags"`
	Related      []string       `yaml:"related"`
	Created      time.Time      `yaml:"created"`
	Updated      time.Time      `yaml:"updated"`
	Type         string         `yaml:"type"`
	Archived     bool           `yaml:"archived"`
	ArchivedDate string         `yaml:"archived_date"`
	Custom       map[string]any `yaml:",inline"`
}

// Parse converts raw file content into a Note.
//
// The note's identifier is derived from path via NormalizeID. A file that
// opens a front-matter block but cannot be decoded fails with an
// ErrCodeInvalidFrontmatter error; a file with no front-matter at all
// parses successfully with HasFrontmatter == false.
func Parse(path string, content []byte) (*Note, error) {
	n := &Note{
		ID:   NormalizeID(path),
		Path: path,
	}

	body := content
	if hasFrontmatterDelimiter(content) {
		var env frontmatterEnvelope
		rest, err := frontmatter.Parse(bytes.NewReader(content), &env)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFrontmatter, err, "parse front-matter of %s", path)
		}
		n.HasFrontmatter = true
		n.Title = env.Title
		n.Type = env.Type
		n.Created = env.Created
		n.Updated = env.Updated
		n.Archived = env.Archived
		n.Tags = append(n.Tags, env.Tags...)
		for _, rel := range env.Related {
			id := NormalizeID(rel)
			if id == "" {
				continue
			}
			n.Related = append(n.Related, id)
			n.Links = append(n.Links, Link{Target: id, Raw: rel})
		}
		body = rest
	}
	n.Body = string(body)
	n.Words = len(strings.Fields(n.Body))

	n.Links = append(n.Links, extractLinks(n.Body)...)
	n.Tags = dedupeTags(append(n.Tags, extractInlineTags(n.Body)...))

	return n, nil
}

// hasFrontmatterDelimiter reports whether content opens with a "---" line.
func hasFrontmatterDelimiter(content []byte) bool {
	trimmed := bytes.TrimLeft(content, "\xef\xbb\xbf") // tolerate a UTF-8 BOM
	return bytes.HasPrefix(trimmed, []byte("---\n")) ||
		bytes.HasPrefix(trimmed, []byte("---\r\n")) ||
		bytes.Equal(bytes.TrimSpace(trimmed), []byte("---"))
}

// extractLinks finds wiki-style links in body text, in document order.
// The optional display segment after a pipe is ignored for targeting but
// preserved in Raw.
func extractLinks(body string) []Link {
	matches := wikiLinkPattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return nil
	}
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		raw := body[m[2]:m[3]]
		target := raw
		if i := strings.IndexByte(raw, '|'); i >= 0 {
			target = raw[:i]
		}
		id := NormalizeID(target)
		if id == "" {
			continue
		}
		links = append(links, Link{
			Target:  id,
			Raw:     raw,
			Context: surrounding(body, m[0], m[1]),
		})
	}
	return links
}

// surrounding returns up to contextRadius characters on each side of the
// span [start, end), trimmed of newlines.
func surrounding(body string, start, end int) string {
	from := start - contextRadius
	if from < 0 {
		from = 0
	}
	to := end + contextRadius
	if to > len(body) {
		to = len(body)
	}
	return strings.TrimSpace(strings.ReplaceAll(body[from:to], "\n", " "))
}

// extractInlineTags finds #hashtag tokens in body text.
func extractInlineTags(body string) []string {
	matches := inlineTagPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// dedupeTags removes duplicate tags while keeping deterministic order.
func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
