// Package archive moves stale notes into the vault's archive directory.
//
// A note is stale when its file has not been modified for a configurable
// number of days. Archiving rewrites the note's front-matter (archived
// flag, archived tag, archive date), moves the file under the archive
// directory preserving its vault-relative path, and appends an entry to
// the archive log. A dry run reports candidates without touching anything.
package archive

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/cognetkb/cognet/pkg/errors"
)

// LogFile is the archive log, kept inside the archive directory.
const LogFile = "log.md"

// Options configures an archive run.
type Options struct {
	// Root is the vault directory.
	Root string

	// Dirs are the vault-relative directories scanned for stale notes.
	Dirs []string

	// ArchiveDir receives archived notes, relative to Root.
	ArchiveDir string

	// StaleDays is the modification-age threshold.
	StaleDays int

	// DryRun reports candidates without moving or rewriting anything.
	DryRun bool

	// Now anchors staleness; zero means time.Now().
	Now time.Time

	Logger *log.Logger
}

// Entry describes one archived (or archivable) note.
type Entry struct {
	// Path is the note's original vault-relative path.
	Path string `json:"path"`

	// ArchivedTo is the vault-relative destination.
	ArchivedTo string `json:"archived_to"`

	// LastModified is the file's modification time.
	LastModified time.Time `json:"last_modified"`
}

// FindStale returns notes in opts.Dirs whose files are older than the
// staleness threshold, sorted by path. With no Dirs configured the whole
// vault is scanned, minus the archive and hidden directories.
func FindStale(opts Options) ([]Entry, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.AddDate(0, 0, -opts.StaleDays)

	dirs := opts.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	var entries []Entry
	for _, dir := range dirs {
		root := filepath.Join(opts.Root, dir)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && path == root {
					return filepath.SkipAll
				}
				return err
			}
			if d.IsDir() {
				rel, relErr := filepath.Rel(opts.Root, path)
				if relErr != nil {
					return relErr
				}
				rel = filepath.ToSlash(rel)
				if rel != "." {
					if strings.HasPrefix(filepath.Base(rel), ".") {
						return filepath.SkipDir
					}
					if opts.ArchiveDir != "" && rel == filepath.ToSlash(opts.ArchiveDir) {
						return filepath.SkipDir
					}
				}
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".md") {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if !info.ModTime().Before(cutoff) {
				return nil
			}
			rel, err := filepath.Rel(opts.Root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			entries = append(entries, Entry{
				Path:         rel,
				ArchivedTo:   filepath.ToSlash(filepath.Join(opts.ArchiveDir, rel)),
				LastModified: info.ModTime(),
			})
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", root)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Run archives every stale note and returns what it did. With DryRun set
// it only returns the candidates.
func Run(opts Options) ([]Entry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	entries, err := FindStale(opts)
	if err != nil {
		return nil, err
	}
	if opts.DryRun || len(entries) == 0 {
		return entries, nil
	}

	archiveRoot := filepath.Join(opts.Root, opts.ArchiveDir)
	if err := ensureLog(archiveRoot); err != nil {
		return nil, err
	}

	for _, e := range entries {
		src := filepath.Join(opts.Root, filepath.FromSlash(e.Path))
		dst := filepath.Join(opts.Root, filepath.FromSlash(e.ArchivedTo))

		if err := markArchived(src, now); err != nil {
			logger.Warn("could not update front-matter", "path", e.Path, "error", err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", filepath.Dir(dst))
		}
		if err := os.Rename(src, dst); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "move %s", e.Path)
		}
		if err := appendLog(archiveRoot, e, opts.StaleDays, now); err != nil {
			return nil, err
		}
		logger.Info("archived note", "path", e.Path, "to", e.ArchivedTo)
	}
	return entries, nil
}

// markArchived rewrites the note's front-matter in place: archived flag
// set, "archived" added to tags, and the archive date recorded. Notes
// without front-matter are left untouched.
func markArchived(path string, now time.Time) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(bytes.TrimLeft(content, "\xef\xbb\xbf"), []byte("---")) {
		return nil
	}

	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err != nil {
		return err
	}
	if meta == nil {
		meta = make(map[string]any)
	}

	meta["archived"] = true
	meta["archived_date"] = now.Format("2006-01-02")
	meta["tags"] = appendTag(meta["tags"], "archived")

	fm, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(fm)
	out.WriteString("---\n")
	out.Write(body)
	return os.WriteFile(path, out.Bytes(), 0644)
}

// appendTag adds tag to a decoded YAML tag list, tolerating the shapes
// yaml.v3 produces for sequences.
func appendTag(raw any, tag string) []any {
	var tags []any
	switch v := raw.(type) {
	case []any:
		tags = v
	case []string:
		for _, s := range v {
			tags = append(tags, s)
		}
	}
	for _, t := range tags {
		if s, ok := t.(string); ok && s == tag {
			return tags
		}
	}
	return append(tags, tag)
}

func ensureLog(archiveRoot string) error {
	if err := os.MkdirAll(archiveRoot, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create archive directory")
	}
	path := filepath.Join(archiveRoot, LogFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	header := "# Archive Log\n\nLog of notes moved to the archive.\n"
	return os.WriteFile(path, []byte(header), 0644)
}

func appendLog(archiveRoot string, e Entry, staleDays int, now time.Time) error {
	f, err := os.OpenFile(filepath.Join(archiveRoot, LogFile), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "open archive log")
	}
	defer f.Close()

	_, err = fmt.Fprintf(f,
		"\n## Archived on %s\n- File: `%s`\n- Last modified: %s\n- Reason: no updates for %d days\n",
		now.Format("2006-01-02"), e.Path, e.LastModified.Format("2006-01-02"), staleDays)
	return err
}
