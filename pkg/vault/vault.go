// Package vault discovers and parses the Markdown notes of a vault on disk.
//
// A vault is a directory tree of .md files. The Scanner walks it, filters
// out ignored paths, and parses every note through a bounded worker pool,
// reusing cached parse results keyed by file content. Malformed notes are
// collected as failures rather than aborting the scan.
package vault

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/cognetkb/cognet/pkg/audit"
	"github.com/cognetkb/cognet/pkg/cache"
	"github.com/cognetkb/cognet/pkg/errors"
	"github.com/cognetkb/cognet/pkg/note"
)

const defaultWorkers = 8

// Options configures a vault scan.
type Options struct {
	// Root is the vault directory.
	Root string

	// Dirs restricts the scan to these vault-relative directories.
	// Empty scans the whole vault.
	Dirs []string

	// Ignore lists doublestar glob patterns matched against vault-relative
	// slash paths. Matching files and directories are skipped.
	Ignore []string

	// ArchiveDir is excluded from the scan unless IncludeArchive is set.
	ArchiveDir string

	// IncludeArchive scans ArchiveDir too.
	IncludeArchive bool

	// Workers bounds parse concurrency. Zero means defaultWorkers.
	Workers int
}

// Result is the outcome of a scan.
type Result struct {
	// Notes holds every successfully parsed note, ordered by path.
	Notes []*note.Note

	// Failures records notes that could not be parsed.
	Failures []audit.ParseFailure

	// Scanned is the number of Markdown files visited.
	Scanned int

	// CacheHits counts notes served from the parse cache.
	CacheHits int

	// Duration is the wall time of the scan.
	Duration time.Duration
}

// Scanner walks a vault and parses its notes.
//
// A Scanner is stateless apart from its cache and logger; the same Scanner
// can be reused across scans and goroutines.
type Scanner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewScanner creates a scanner. A nil cache disables caching and a nil
// logger falls back to the default logger.
func NewScanner(c cache.Cache, logger *log.Logger) *Scanner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{Cache: c, Logger: logger}
}

// Scan walks the vault and parses every Markdown note it finds.
func (s *Scanner) Scan(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	info, err := os.Stat(opts.Root)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeVaultNotFound, "vault directory %s does not exist", opts.Root)
	}

	paths, err := s.collect(opts)
	if err != nil {
		return nil, err
	}

	res := &Result{Scanned: len(paths)}
	if err := s.parseAll(ctx, opts.Root, paths, opts.WorkerCount(), res); err != nil {
		return nil, err
	}

	sort.Slice(res.Notes, func(i, j int) bool { return res.Notes[i].Path < res.Notes[j].Path })
	sort.Slice(res.Failures, func(i, j int) bool { return res.Failures[i].Path < res.Failures[j].Path })

	res.Duration = time.Since(start)
	s.Logger.Debug("vault scan complete",
		"files", res.Scanned,
		"notes", len(res.Notes),
		"failures", len(res.Failures),
		"cache_hits", res.CacheHits,
		"duration", res.Duration)
	return res, nil
}

// collect walks the scan roots and returns vault-relative paths of every
// Markdown file that survives the ignore rules.
func (s *Scanner) collect(opts Options) ([]string, error) {
	roots := opts.Dirs
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var paths []string
	seen := make(map[string]bool)
	for _, dir := range roots {
		root := filepath.Join(opts.Root, dir)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && path == root {
					s.Logger.Warn("scan directory missing", "dir", dir)
					return filepath.SkipAll
				}
				return err
			}

			rel, relErr := filepath.Rel(opts.Root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if s.skipDir(rel, opts) {
					return filepath.SkipDir
				}
				return nil
			}
			if !isMarkdown(path) || s.ignored(rel, opts.Ignore) {
				return nil
			}
			if !seen[rel] {
				seen[rel] = true
				paths = append(paths, rel)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", root)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Scanner) skipDir(rel string, opts Options) bool {
	if rel == "." {
		return false
	}
	base := filepath.Base(rel)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if !opts.IncludeArchive && opts.ArchiveDir != "" && rel == filepath.ToSlash(opts.ArchiveDir) {
		return true
	}
	return s.ignored(rel, opts.Ignore)
}

func (s *Scanner) ignored(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return true
	}
	return false
}

// parseAll parses the collected files through a bounded worker pool.
type parsed struct {
	note    *note.Note
	failure *audit.ParseFailure
	cached  bool
}

func (s *Scanner) parseAll(ctx context.Context, root string, paths []string, workers int, res *Result) error {
	if len(paths) < workers {
		workers = len(paths)
	}
	if workers == 0 {
		return nil
	}

	jobs := make(chan string, workers*2)
	results := make(chan parsed, workers*2)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results <- s.parseOne(ctx, root, rel)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, rel := range paths {
			select {
			case jobs <- rel:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	for p := range results {
		if p.note != nil {
			res.Notes = append(res.Notes, p.note)
		}
		if p.failure != nil {
			res.Failures = append(res.Failures, *p.failure)
		}
		if p.cached {
			res.CacheHits++
		}
	}
	return ctx.Err()
}

// parseOne parses a single note, going through the cache when the file
// content is unchanged.
func (s *Scanner) parseOne(ctx context.Context, root, rel string) parsed {
	content, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return parsed{failure: &audit.ParseFailure{Path: rel, Message: err.Error()}}
	}

	key := cache.NoteKey(rel, content)
	if data, hit, _ := s.Cache.Get(ctx, key); hit {
		var n note.Note
		if err := json.Unmarshal(data, &n); err == nil {
			return parsed{note: &n, cached: true}
		}
		// Corrupt entry, reparse.
		_ = s.Cache.Delete(ctx, key)
	}

	n, err := note.Parse(rel, content)
	if err != nil {
		s.Logger.Debug("note parse failed", "path", rel, "error", err)
		return parsed{failure: &audit.ParseFailure{Path: rel, Message: errors.UserMessage(err)}}
	}

	if data, err := json.Marshal(n); err == nil {
		_ = s.Cache.Set(ctx, key, data, cache.TTLNote)
	}
	return parsed{note: n}
}

// WorkerCount returns the effective parse concurrency.
func (o Options) WorkerCount() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return defaultWorkers
}
