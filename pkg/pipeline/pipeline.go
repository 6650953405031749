// Package pipeline wires scanning, indexing, and auditing into one run.
//
// The Runner is the single entry point shared by every CLI command: it
// loads the vault configuration, scans and parses the notes, builds the
// corpus index, and runs the consistency checker. Commands then render
// the Result however they need.
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cognetkb/cognet/pkg/audit"
	"github.com/cognetkb/cognet/pkg/cache"
	"github.com/cognetkb/cognet/pkg/config"
	"github.com/cognetkb/cognet/pkg/corpus"
	"github.com/cognetkb/cognet/pkg/errors"
	"github.com/cognetkb/cognet/pkg/report"
	"github.com/cognetkb/cognet/pkg/vault"
)

// Options configures one pipeline run.
type Options struct {
	// VaultPath is the vault root directory.
	VaultPath string

	// IncludeArchive scans the archive directory too.
	IncludeArchive bool

	// SkipAudit stops after the index is built; Findings and Report stay
	// empty. Used by commands that only need the corpus.
	SkipAudit bool
}

// Stages records per-stage wall times.
type Stages struct {
	ScanTime  time.Duration
	IndexTime time.Duration
	AuditTime time.Duration
}

// Result carries everything one run produced.
type Result struct {
	Config   config.Config
	Scan     *vault.Result
	Index    *corpus.Index
	Findings []audit.Finding
	Report   *report.Report
	Stages   Stages
}

// Runner executes the check pipeline.
//
// The Runner is stateless except for the cache and logger; one Runner can
// serve any number of runs, concurrently if needed.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables parse caching and a
// nil logger falls back to the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Run executes scan, index, and audit for the vault at opts.VaultPath.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.VaultPath == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "vault path is required")
	}

	cfg, err := config.Load(opts.VaultPath)
	if err != nil {
		return nil, err
	}
	res := &Result{Config: cfg}

	scanStart := time.Now()
	scanner := vault.NewScanner(r.Cache, r.Logger)
	scan, err := scanner.Scan(ctx, vault.Options{
		Root:           opts.VaultPath,
		Dirs:           cfg.Vault.NotesDirs,
		Ignore:         cfg.Vault.Ignore,
		ArchiveDir:     cfg.Vault.ArchiveDir,
		IncludeArchive: opts.IncludeArchive,
	})
	if err != nil {
		return nil, err
	}
	res.Scan = scan
	res.Stages.ScanTime = time.Since(scanStart)
	r.Logger.Info("scanned vault",
		"files", scan.Scanned,
		"notes", len(scan.Notes),
		"failures", len(scan.Failures),
		"cache_hits", scan.CacheHits,
		"duration", res.Stages.ScanTime)

	indexStart := time.Now()
	res.Index = corpus.Build(scan.Notes)
	res.Stages.IndexTime = time.Since(indexStart)
	r.Logger.Info("built corpus index",
		"notes", res.Index.NoteCount(),
		"links", res.Index.LinkCount(),
		"tags", len(res.Index.Tags()),
		"duration", res.Stages.IndexTime)

	if opts.SkipAudit {
		return res, ctx.Err()
	}

	auditStart := time.Now()
	res.Findings = audit.Run(res.Index, scan.Failures, cfg.AuditConfig())
	res.Stages.AuditTime = time.Since(auditStart)
	res.Report = report.New(opts.VaultPath, res.Index, res.Findings)
	r.Logger.Info("audit complete",
		"findings", len(res.Findings),
		"duration", res.Stages.AuditTime)

	return res, ctx.Err()
}
