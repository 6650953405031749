// Package config loads the vault configuration file.
//
// A vault may carry a .cognet.toml at its root describing its directory
// layout and audit preferences. Everything has a sensible default, so the
// file is optional; CLI flags override file values, and the core packages
// only ever see plain structs assembled here.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cognetkb/cognet/pkg/audit"
	"github.com/cognetkb/cognet/pkg/errors"
)

// FileName is the vault configuration file, looked up at the vault root.
const FileName = ".cognet.toml"

// Config is the full vault configuration.
type Config struct {
	Vault   VaultConfig   `toml:"vault"`
	Audit   AuditConfig   `toml:"audit"`
	Archive ArchiveConfig `toml:"archive"`
}

// VaultConfig describes the directory layout.
type VaultConfig struct {
	// NotesDirs restricts scanning to these vault-relative directories.
	// Empty means the whole vault except ArchiveDir and Ignore matches.
	NotesDirs []string `toml:"notes_dirs"`

	// ArchiveDir holds archived notes; excluded from scans by default.
	ArchiveDir string `toml:"archive_dir"`

	// IndexDir receives generated index files.
	IndexDir string `toml:"index_dir"`

	// DailyDir holds daily logs.
	DailyDir string `toml:"daily_dir"`

	// Ignore lists doublestar glob patterns (vault-relative) to skip.
	Ignore []string `toml:"ignore"`
}

// AuditConfig carries checker tunables.
type AuditConfig struct {
	EntryPoints        []string `toml:"entry_points"`
	EntryPointTypes    []string `toml:"entry_point_types"`
	UnusedTagThreshold int      `toml:"unused_tag_threshold"`
	TagSimilarity      float64  `toml:"tag_similarity"`
	CaseFold           bool     `toml:"case_fold"`
	PluralFold         bool     `toml:"plural_fold"`
}

// ArchiveConfig carries archiving tunables.
type ArchiveConfig struct {
	// StaleDays is the age in days after which an unmodified note is
	// considered stale.
	StaleDays int `toml:"stale_days"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	ac := audit.DefaultConfig()
	return Config{
		Vault: VaultConfig{
			ArchiveDir: "05-Archive",
			IndexDir:   "00-Index",
			DailyDir:   "01-Daily",
		},
		Audit: AuditConfig{
			EntryPoints:        ac.EntryPoints,
			EntryPointTypes:    ac.EntryPointTypes,
			UnusedTagThreshold: ac.UnusedTagThreshold,
			TagSimilarity:      ac.TagSimilarity,
			CaseFold:           ac.CaseFold,
			PluralFold:         ac.PluralFold,
		},
		Archive: ArchiveConfig{
			StaleDays: 180,
		},
	}
}

// Load reads the vault configuration from dir, falling back to Default
// when no config file exists. A present-but-invalid file is an error.
func Load(dir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Audit.UnusedTagThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unused_tag_threshold must be >= 0, got %d", c.Audit.UnusedTagThreshold)
	}
	if c.Audit.TagSimilarity < 0 || c.Audit.TagSimilarity > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "tag_similarity must be within [0, 1], got %g", c.Audit.TagSimilarity)
	}
	if c.Archive.StaleDays < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "stale_days must be >= 0, got %d", c.Archive.StaleDays)
	}
	return nil
}

// AuditConfig converts the file representation into the checker's config.
func (c Config) AuditConfig() audit.Config {
	return audit.Config{
		EntryPoints:        c.Audit.EntryPoints,
		EntryPointTypes:    c.Audit.EntryPointTypes,
		UnusedTagThreshold: c.Audit.UnusedTagThreshold,
		TagSimilarity:      c.Audit.TagSimilarity,
		CaseFold:           c.Audit.CaseFold,
		PluralFold:         c.Audit.PluralFold,
	}
}
