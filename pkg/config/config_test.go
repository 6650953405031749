package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cognetkb/cognet/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := Default()
	if cfg.Vault.ArchiveDir != def.Vault.ArchiveDir {
		t.Errorf("ArchiveDir = %q, want default %q", cfg.Vault.ArchiveDir, def.Vault.ArchiveDir)
	}
	if cfg.Audit.TagSimilarity != def.Audit.TagSimilarity {
		t.Errorf("TagSimilarity = %g, want default %g", cfg.Audit.TagSimilarity, def.Audit.TagSimilarity)
	}
	if cfg.Archive.StaleDays != 180 {
		t.Errorf("StaleDays = %d, want 180", cfg.Archive.StaleDays)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := writeConfig(t, `
[vault]
notes_dirs = ["notes", "projects"]
archive_dir = "attic"
ignore = ["**/templates/**"]

[audit]
entry_points = ["home"]
unused_tag_threshold = 2

[archive]
stale_days = 90
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Vault.NotesDirs) != 2 || cfg.Vault.NotesDirs[0] != "notes" {
		t.Errorf("NotesDirs = %v", cfg.Vault.NotesDirs)
	}
	if cfg.Vault.ArchiveDir != "attic" {
		t.Errorf("ArchiveDir = %q, want %q", cfg.Vault.ArchiveDir, "attic")
	}
	if len(cfg.Vault.Ignore) != 1 {
		t.Errorf("Ignore = %v", cfg.Vault.Ignore)
	}
	if got := cfg.Audit.UnusedTagThreshold; got != 2 {
		t.Errorf("UnusedTagThreshold = %d, want 2", got)
	}
	if len(cfg.Audit.EntryPoints) != 1 || cfg.Audit.EntryPoints[0] != "home" {
		t.Errorf("EntryPoints = %v, want [home]", cfg.Audit.EntryPoints)
	}
	if cfg.Archive.StaleDays != 90 {
		t.Errorf("StaleDays = %d, want 90", cfg.Archive.StaleDays)
	}
	// Untouched sections keep their defaults.
	if cfg.Vault.IndexDir != Default().Vault.IndexDir {
		t.Errorf("IndexDir = %q, want default", cfg.Vault.IndexDir)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	dir := writeConfig(t, "[vault\nnope")
	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should fail on malformed TOML")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidConfig {
		t.Errorf("GetCode() = %q, want %q", code, errors.ErrCodeInvalidConfig)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"negative threshold", func(c *Config) { c.Audit.UnusedTagThreshold = -1 }, true},
		{"similarity above one", func(c *Config) { c.Audit.TagSimilarity = 1.5 }, true},
		{"negative stale days", func(c *Config) { c.Archive.StaleDays = -7 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuditConfigMapping(t *testing.T) {
	cfg := Default()
	cfg.Audit.EntryPoints = []string{"inbox"}
	cfg.Audit.TagSimilarity = 0.9

	ac := cfg.AuditConfig()
	if len(ac.EntryPoints) != 1 || ac.EntryPoints[0] != "inbox" {
		t.Errorf("EntryPoints = %v, want [inbox]", ac.EntryPoints)
	}
	if ac.TagSimilarity != 0.9 {
		t.Errorf("TagSimilarity = %g, want 0.9", ac.TagSimilarity)
	}
}
