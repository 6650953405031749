// Package cli implements the cognet command-line interface.
//
// This package provides commands for checking a note vault's link and tag
// consistency, generating statistics and index files, archiving stale
// notes, and managing the parse cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cognetkb/cognet/pkg/buildinfo"
	"github.com/cognetkb/cognet/pkg/cache"
	"github.com/cognetkb/cognet/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "cognet"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// vaultPath is bound to the persistent --vault flag.
	vaultPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cognet keeps a Markdown note vault consistent",
		Long:         `Cognet scans a vault of Markdown notes, builds the link graph, and reports broken links, orphaned notes, duplicate identifiers, and tag drift. It can also generate vault statistics and index files, archive stale notes, and re-check continuously while you edit.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.vaultPath, "vault", ".", "path to the vault root")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.archiveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// vault returns the vault path as an absolute path.
func (c *CLI) vault() (string, error) {
	return filepath.Abs(c.vaultPath)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(newCache(noCache), c.Logger)
}

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/cognet/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
