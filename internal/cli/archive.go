package cli

import (
	"github.com/spf13/cobra"

	"github.com/cognetkb/cognet/pkg/archive"
	"github.com/cognetkb/cognet/pkg/config"
)

// archiveCommand creates the "archive" command.
func (c *CLI) archiveCommand() *cobra.Command {
	var (
		dryRun bool
		days   int
	)

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Move stale notes into the archive directory",
		Long: `Archive finds notes that have not been modified within the staleness
window, marks their front-matter as archived, moves them under the archive
directory, and records each move in the archive log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vaultPath, err := c.vault()
			if err != nil {
				return err
			}
			cfg, err := config.Load(vaultPath)
			if err != nil {
				return err
			}
			staleDays := cfg.Archive.StaleDays
			if days > 0 {
				staleDays = days
			}

			entries, err := archive.Run(archive.Options{
				Root:       vaultPath,
				Dirs:       cfg.Vault.NotesDirs,
				ArchiveDir: cfg.Vault.ArchiveDir,
				StaleDays:  staleDays,
				DryRun:     dryRun,
				Logger:     c.Logger,
			})
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				printInfo("No stale notes (threshold: %d days)", staleDays)
				return nil
			}
			if dryRun {
				printInfo("Would archive %d note(s):", len(entries))
			} else {
				printSuccess("Archived %d note(s):", len(entries))
			}
			for _, e := range entries {
				printDetail("%s (last modified %s)", e.Path, e.LastModified.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list stale notes without moving them")
	cmd.Flags().IntVar(&days, "days", 0, "override the staleness threshold in days")

	return cmd
}
