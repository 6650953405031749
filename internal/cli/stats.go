package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognetkb/cognet/pkg/pipeline"
	"github.com/cognetkb/cognet/pkg/stats"
)

// statsCommand creates the "stats" command.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Generate vault usage statistics",
		Long: `Stats scans the vault and reports note, tag, and link tallies,
modification activity, and rule-based health recommendations as Markdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vaultPath, err := c.vault()
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			runner := c.newRunner(noCache)
			defer runner.Cache.Close()
			res, err := runner.Run(cmd.Context(), pipeline.Options{
				VaultPath: vaultPath,
				SkipAudit: true,
			})
			if err != nil {
				return err
			}

			now := time.Now()
			collected := stats.Collect(res.Scan.Notes, stats.Options{
				Root:        vaultPath,
				DailyDir:    res.Config.Vault.DailyDir,
				ProjectsDir: projectsDir(res.Config.Vault.NotesDirs),
				ArchiveDir:  res.Config.Vault.ArchiveDir,
			}, now)
			prog.done(fmt.Sprintf("Analyzed %d notes", len(res.Scan.Notes)))

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}
			if err := stats.Render(out, collected, now); err != nil {
				return err
			}
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the parse cache")

	return cmd
}

// projectsDir picks the projects directory out of the configured note
// directories by convention: the one containing "project" in its name.
func projectsDir(dirs []string) string {
	for _, d := range dirs {
		if strings.Contains(strings.ToLower(d), "project") {
			return d
		}
	}
	return ""
}
