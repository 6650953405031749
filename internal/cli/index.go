package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognetkb/cognet/pkg/indexgen"
	"github.com/cognetkb/cognet/pkg/pipeline"
)

// indexCommand creates the "index" command.
func (c *CLI) indexCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Regenerate the vault's index files",
		Long: `Index scans the vault and rewrites the index directory: a tag
reference grouped by category, a system overview with recent updates, and
a map of the most connected notes.`,
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

			gen := indexgen.New(res.Index, indexgen.Options{
				Root:     vaultPath,
				IndexDir: res.Config.Vault.IndexDir,
			})
			written, err := gen.Generate()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Indexed %d notes", res.Index.NoteCount()))

			printSuccess("Updated %d index files", len(written))
			for _, path := range written {
				printFile(path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the parse cache")

	return cmd
}
