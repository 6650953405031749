package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognetkb/cognet/pkg/config"
	"github.com/cognetkb/cognet/pkg/pipeline"
	"github.com/cognetkb/cognet/pkg/report"
	"github.com/cognetkb/cognet/pkg/vault"
)

// watchCommand creates the "watch" command: continuous re-checking.
func (c *CLI) watchCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-check the vault whenever notes change",
		Long: `Watch runs an initial check, then monitors the vault for Markdown
changes and re-runs the check after each burst of edits. Stop with Ctrl-C.`,
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

			runner := c.newRunner(noCache)
			defer runner.Cache.Close()

			check := func(ctx context.Context) error {
				res, err := runner.Run(ctx, pipeline.Options{VaultPath: vaultPath})
				if err != nil {
					return err
				}
				if err := report.Emit(os.Stdout, res.Report, report.FormatText); err != nil {
					return err
				}
				fmt.Println()
				return nil
			}

			if err := check(cmd.Context()); err != nil {
				return err
			}

			watcher, err := vault.NewWatcher(vault.Options{
				Root:       vaultPath,
				ArchiveDir: cfg.Vault.ArchiveDir,
			}, c.Logger)
			if err != nil {
				return err
			}
			printInfo("Watching %s for changes (Ctrl-C to stop)", vaultPath)

			err = watcher.Run(cmd.Context(), check)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the parse cache")

	return cmd
}
