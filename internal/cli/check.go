package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognetkb/cognet/pkg/pipeline"
	"github.com/cognetkb/cognet/pkg/report"
)

// checkCommand creates the "check" command, the main consistency audit.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		format         string
		output         string
		noCache        bool
		includeArchive bool
		noFail         bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit the vault for broken links, orphans, and tag drift",
		Long: `Check scans the vault, builds the link graph, and reports every
consistency problem it finds: broken wiki links, orphaned notes, duplicate
identifiers, missing metadata, and tags that look like near-duplicates.

The command exits non-zero when findings exist unless --no-fail is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtParsed, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			vaultPath, err := c.vault()
			if err != nil {
				return err
			}

			spin := newSpinner(cmd.Context(), "Checking vault...")
			if output == "" && fmtParsed == report.FormatText {
				spin.Start()
			}

			runner := c.newRunner(noCache)
			defer runner.Cache.Close()
			res, err := runner.Run(cmd.Context(), pipeline.Options{
				VaultPath:      vaultPath,
				IncludeArchive: includeArchive,
			})
			spin.Stop()
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}
			if err := report.Emit(out, res.Report, fmtParsed); err != nil {
				return err
			}

			if fmtParsed == report.FormatText && output == "" {
				fmt.Println()
				printCorpusStats(res.Report.NoteCount, res.Report.LinkCount, res.Report.TagCount,
					res.Scan.CacheHits == res.Scan.Scanned && res.Scan.Scanned > 0)
				printFindingSummary(res.Report.Summary)
				if res.Report.Healthy() {
					printSuccess("Vault is consistent")
				}
			}
			if output != "" {
				printFile(output)
			}

			if !res.Report.Healthy() && !noFail {
				return fmt.Errorf("found %d issue(s)", len(res.Findings))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "report format (text, markdown, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the parse cache")
	cmd.Flags().BoolVar(&includeArchive, "include-archive", false, "also scan the archive directory")
	cmd.Flags().BoolVar(&noFail, "no-fail", false, "exit zero even when findings exist")

	return cmd
}
