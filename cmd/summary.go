package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/internal/gitlog"
	"github.com/statscope/statscope/internal/report"
)

// summaryCmd prints the console summary without writing report files.
var summaryCmd = &cobra.Command{
	Use:   "summary [repo-path]",
	Short: "Print contribution statistics to the console.",
	Long: `Fold the Git history of a repository and print the contribution summary
to stdout, without writing any report files.

The --quick flag skips the full fold and prints git's condensed per-author
commit counts instead. Quick mode has no line totals, no daily series and
no cache interaction.

Examples:
  # Full summary for the current directory
  statscope summary

  # JSON summary for a specific branch
  statscope summary --ref main --output json

  # Fast per-author commit counts only
  statscope summary --quick`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if viper.GetBool("quick") {
			if err := runQuickSummary(); err != nil {
				contract.LogFatal("Cannot run quick summary", err)
			}
			return
		}

		data, err := runGeneration(rootCtx, cfg)
		if err != nil {
			contract.LogFatal("Cannot generate stats", err)
		}
		if err := report.WriteSummary(os.Stdout, data, cfg); err != nil {
			contract.LogFatal("Cannot write summary", err)
		}
	},
}

// runQuickSummary prints the shortlog-derived author table.
func runQuickSummary() error {
	out, err := client.ShortLog(rootCtx, cfg.RepoPath, cfg.Ref)
	if err != nil {
		return fmt.Errorf("shortlog for %q failed: %w", cfg.Ref, err)
	}
	entries := gitlog.ParseShortLog(out)
	if len(entries) > cfg.ResultLimit {
		entries = entries[:cfg.ResultLimit]
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", "Author", "Commits"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, e := range entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			e.Author,
			humanize.Comma(int64(e.Commits)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
