package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/statscope/statscope/core"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/internal/iocache"
	"github.com/statscope/statscope/internal/report"
	"github.com/statscope/statscope/schema"
)

// generateCmd runs a full stats generation and writes the report files.
var generateCmd = &cobra.Command{
	Use:   "generate [repo-path]",
	Short: "Generate contribution statistics and write the report.",
	Long: `Fold the Git history of a repository into contribution statistics and
write the report files (stats.json and index.html) to the stats directory.

Re-runs resume incrementally from the cached snapshot when the repository
has only grown since the last run. A rewritten history or a missing cache
forces a full scan.

Examples:
  # Generate stats for the current directory at HEAD
  statscope generate

  # Generate stats for a specific repo and branch
  statscope generate ~/src/project --ref main

  # Force single-threaded folding
  statscope generate --workers 1

  # Skip the project store entirely
  statscope generate --project-backend none`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		data, err := runGeneration(rootCtx, cfg)
		if err != nil {
			contract.LogFatal("Cannot generate stats", err)
		}
		if err := report.Emit(data, cfg); err != nil {
			contract.LogFatal("Cannot write report", err)
		}
		if err := report.WriteSummary(os.Stdout, data, cfg); err != nil {
			contract.LogFatal("Cannot write summary", err)
		}
	},
}

// runGeneration wires the run dependencies and executes one generation.
func runGeneration(ctx context.Context, cfg *contract.Config) (*schema.ReportData, error) {
	projects := openProjectStore()
	defer func() { _ = projects.Close() }()

	deps := &core.Deps{
		Client:   client,
		Cache:    iocache.NewSnapshotCache(cfg.StatsDir),
		Projects: projects,
		Objects:  core.NewObjectReader(client),
		Progress: consoleProgress(cfg),
	}
	return core.GenerateStats(ctx, cfg, deps)
}

// consoleProgress reports fold progress on stderr for text output only,
// so JSON consumers get a clean stream.
func consoleProgress(cfg *contract.Config) func(done, total int) {
	if cfg.Output != schema.TextOut {
		return nil
	}
	return func(done, total int) {
		if total > 0 {
			fmt.Fprintf(os.Stderr, "\rFolding commits: %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}
}
