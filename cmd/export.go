package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/internal/iocache"
	"github.com/statscope/statscope/internal/parquet"
)

// exportCmd writes the aggregate snapshot as Parquet files.
var exportCmd = &cobra.Command{
	Use:   "export [repo-path]",
	Short: "Export the aggregate snapshot to Parquet files.",
	Long: `Export per-author and per-file aggregates to Parquet files under the
stats directory, for downstream analytics tooling.

The cached snapshot is reused when present; otherwise a full generation
runs first.

Examples:
  # Export the current directory's stats
  statscope export

  # Export a specific repository
  statscope export ~/src/project --ref main`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		snap := iocache.NewSnapshotCache(cfg.StatsDir).Load()
		if snap == nil {
			data, err := runGeneration(rootCtx, cfg)
			if err != nil {
				contract.LogFatal("Cannot generate stats", err)
			}
			snap = data.Snapshot
		}

		if err := os.MkdirAll(cfg.StatsDir, 0o755); err != nil {
			contract.LogFatal("Cannot create stats directory", err)
		}

		authorsPath := filepath.Join(cfg.StatsDir, "authors.parquet")
		if err := parquet.WriteAuthorsParquet(snap, authorsPath); err != nil {
			contract.LogFatal("Cannot export author aggregates", err)
		}
		filesPath := filepath.Join(cfg.StatsDir, "files.parquet")
		if err := parquet.WriteFilesParquet(snap, filesPath); err != nil {
			contract.LogFatal("Cannot export file aggregates", err)
		}

		success := fmt.Sprintf("Exported %d authors and %d files", len(snap.Authors), len(snap.Files))
		if cfg.UseColor {
			success = contract.SuccessColor.Sprint(success)
		}
		fmt.Printf("%s to %s\n", success, cfg.StatsDir)
	},
}
