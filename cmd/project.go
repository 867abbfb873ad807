package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/internal/iocache"
	"github.com/statscope/statscope/internal/projstore"
	"github.com/statscope/statscope/schema"
)

// projectCmd manages the per-repository bookkeeping records.
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage per-repository bookkeeping records",
	Long: `Manage the bookkeeping records that drive incremental stats runs.

For every repository, the project store remembers:
- The last processed commit (the incremental resume point)
- Whether a stats generation is currently running
- The stats directory the reports are written to

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show the project record and cache state
  clear   - Reset the record and delete the cached snapshot
  migrate - Run database schema migrations

Examples:
  # Check the record for the current directory
  statscope project status

  # Force the next run to be a full scan
  statscope project clear`,
}

// projectStatusCmd shows the bookkeeping record and cache state.
var projectStatusCmd = &cobra.Command{
	Use:   "status [repo-path]",
	Short: "Display the project record and cached snapshot state",
	Long: `Show the bookkeeping record for a repository.

Displays:
- The incremental resume point (last processed commit)
- Whether a generation is currently marked as running
- The stats directory and cached snapshot state

Examples:
  # Check the record for the current directory
  statscope project status`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openProjectStore()
		defer func() { _ = store.Close() }()

		record, err := store.GetProject(cfg.RepoPath)
		if err != nil {
			fmt.Printf("No project record for %s yet.\n", cfg.RepoPath)
			return
		}

		fmt.Printf("Repository:      %s\n", record.RepoPath)
		fmt.Printf("Stats directory: %s\n", record.StatsDirectory)
		fmt.Printf("Generating:      %t\n", record.IsGeneratingStats)
		if record.LastProcessedCommitID == "" {
			fmt.Println("Last processed:  (none, next run is a full scan)")
		} else {
			fmt.Printf("Last processed:  %s\n", record.LastProcessedCommitID)
		}

		cache := iocache.NewSnapshotCache(cfg.StatsDir)
		if snap := cache.Load(); snap != nil {
			fmt.Printf("Cached snapshot: %d commits, generated %s\n",
				snap.TotalCommits, snap.GeneratedAt.Format("2006-01-02 15:04:05"))
		} else {
			fmt.Println("Cached snapshot: (none)")
		}
	},
}

// projectClearCmd resets the record and deletes the cached snapshot.
var projectClearCmd = &cobra.Command{
	Use:   "clear [repo-path]",
	Short: "Reset the project record and delete the cached snapshot",
	Long: `Reset the bookkeeping record for a repository and delete its cached
snapshot file. The next generation runs as a full scan.

Use this after a history rewrite (rebase, force-push), since incremental
runs only resume when the remembered boundary still matches.

Examples:
  # Force a full rescan of the current directory
  statscope project clear`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openProjectStore()
		defer func() { _ = store.Close() }()

		if err := store.SetLastProcessedCommit(cfg.RepoPath, ""); err != nil {
			contract.LogFatal("Failed to reset project record", err)
		}
		if err := store.SetGeneratingStats(cfg.RepoPath, false); err != nil {
			contract.LogFatal("Failed to reset project busy flag", err)
		}

		cache := iocache.NewSnapshotCache(cfg.StatsDir)
		if err := os.Remove(cache.Path()); err != nil && !os.IsNotExist(err) {
			contract.LogFatal("Failed to delete cached snapshot", err)
		}
		fmt.Println("Project record cleared. The next run is a full scan.")
	},
}

// projectMigrateCmd runs database migrations for the project store.
var projectMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the project store.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  statscope project migrate

  # Rollback to initial state
  statscope project migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Migrations must run without touching the repo or creating
		// tables, so skip the full shared setup.
		backend := schema.DatabaseBackend(viper.GetString("project-backend"))
		if backend == "" {
			backend = schema.SQLiteBackend
		}
		cfg.ProjectBackend = backend
		cfg.ProjectDBConnect = viper.GetString("project-db-connect")
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := projstore.Migrate(cfg.ProjectBackend, cfg.ProjectDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
