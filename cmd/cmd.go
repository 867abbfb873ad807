// Package cmd defines the command-line interface for statscope.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the project subcommands to the parent project command
	projectCmd.AddCommand(projectStatusCmd)
	projectCmd.AddCommand(projectClearCmd)
	projectCmd.AddCommand(projectMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("ref", "r", contract.DefaultRef, "Target Git reference (branch, tag, or commit)")
	rootCmd.PersistentFlags().String("stats-dir", "", "Directory for report and cache files (default: .statscope under the repo)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", 0, "Number of concurrent fold workers (0 = auto-detect)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("project-backend", string(schema.SQLiteBackend), "Project store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("project-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of summaryCmd to Viper
	summaryCmd.Flags().Bool("quick", false, "Skip the full fold and print the condensed per-author shortlog")
	if err := viper.BindPFlags(summaryCmd.Flags()); err != nil {
		contract.LogFatal("Error binding summary flags", err)
	}

	// Bind all flags of projectMigrateCmd to Viper
	projectMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(projectMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding project migrate flags", err)
	}
}
