package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/internal/mcp"
	"github.com/statscope/statscope/schema"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Statscope MCP server",
	Long:  `Launch an MCP server that allows AI agents to query repository contribution statistics via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so nothing may print to stdout.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		run := mcp.StatsRunner(func(ctx context.Context, reqCfg *contract.Config) (*schema.ReportData, error) {
			return runGeneration(ctx, reqCfg)
		})
		return mcp.StartMCPServer(rootCtx, cfg, client, run)
	},
}
