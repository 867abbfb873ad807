// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/schema"
)

// StatsRunner executes one stats generation for the given configuration.
// The command layer supplies a closure over the core engine so the server
// stays testable with a stubbed run.
type StatsRunner func(ctx context.Context, cfg *contract.Config) (*schema.ReportData, error)

// NewMCPServer initializes and configures the Statscope MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, run StatsRunner) *server.MCPServer {
	s := server.NewMCPServer(
		"Statscope Stats Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		run:     run,
	}

	// --- 1. Tool: get_repo_stats ---
	s.AddTool(mcp.NewTool("get_repo_stats",
		mcp.WithDescription("Generate full contribution statistics for a git repository: totals, authors, daily series, tags and tree snapshot."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository if not specified).")),
		mcp.WithString("ref", mcp.Description("Target reference (branch, tag, or commit). Defaults to HEAD.")),
	), h.handleGetRepoStats)

	// --- 2. Tool: get_top_authors ---
	s.AddTool(mcp.NewTool("get_top_authors",
		mcp.WithDescription("Rank authors of a git repository by commit count with line totals and activity windows."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("ref", mcp.Description("Target reference (branch, tag, or commit).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of authors returned.")),
	), h.handleGetTopAuthors)

	// --- 3. Tool: get_tag_milestones ---
	s.AddTool(mcp.NewTool("get_tag_milestones",
		mcp.WithDescription("List tag milestones for a git repository: exclusive commit counts, per-author splits, and churn relative to the previous tag."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("ref", mcp.Description("Target reference (branch, tag, or commit).")),
	), h.handleGetTagMilestones)

	return s
}

// StartMCPServer starts the Statscope MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, run StatsRunner) error {
	s := NewMCPServer(baseCfg, client, run)
	return server.ServeStdio(s)
}
