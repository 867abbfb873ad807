package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/internal/report"
	"github.com/statscope/statscope/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	run     StatsRunner
}

// requestConfig clones the base config, applies the per-request overrides
// and re-resolves the target when anything changed.
func (h *toolHandler) requestConfig(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()

	overridden := false
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
		overridden = true
	}
	if r := request.GetString("ref", ""); r != "" {
		cfg.Ref = r
		overridden = true
	}

	if overridden {
		if err := contract.RevalidateTarget(ctx, cfg, h.client); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (h *toolHandler) handleGetRepoStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid target: %v", err)), nil
	}

	data, err := h.run(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats generation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(data, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTopAuthors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid target: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	data, err := h.run(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats generation failed: %v", err)), nil
	}

	ranked := report.TopAuthors(data.Snapshot, cfg.ResultLimit)
	jsonData, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTagMilestones(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid target: %v", err)), nil
	}

	data, err := h.run(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats generation failed: %v", err)), nil
	}

	tags := data.Tags
	if tags == nil {
		tags = []schema.TagMilestone{}
	}
	jsonData, _ := json.MarshalIndent(tags, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
