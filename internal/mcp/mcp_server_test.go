package mcp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/statscope/statscope/internal/contract"
	mcp_internal "github.com/statscope/statscope/internal/mcp"
	"github.com/statscope/statscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stubReport() *schema.ReportData {
	snap := schema.NewAggregateSnapshot()
	snap.TotalCommits = 3
	snap.Authors["Ada <ada@example.com>"] = &schema.AuthorAggregate{Commits: 2}
	snap.Authors["Bob <bob@example.com>"] = &schema.AuthorAggregate{Commits: 1}

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &schema.ReportData{
		RepoPath: "/repo",
		Ref:      "HEAD",
		Snapshot: snap,
		Tags: []schema.TagMilestone{
			{Name: "v1.0", Date: &date, Commits: 3, Authors: map[string]int{"Ada <ada@example.com>": 2}},
		},
	}
}

func callTool(t *testing.T, name string, args map[string]any, run mcp_internal.StatsRunner, client contract.GitClient) *mcp.CallToolResult {
	t.Helper()

	baseCfg := &contract.Config{RepoPath: "/repo", Ref: "HEAD", ResultLimit: 20}
	s := mcp_internal.NewMCPServer(baseCfg, client, run)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestMCPServerGetRepoStats(t *testing.T) {
	var gotCfg *contract.Config
	run := func(ctx context.Context, cfg *contract.Config) (*schema.ReportData, error) {
		gotCfg = cfg
		return stubReport(), nil
	}

	res := callTool(t, "get_repo_stats", map[string]any{}, run, &contract.MockGitClient{})
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, `"totalCommits": 3`)

	// Without overrides the handler runs against the configured target.
	require.NotNil(t, gotCfg)
	assert.Equal(t, "/repo", gotCfg.RepoPath)
	assert.Equal(t, "HEAD", gotCfg.Ref)
}

func TestMCPServerGetTopAuthorsLimit(t *testing.T) {
	run := func(ctx context.Context, cfg *contract.Config) (*schema.ReportData, error) {
		return stubReport(), nil
	}

	res := callTool(t, "get_top_authors", map[string]any{"limit": 1.0}, run, &contract.MockGitClient{})
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "Ada <ada@example.com>")
	assert.NotContains(t, text, "Bob <bob@example.com>")
}

func TestMCPServerGetTagMilestones(t *testing.T) {
	run := func(ctx context.Context, cfg *contract.Config) (*schema.ReportData, error) {
		return stubReport(), nil
	}

	res := callTool(t, "get_tag_milestones", map[string]any{}, run, &contract.MockGitClient{})
	require.False(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "v1.0")
}

func TestMCPServerGetTagMilestonesEmpty(t *testing.T) {
	run := func(ctx context.Context, cfg *contract.Config) (*schema.ReportData, error) {
		data := stubReport()
		data.Tags = nil
		return data, nil
	}

	res := callTool(t, "get_tag_milestones", map[string]any{}, run, &contract.MockGitClient{})
	require.False(t, res.IsError)

	// Consumers get an empty array, never null.
	assert.Equal(t, "[]", res.Content[0].(mcp.TextContent).Text)
}

func TestMCPServerRunFailure(t *testing.T) {
	run := func(ctx context.Context, cfg *contract.Config) (*schema.ReportData, error) {
		return nil, errors.New("history query failed")
	}

	res := callTool(t, "get_repo_stats", map[string]any{}, run, &contract.MockGitClient{})
	assert.True(t, res.IsError, "The response should indicate an error state")
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "stats generation failed")
}

func TestMCPServerInvalidOverrideTarget(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("ResolveCommit", mock.Anything, mock.Anything, "nope").
		Return("", errors.New("unknown revision"))

	run := func(ctx context.Context, cfg *contract.Config) (*schema.ReportData, error) {
		t.Fatal("runner must not be called for an unresolvable target")
		return nil, nil
	}

	res := callTool(t, "get_repo_stats", map[string]any{"ref": "nope"}, run, client)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid target")
}
