package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *schema.ReportData {
	snap := schema.NewAggregateSnapshot()
	snap.TotalCommits = 5
	snap.TotalLinesAdded = 300
	snap.TotalLinesRemoved = 50
	snap.LastProcessedCommit = "abc123"
	snap.Authors["Ada <ada@example.com>"] = &schema.AuthorAggregate{
		Commits: 3, LinesAdded: 200, LinesRemoved: 30,
		FirstCommit: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LastCommit:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	snap.Authors["Bob <bob@example.com>"] = &schema.AuthorAggregate{
		Commits: 2, LinesAdded: 100, LinesRemoved: 20,
		FirstCommit: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		LastCommit:  time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	}
	snap.DayDeltas["2024-01-01"] = &schema.DayDelta{NetLines: 250, NewFiles: 3}

	days := 10
	tagDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return &schema.ReportData{
		RepoPath:    "/repo",
		Ref:         "HEAD",
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Snapshot:    snap,
		DailySeries: []schema.DailyPoint{
			{Day: "2024-01-01", NetLines: 250, TotalFiles: 3},
		},
		TimezoneHistogram: map[int]int{0: 3, 120: 2},
		Tags: []schema.TagMilestone{
			{Name: "v1.0", Date: &tagDate, Commits: 5,
				Authors: map[string]int{"Ada <ada@example.com>": 3, "Bob <bob@example.com>": 2},
				DaysSincePrevious: &days, LinesAdded: 40, LinesRemoved: 10},
		},
		Tree: &schema.TreeStats{
			TotalFiles: 4, TotalLines: 900, TotalBytes: 4096,
			Extensions: map[string]*schema.ExtensionStat{
				".go":    {Files: 3, Lines: 800, Bytes: 3000},
				"(none)": {Files: 1, Lines: 100, Bytes: 1096},
			},
		},
	}
}

func testReportConfig(t *testing.T) *contract.Config {
	return &contract.Config{
		RepoPath:    "/repo",
		Ref:         "HEAD",
		StatsDir:    filepath.Join(t.TempDir(), "stats"),
		ResultLimit: 20,
		Output:      schema.TextOut,
		Width:       120,
	}
}

func TestEmitWritesReportFiles(t *testing.T) {
	cfg := testReportConfig(t)
	require.NoError(t, Emit(sampleReport(), cfg))

	raw, err := os.ReadFile(filepath.Join(cfg.StatsDir, schema.ReportJSONName))
	require.NoError(t, err)

	var decoded schema.ReportData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 5, decoded.Snapshot.TotalCommits)
	assert.Equal(t, "/repo", decoded.RepoPath)

	html, err := os.ReadFile(filepath.Join(cfg.StatsDir, schema.ReportHTMLName))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<html")
}

func TestWriteSummaryJSON(t *testing.T) {
	cfg := testReportConfig(t)
	cfg.Output = schema.JSONOut

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleReport(), cfg))

	var decoded schema.ReportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "abc123", decoded.Snapshot.LastProcessedCommit)
}

func TestWriteSummaryText(t *testing.T) {
	cfg := testReportConfig(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleReport(), cfg))

	out := buf.String()
	assert.Contains(t, out, "Ada <ada@example.com>")
	assert.Contains(t, out, "v1.0")
	assert.Contains(t, out, ".go")
}

func TestWriteSummaryTextWithoutOptionalSections(t *testing.T) {
	cfg := testReportConfig(t)
	data := sampleReport()
	data.Tags = nil
	data.Tree = nil

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, data, cfg))
	assert.Contains(t, buf.String(), "Bob <bob@example.com>")
}

func TestTopAuthorsRankingAndLimit(t *testing.T) {
	snap := schema.NewAggregateSnapshot()
	snap.Authors["carol"] = &schema.AuthorAggregate{Commits: 7}
	snap.Authors["bob"] = &schema.AuthorAggregate{Commits: 3}
	snap.Authors["ada"] = &schema.AuthorAggregate{Commits: 3}
	snap.Authors["dan"] = &schema.AuthorAggregate{Commits: 1}

	rows := TopAuthors(snap, 3)
	require.Len(t, rows, 3)
	assert.Equal(t, "carol", rows[0].Key)

	// Equal commit counts order by key.
	assert.Equal(t, "ada", rows[1].Key)
	assert.Equal(t, "bob", rows[2].Key)
}

func TestTopAuthorsZeroLimitKeepsAll(t *testing.T) {
	snap := schema.NewAggregateSnapshot()
	snap.Authors["ada"] = &schema.AuthorAggregate{Commits: 1}
	snap.Authors["bob"] = &schema.AuthorAggregate{Commits: 2}

	assert.Len(t, TopAuthors(snap, 0), 2)
}

func TestTopExtensionsRanking(t *testing.T) {
	tree := &schema.TreeStats{Extensions: map[string]*schema.ExtensionStat{
		".go": {Lines: 500},
		".md": {Lines: 100},
		".sh": {Lines: 100},
	}}

	rows := topExtensions(tree, 0)
	require.Len(t, rows, 3)
	assert.Equal(t, ".go", rows[0].Ext)
	assert.Equal(t, ".md", rows[1].Ext)
	assert.Equal(t, ".sh", rows[2].Ext)

	assert.Nil(t, topExtensions(nil, 5))
}

func TestRenderChartPage(t *testing.T) {
	cfg := testReportConfig(t)

	var buf bytes.Buffer
	require.NoError(t, renderChartPage(sampleReport(), cfg, &buf))

	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Repository size over time")
	assert.Contains(t, out, "Commits per author")
}

func TestRenderChartPageEmptyData(t *testing.T) {
	cfg := testReportConfig(t)
	data := &schema.ReportData{
		RepoPath: "/repo",
		Ref:      "HEAD",
		Snapshot: schema.NewAggregateSnapshot(),
	}

	var buf bytes.Buffer
	require.NoError(t, renderChartPage(data, cfg, &buf))
	assert.Contains(t, buf.String(), "<html")
}
