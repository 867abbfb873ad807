package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/schema"
	"golang.org/x/term"
)

// writeSummaryTables generates the human-readable console summary.
func writeSummaryTables(w io.Writer, data *schema.ReportData, cfg *contract.Config) error {
	snap := data.Snapshot

	accent := func(s string) string { return s }
	if cfg.UseColor {
		accent = func(s string) string { return contract.AccentColor.Sprint(s) }
	}

	if _, err := fmt.Fprintf(w, "Repository: %s (ref %s)\n", data.RepoPath, accent(data.Ref)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Commits: %s  Lines: +%s/-%s  Authors: %s  Files: %s\n",
		accent(humanize.Comma(int64(snap.TotalCommits))),
		humanize.Comma(int64(snap.TotalLinesAdded)),
		humanize.Comma(int64(snap.TotalLinesRemoved)),
		accent(humanize.Comma(int64(len(snap.Authors)))),
		humanize.Comma(int64(len(snap.Files)))); err != nil {
		return err
	}
	if data.Tree != nil {
		if _, err := fmt.Fprintf(w, "Tree at %s: %s files, %s lines, %s\n",
			accent(data.Ref),
			humanize.Comma(int64(data.Tree.TotalFiles)),
			humanize.Comma(int64(data.Tree.TotalLines)),
			humanize.Bytes(uint64(data.Tree.TotalBytes))); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if err := writeAuthorTable(w, snap, cfg); err != nil {
		return err
	}
	if len(data.Tags) > 0 {
		if err := writeTagTable(w, data.Tags, cfg); err != nil {
			return err
		}
	}
	if data.Tree != nil && len(data.Tree.Extensions) > 0 {
		if err := writeExtensionTable(w, data.Tree, cfg); err != nil {
			return err
		}
	}
	return nil
}

// writeAuthorTable renders the ranked author contributions.
func writeAuthorTable(w io.Writer, snap *schema.AggregateSnapshot, cfg *contract.Config) error {
	rows := TopAuthors(snap, cfg.ResultLimit)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Author", "Commits", "Added", "Removed", "First", "Last"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxAuthor := getMaxTableAuthorWidth(cfg)
	var data [][]string
	for i, r := range rows {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Key, maxAuthor),
			humanize.Comma(int64(r.Agg.Commits)),
			humanize.Comma(int64(r.Agg.LinesAdded)),
			humanize.Comma(int64(r.Agg.LinesRemoved)),
			r.Agg.FirstCommit.Format(schema.DayFormat),
			r.Agg.LastCommit.Format(schema.DayFormat),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing top %d of %d authors\n\n", len(rows), len(snap.Authors))
	return err
}

// writeTagTable renders tag milestones in chronological order.
func writeTagTable(w io.Writer, tags []schema.TagMilestone, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Tag", "Date", "Commits", "Days", "Added", "Removed", "Top Author"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, t := range tags {
		date := "unknown"
		if t.Date != nil {
			date = t.Date.Format(schema.DayFormat)
		}
		days := "-"
		if t.DaysSincePrevious != nil {
			days = strconv.Itoa(*t.DaysSincePrevious)
		}
		row := []string{
			t.Name,
			date,
			humanize.Comma(int64(t.Commits)),
			days,
			humanize.Comma(int64(t.LinesAdded)),
			humanize.Comma(int64(t.LinesRemoved)),
			topTagAuthor(t.Authors),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d tags\n\n", len(tags))
	return err
}

// writeExtensionTable renders the per-extension tree breakdown.
func writeExtensionTable(w io.Writer, tree *schema.TreeStats, cfg *contract.Config) error {
	rows := topExtensions(tree, cfg.ResultLimit)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Extension", "Files", "Lines", "Size"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range rows {
		row := []string{
			r.Ext,
			humanize.Comma(int64(r.Stat.Files)),
			humanize.Comma(int64(r.Stat.Lines)),
			humanize.Bytes(uint64(r.Stat.Bytes)),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing top %d of %d extensions\n\n", len(rows), len(tree.Extensions))
	return err
}

// topTagAuthor picks the author with the most exclusive commits for a tag,
// breaking ties on the key.
func topTagAuthor(authors map[string]int) string {
	best := ""
	bestCount := 0
	for key, count := range authors {
		if count > bestCount || (count == bestCount && best != "" && key < best) {
			best = key
			bestCount = count
		}
	}
	if best == "" {
		return "-"
	}
	return best
}

// getMaxTableAuthorWidth calculates the maximum width for author identities
// in table output based on terminal width.
func getMaxTableAuthorWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns: rank, counts, dates, borders.
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable identity width
		return 15
	}
	if available > 60 {
		// Maximum identity width to prevent overly long rows
		return 60
	}
	return available
}
