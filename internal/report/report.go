// Package report emits the statistics report: a machine-readable JSON
// document and an HTML chart page under the stats directory, plus the
// console summary in text or JSON form.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/schema"
)

// Emit writes the full report to disk: stats.json plus the chart page,
// both under cfg.StatsDir.
func Emit(data *schema.ReportData, cfg *contract.Config) error {
	if err := os.MkdirAll(cfg.StatsDir, 0o755); err != nil {
		return fmt.Errorf("cannot create stats directory %s: %w", cfg.StatsDir, err)
	}

	jsonPath := filepath.Join(cfg.StatsDir, schema.ReportJSONName)
	if err := writeWithFile(jsonPath, func(w io.Writer) error {
		return writeJSON(w, data)
	}, "Wrote report JSON"); err != nil {
		return err
	}

	htmlPath := filepath.Join(cfg.StatsDir, schema.ReportHTMLName)
	return writeWithFile(htmlPath, func(w io.Writer) error {
		return renderChartPage(data, cfg, w)
	}, "Wrote report page")
}

// WriteSummary prints the run summary to the writer, dispatching on the
// configured console output format.
func WriteSummary(w io.Writer, data *schema.ReportData, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, data); err != nil {
			return fmt.Errorf("error writing JSON summary: %w", err)
		}
		return nil
	default:
		return writeSummaryTables(w, data, cfg)
	}
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// AuthorRow pairs an author key with its aggregate for ranked output.
type AuthorRow struct {
	Key string                  `json:"author"`
	Agg *schema.AuthorAggregate `json:"stats"`
}

// TopAuthors ranks authors by commit count, breaking ties on the key so
// equal-commit runs stay stable across invocations.
func TopAuthors(snap *schema.AggregateSnapshot, limit int) []AuthorRow {
	rows := make([]AuthorRow, 0, len(snap.Authors))
	for key, agg := range snap.Authors {
		rows = append(rows, AuthorRow{Key: key, Agg: agg})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Agg.Commits != rows[j].Agg.Commits {
			return rows[i].Agg.Commits > rows[j].Agg.Commits
		}
		return rows[i].Key < rows[j].Key
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// extensionRow pairs an extension label with its tree slice.
type extensionRow struct {
	Ext  string
	Stat *schema.ExtensionStat
}

// topExtensions ranks extensions by line count with the same stable tie-break.
func topExtensions(tree *schema.TreeStats, limit int) []extensionRow {
	if tree == nil {
		return nil
	}
	rows := make([]extensionRow, 0, len(tree.Extensions))
	for ext, stat := range tree.Extensions {
		rows = append(rows, extensionRow{Ext: ext, Stat: stat})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Stat.Lines != rows[j].Stat.Lines {
			return rows[i].Stat.Lines > rows[j].Stat.Lines
		}
		return rows[i].Ext < rows[j].Ext
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
