// Package parquet exports the aggregate snapshot to Parquet files using
// github.com/parquet-go/parquet-go, for downstream analytics tooling.
package parquet

import (
	"fmt"
	"os"
	"path"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/statscope/statscope/schema"
)

// AuthorRecord is the per-author export row.
type AuthorRecord struct {
	// Author is the canonical "Name <email>" identity key
	Author string `parquet:"author,snappy"`

	// Commits is the total commit count attributed to this author
	Commits int64 `parquet:"commits,snappy"`

	// LinesAdded and LinesRemoved are summed over all attributed commits
	LinesAdded   int64 `parquet:"lines_added,snappy"`
	LinesRemoved int64 `parquet:"lines_removed,snappy"`

	// FirstCommit and LastCommit bound the author's activity window (nullable)
	FirstCommit *time.Time `parquet:"first_commit,optional,snappy"`
	LastCommit  *time.Time `parquet:"last_commit,optional,snappy"`

	// GeneratedAt is the snapshot generation timestamp
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// FileRecord is the per-path export row.
type FileRecord struct {
	// Path is the repository-relative file path
	Path string `parquet:"path,snappy"`

	// Extension is the dot-prefixed file extension, or "(none)"
	Extension string `parquet:"extension,snappy"`

	// Commits is the number of commits touching this path
	Commits int64 `parquet:"commits,snappy"`

	// LinesAdded and LinesRemoved are summed over all touching commits
	LinesAdded   int64 `parquet:"lines_added,snappy"`
	LinesRemoved int64 `parquet:"lines_removed,snappy"`

	// GeneratedAt is the snapshot generation timestamp
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// WriteAuthorsParquet writes the per-author aggregates to a Parquet file.
func WriteAuthorsParquet(snap *schema.AggregateSnapshot, outputPath string) error {
	records := buildAuthorRecords(snap)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the AuthorRecord struct tags
	writer := parquet.NewGenericWriter[AuthorRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteFilesParquet writes the per-path aggregates to a Parquet file.
func WriteFilesParquet(snap *schema.AggregateSnapshot, outputPath string) error {
	records := buildFileRecords(snap)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the FileRecord struct tags
	writer := parquet.NewGenericWriter[FileRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// buildAuthorRecords converts the snapshot's author map into sorted rows.
func buildAuthorRecords(snap *schema.AggregateSnapshot) []AuthorRecord {
	records := make([]AuthorRecord, 0, len(snap.Authors))
	for key, agg := range snap.Authors {
		rec := AuthorRecord{
			Author:       key,
			Commits:      int64(agg.Commits),
			LinesAdded:   int64(agg.LinesAdded),
			LinesRemoved: int64(agg.LinesRemoved),
			GeneratedAt:  snap.GeneratedAt,
		}
		if !agg.FirstCommit.IsZero() {
			first := agg.FirstCommit
			rec.FirstCommit = &first
		}
		if !agg.LastCommit.IsZero() {
			last := agg.LastCommit
			rec.LastCommit = &last
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Author < records[j].Author })
	return records
}

// buildFileRecords converts the snapshot's file map into sorted rows.
func buildFileRecords(snap *schema.AggregateSnapshot) []FileRecord {
	records := make([]FileRecord, 0, len(snap.Files))
	for filePath, agg := range snap.Files {
		records = append(records, FileRecord{
			Path:         filePath,
			Extension:    ExtensionLabel(filePath),
			Commits:      int64(agg.Commits),
			LinesAdded:   int64(agg.LinesAdded),
			LinesRemoved: int64(agg.LinesRemoved),
			GeneratedAt:  snap.GeneratedAt,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records
}

// ExtensionLabel returns the dot-prefixed extension for a path, or "(none)"
// for extensionless files.
func ExtensionLabel(filePath string) string {
	ext := path.Ext(filePath)
	if ext == "" {
		return "(none)"
	}
	return ext
}
