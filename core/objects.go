// Package core orchestrates stats runs: full vs incremental scan decisions,
// folding, derived metrics, cache persistence and report handoff.
package core

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/schema"
)

// noExtension is the extension-breakdown bucket for files without one.
const noExtension = "(none)"

// ObjectReader resolves tree and blob objects on demand for snapshot
// statistics. Blob line counts are memoized by content id: entries are
// immutable once computed, so a single lock around check-then-populate is
// all the coordination needed.
type ObjectReader struct {
	client contract.GitClient

	mu         sync.Mutex
	lineCounts map[string]int // blob id -> line count
}

// NewObjectReader creates a process-local object reader.
func NewObjectReader(client contract.GitClient) *ObjectReader {
	return &ObjectReader{
		client:     client,
		lineCounts: make(map[string]int),
	}
}

// treeEntry is one blob row of a recursive long-format tree listing.
type treeEntry struct {
	blobID string
	size   int64
	path   string
}

// TreeStats computes file, line, byte and extension statistics for the
// tree at ref. These are always recomputed against the final tree, never
// folded incrementally.
func (r *ObjectReader) TreeStats(ctx context.Context, repoPath string, ref string) (*schema.TreeStats, error) {
	out, err := r.client.ListTree(ctx, repoPath, ref)
	if err != nil {
		return nil, err
	}
	entries := parseTreeListing(out)

	counts := r.blobLineCounts(ctx, repoPath, entries)

	stats := &schema.TreeStats{Extensions: make(map[string]*schema.ExtensionStat)}
	for _, entry := range entries {
		lines := counts[entry.blobID]

		stats.TotalFiles++
		stats.TotalLines += lines
		stats.TotalBytes += entry.size

		ext := strings.ToLower(filepath.Ext(entry.path))
		if ext == "" {
			ext = noExtension
		}
		extStat, ok := stats.Extensions[ext]
		if !ok {
			extStat = &schema.ExtensionStat{}
			stats.Extensions[ext] = extStat
		}
		extStat.Files++
		extStat.Lines += lines
		extStat.Bytes += entry.size
	}

	return stats, nil
}

// parseTreeListing decodes `ls-tree -r -l` output lines of the form
// "<mode> blob <id> <size>\t<path>". Non-blob and malformed rows are
// skipped.
func parseTreeListing(out []byte) []treeEntry {
	var entries []treeEntry
	for line := range strings.Lines(string(out)) {
		line = strings.TrimRight(line, "\r\n")
		meta, path, ok := strings.Cut(line, "\t")
		if !ok || path == "" {
			continue
		}

		fields := strings.Fields(meta)
		if len(fields) != 4 || fields[1] != "blob" {
			continue
		}
		size, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			size = 0 // "-" for odd objects; keep the file, drop the bytes
		}

		entries = append(entries, treeEntry{blobID: fields[2], size: size, path: path})
	}
	return entries
}

// blobLineCounts returns line counts for every entry's blob, reading
// uncached blobs through a single batch call. A failed batch read degrades
// to per-blob reads, and blobs that still cannot be read count zero lines.
func (r *ObjectReader) blobLineCounts(ctx context.Context, repoPath string, entries []treeEntry) map[string]int {
	counts := make(map[string]int, len(entries))

	r.mu.Lock()
	var missing []string
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if cached, ok := r.lineCounts[entry.blobID]; ok {
			counts[entry.blobID] = cached
		} else if !seen[entry.blobID] {
			seen[entry.blobID] = true
			missing = append(missing, entry.blobID)
		}
	}
	r.mu.Unlock()

	if len(missing) == 0 {
		return counts
	}

	fetched := make(map[string]int, len(missing))
	if out, err := r.client.CatFileBatch(ctx, repoPath, missing); err == nil {
		fetched = parseBatchLineCounts(out)
	} else {
		contract.LogWarn("batch blob read failed, falling back to single reads", err)
		for _, id := range missing {
			content, err := r.client.ReadBlob(ctx, repoPath, id)
			if err != nil {
				continue
			}
			fetched[id] = countLines(content)
		}
	}

	r.mu.Lock()
	for id, lines := range fetched {
		r.lineCounts[id] = lines
		counts[id] = lines
	}
	r.mu.Unlock()

	return counts
}

// parseBatchLineCounts walks `cat-file --batch` output: per object, a
// "<id> <type> <size>" header line followed by <size> raw content bytes
// and a newline. Missing objects answer "<id> missing" with no content.
func parseBatchLineCounts(out []byte) map[string]int {
	counts := make(map[string]int)

	pos := 0
	for pos < len(out) {
		nl := bytes.IndexByte(out[pos:], '\n')
		if nl < 0 {
			break
		}
		header := string(out[pos : pos+nl])
		pos += nl + 1

		fields := strings.Fields(header)
		if len(fields) < 3 || fields[1] != "blob" {
			continue // "missing" or a non-blob object; no content follows
		}
		size, err := strconv.Atoi(fields[2])
		if err != nil || pos+size > len(out) {
			break
		}

		counts[fields[0]] = countLines(out[pos : pos+size])
		pos += size + 1 // content plus the trailing newline
	}

	return counts
}

// countLines counts newline-terminated lines, treating a trailing partial
// line as a line of its own.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	lines := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		lines++
	}
	return lines
}
