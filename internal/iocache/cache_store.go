// Package iocache persists the aggregate snapshot as a JSON sidecar under
// the stats directory.
package iocache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/schema"
)

// FileSnapshotCache reads and writes the stats_cache.json sidecar.
type FileSnapshotCache struct {
	path string
}

var _ contract.SnapshotCache = &FileSnapshotCache{} // Compile-time check

// NewSnapshotCache creates a cache store rooted in the stats directory.
func NewSnapshotCache(statsDir string) *FileSnapshotCache {
	return &FileSnapshotCache{path: filepath.Join(statsDir, schema.CacheFileName)}
}

// Path returns the sidecar location.
func (c *FileSnapshotCache) Path() string {
	return c.path
}

// Load returns the cached snapshot, or nil when no usable cache exists.
// Every failure mode (missing file, corrupt payload, schema mismatch, a
// snapshot predating the line-breakdown capability) yields "no cache" and
// triggers a full rebuild; loading is never fatal.
func (c *FileSnapshotCache) Load() *schema.AggregateSnapshot {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	var snap schema.AggregateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		contract.LogWarn("ignoring corrupt stats cache", err)
		return nil
	}
	if !snap.HasLineBreakdown {
		// Written by a version without the year/month breakdown; a
		// partial merge would silently underreport, so rebuild fully.
		return nil
	}

	normalize(&snap)
	return &snap
}

// Save atomically persists the snapshot via write-then-rename, so readers
// either see the previous sidecar or the complete new one.
func (c *FileSnapshotCache) Save(snap *schema.AggregateSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("could not create stats directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), schema.CacheFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("could not write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("could not flush snapshot: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("could not replace stats cache: %w", err)
	}
	return nil
}

// normalize allocates any maps a hand-edited or older sidecar left null,
// so the fold can seed from the snapshot without nil checks.
func normalize(snap *schema.AggregateSnapshot) {
	if snap.Authors == nil {
		snap.Authors = make(map[string]*schema.AuthorAggregate)
	}
	if snap.Files == nil {
		snap.Files = make(map[string]*schema.FileAggregate)
	}
	if snap.DayDeltas == nil {
		snap.DayDeltas = make(map[string]*schema.DayDelta)
	}
	if snap.YearLines == nil {
		snap.YearLines = make(map[string]*schema.LineBreakdown)
	}
	if snap.YearMonthLines == nil {
		snap.YearMonthLines = make(map[string]*schema.LineBreakdown)
	}
}
