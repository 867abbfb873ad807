// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/statscope/statscope/schema"
)

// GitClient defines the git invocations the stats core depends on.
// This allows the core aggregation logic to be tested without needing a
// real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Reference Resolution ---

	// ResolveCommit resolves a ref (branch, tag, commit) to a full commit id.
	ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error)

	// --- History Streams ---

	// HistoryLog returns the raw combined metadata+numstat log stream for
	// the ancestry of ref, oldest first. A non-empty afterCommit restricts
	// the output to commits strictly after that boundary.
	HistoryLog(ctx context.Context, repoPath string, ref string, afterCommit string) ([]byte, error)

	// AuthorTimezones returns one ISO-8601 author date per commit over the
	// full ancestry of ref.
	AuthorTimezones(ctx context.Context, repoPath string, ref string) ([]byte, error)

	// CommitGraph returns the raw parent-edge adjacency stream (with one
	// author line per commit) for everything reachable from the given tips.
	CommitGraph(ctx context.Context, repoPath string, tips []string) ([]byte, error)

	// ShortLog returns the condensed per-author commit summary for ref.
	ShortLog(ctx context.Context, repoPath string, ref string) ([]byte, error)

	// --- Tags / Diffs ---

	// ListTags returns all tags with creation dates and dereferenced
	// target commit ids, ordered by creation date (ties lexicographic).
	ListTags(ctx context.Context, repoPath string) ([]schema.Tag, error)

	// DiffNumstat returns the raw numstat diff between two refs.
	DiffNumstat(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]byte, error)

	// --- Object Access ---

	// ListTree returns the raw recursive long-format tree listing at ref.
	ListTree(ctx context.Context, repoPath string, ref string) ([]byte, error)

	// CatFileBatch streams the given object ids through a single batch
	// read and returns the raw multiplexed output.
	CatFileBatch(ctx context.Context, repoPath string, ids []string) ([]byte, error)

	// ReadBlob returns the content of a single blob object.
	ReadBlob(ctx context.Context, repoPath string, id string) ([]byte, error)
}

// ProjectStore is the bookkeeping record owner. The stats core reads and
// writes exactly two scalar fields per project and reads the derived stats
// directory; it never mutates anything else.
type ProjectStore interface {
	// EnsureProject creates the record for repoPath if missing and
	// returns it. statsDir is only used when the record is created.
	EnsureProject(repoPath string, statsDir string) (schema.ProjectRecord, error)

	// GetProject returns the record for repoPath.
	GetProject(repoPath string) (schema.ProjectRecord, error)

	// SetLastProcessedCommit durably records the incremental boundary.
	SetLastProcessedCommit(repoPath string, commitID string) error

	// SetGeneratingStats flips the busy flag.
	SetGeneratingStats(repoPath string, busy bool) error

	// Close releases the underlying connection.
	Close() error
}

// SnapshotCache persists the aggregate snapshot between runs.
type SnapshotCache interface {
	// Load returns the cached snapshot, or nil when there is no usable
	// cache. It never fails hard.
	Load() *schema.AggregateSnapshot

	// Save atomically persists the snapshot.
	Save(snap *schema.AggregateSnapshot) error
}
