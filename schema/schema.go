// Package schema has the data model, configs and constants shared by all parts of statscope.
package schema

import "time"

// CommitRecord is a single commit as decoded from the history stream.
// It is immutable once read from the log output.
type CommitRecord struct {
	Hash           string    // Full commit id
	Parents        []string  // Parent ids in log order
	AuthorName     string    // Author identity name
	AuthorEmail    string    // Author identity email
	AuthorDate     time.Time // Author timestamp
	TimezoneOffset *int      // Author UTC offset in minutes; nil when unparseable (treated as UTC)
	CommitterName  string    // Committer identity name
	CommitterEmail string    // Committer identity email
	CommitterDate  time.Time // Committer timestamp
	TreeHash       string    // Root tree id
	Subject        string    // First line of the commit message
}

// FileChange is a per-file line delta scoped to one commit. Path uniqueness
// within a commit is assumed, not enforced.
type FileChange struct {
	Path         string
	LinesAdded   int
	LinesRemoved int
}

// Commit pairs a commit record with its file changes.
type Commit struct {
	Record      CommitRecord
	FileChanges []FileChange
}

// AuthorKey builds the canonical "Name <email>" aggregate key for a commit author.
func (c *CommitRecord) AuthorKey() string {
	return c.AuthorName + " <" + c.AuthorEmail + ">"
}

// Day returns the UTC calendar-day key for the author timestamp.
func (c *CommitRecord) Day() string {
	return c.AuthorDate.UTC().Format(DayFormat)
}

// Tag is a repository tag with its creation date and target commit.
type Tag struct {
	Name   string
	Date   *time.Time // Creation date; nil when git reports none
	Target string     // Target commit id (annotated tags are dereferenced)
}

// ProjectRecord is the externally owned bookkeeping row for one repository.
// The stats core only ever touches the two scalar fields below plus the
// read-only stats directory.
type ProjectRecord struct {
	RepoPath              string
	LastProcessedCommitID string // Incremental boundary from the previous run; empty before the first run
	IsGeneratingStats     bool   // Busy flag while a run is in flight
	StatsDirectory        string // Read-only output directory for the report and cache sidecar
}
