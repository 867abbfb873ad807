package schema

import "time"

// AuthorAggregate accumulates contribution totals for one author identity,
// keyed by "Name <email>".
type AuthorAggregate struct {
	Commits      int       `json:"commits"`
	LinesAdded   int       `json:"linesAdded"`
	LinesRemoved int       `json:"linesRemoved"`
	FirstCommit  time.Time `json:"firstCommit,omitzero"` // Min-fold over author dates
	LastCommit   time.Time `json:"lastCommit,omitzero"`  // Max-fold over author dates
}

// FileAggregate accumulates contribution totals for one path. Renames are
// not tracked; a renamed file yields two independent entries.
type FileAggregate struct {
	Commits      int `json:"commits"`
	LinesAdded   int `json:"linesAdded"`
	LinesRemoved int `json:"linesRemoved"`
}

// DayDelta is the accumulated per-day change batch written during the fold
// and replayed in day order by the daily resolution pass.
type DayDelta struct {
	NetLines int `json:"netLines"` // Sum of added-removed for commits on this day
	NewFiles int `json:"newFiles"` // Paths first seen on this day
}

// DailyPoint is one resolved point of the running by-day series.
type DailyPoint struct {
	Day        string `json:"day"`
	NetLines   int    `json:"netLines"`   // Running LOC, clamped at zero
	TotalFiles int    `json:"totalFiles"` // Running distinct-file count
}

// LineBreakdown is a coarse added/removed bucket (per year or year-month).
type LineBreakdown struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Add accumulates one commit's line counts into the bucket.
func (b *LineBreakdown) Add(added, removed int) {
	b.Added += added
	b.Removed += removed
}

// AggregateSnapshot is the complete persisted fold state at run end. It is
// the cache payload and the seed for incremental runs.
type AggregateSnapshot struct {
	TotalCommits      int `json:"totalCommits"`
	TotalLinesAdded   int `json:"totalLinesAdded"`
	TotalLinesRemoved int `json:"totalLinesRemoved"`

	Authors map[string]*AuthorAggregate `json:"authors"`
	Files   map[string]*FileAggregate   `json:"files"`

	// DayDeltas keeps raw per-day deltas rather than resolved running
	// values so incremental merges stay exact even when late-arriving
	// commits carry author dates older than already recorded days.
	DayDeltas map[string]*DayDelta `json:"dayDeltas"`

	YearLines      map[string]*LineBreakdown `json:"yearLines"`      // "2006"
	YearMonthLines map[string]*LineBreakdown `json:"yearMonthLines"` // "2006-01"

	// LastProcessedCommit is the id of the last commit folded in
	// topological oldest-to-newest order; the incremental resume point.
	LastProcessedCommit string    `json:"lastProcessedCommit"`
	GeneratedAt         time.Time `json:"generatedAt"`

	// HasLineBreakdown gates forward-compatible consumption of the
	// year/month breakdown fields. Snapshots without it are rebuilt.
	HasLineBreakdown bool `json:"hasLineBreakdown"`
}

// NewAggregateSnapshot returns an empty snapshot with all maps allocated
// and the line-breakdown capability flag set.
func NewAggregateSnapshot() *AggregateSnapshot {
	return &AggregateSnapshot{
		Authors:          make(map[string]*AuthorAggregate),
		Files:            make(map[string]*FileAggregate),
		DayDeltas:        make(map[string]*DayDelta),
		YearLines:        make(map[string]*LineBreakdown),
		YearMonthLines:   make(map[string]*LineBreakdown),
		HasLineBreakdown: true,
	}
}
