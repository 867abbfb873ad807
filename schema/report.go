package schema

import "time"

// TagMilestone describes the commits a tag introduced relative to the
// chronologically previous tag, via graph reachability rather than dates.
type TagMilestone struct {
	Name              string         `json:"name"`
	Date              *time.Time     `json:"date"`              // Creation date; nil when unknown
	Commits           int            `json:"commits"`           // Exclusive commit count
	Authors           map[string]int `json:"authors"`           // Per-author exclusive commit counts
	DaysSincePrevious *int           `json:"daysSincePrevious"` // Calendar-day delta, clamped at 0; nil for the first tag or missing dates
	LinesAdded        int            `json:"linesAdded"`        // Churn vs. the previous tag; zero when unavailable
	LinesRemoved      int            `json:"linesRemoved"`
}

// ExtensionStat is the per-extension slice of the tree snapshot.
type ExtensionStat struct {
	Files int   `json:"files"`
	Lines int   `json:"lines"`
	Bytes int64 `json:"bytes"`
}

// TreeStats holds snapshot statistics for the final tree. They are always
// recomputed against the target ref, never folded incrementally.
type TreeStats struct {
	TotalFiles int                       `json:"totalFiles"`
	TotalLines int                       `json:"totalLines"`
	TotalBytes int64                     `json:"totalBytes"`
	Extensions map[string]*ExtensionStat `json:"extensions"`
}

// ReportData is the full input contract of the report emitter: the folded
// snapshot plus all per-run derived metrics.
type ReportData struct {
	RepoPath    string             `json:"repoPath"`
	Ref         string             `json:"ref"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Snapshot    *AggregateSnapshot `json:"snapshot"`

	// DailySeries is the resolved running by-day series, replayed from
	// Snapshot.DayDeltas in ascending day order.
	DailySeries []DailyPoint `json:"dailySeries"`

	// TimezoneHistogram buckets commits by author UTC offset in minutes.
	TimezoneHistogram map[int]int `json:"timezoneHistogram"`

	Tags []TagMilestone `json:"tags"`
	Tree *TreeStats     `json:"tree"`
}
