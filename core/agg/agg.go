// Package agg is the stateful aggregation engine: it folds commit streams
// into running aggregates, merges independently computed partials, and
// derives the per-run metrics.
package agg

import (
	"time"

	"github.com/statscope/statscope/schema"
)

// Accumulator folds commits into a running AggregateSnapshot. It is not
// safe for concurrent use; parallel folds give each worker its own
// empty-seeded Accumulator and merge afterwards.
type Accumulator struct {
	Snap *schema.AggregateSnapshot

	// firstSeen tracks the earliest day each path touched for the first
	// time during this run was seen. Paths present in the seed snapshot
	// never enter this map; Finalize converts it into day deltas.
	firstSeen map[string]string
}

// NewAccumulator returns an empty-seeded accumulator.
func NewAccumulator() *Accumulator {
	return NewSeededAccumulator(schema.NewAggregateSnapshot())
}

// NewSeededAccumulator returns an accumulator that continues folding on
// top of a prior snapshot. The seed is mutated in place.
func NewSeededAccumulator(seed *schema.AggregateSnapshot) *Accumulator {
	return &Accumulator{
		Snap:      seed,
		firstSeen: make(map[string]string),
	}
}

// FoldCommit updates all running aggregates with one commit. Records are
// folded in stream order; the last hash folded becomes the resume point.
func (a *Accumulator) FoldCommit(c *schema.Commit) {
	rec := &c.Record
	day := rec.Day()

	var added, removed int
	for _, change := range c.FileChanges {
		added += change.LinesAdded
		removed += change.LinesRemoved
		a.foldFileChange(&change, day)
	}

	a.foldAuthor(rec, added, removed)

	snap := a.Snap
	snap.TotalCommits++
	snap.TotalLinesAdded += added
	snap.TotalLinesRemoved += removed
	snap.LastProcessedCommit = rec.Hash

	// Per-day and per-period deltas are batched here and replayed in day
	// order by the resolution pass, never written as running values.
	delta := a.dayDelta(day)
	delta.NetLines += added - removed

	utc := rec.AuthorDate.UTC()
	a.lineBreakdown(snap.YearLines, utc.Format(schema.YearFormat)).Add(added, removed)
	a.lineBreakdown(snap.YearMonthLines, utc.Format(schema.YearMonthFormat)).Add(added, removed)
}

// foldAuthor applies create-on-first-touch then accumulate/min-max.
func (a *Accumulator) foldAuthor(rec *schema.CommitRecord, added, removed int) {
	key := rec.AuthorKey()
	author, ok := a.Snap.Authors[key]
	if !ok {
		author = &schema.AuthorAggregate{}
		a.Snap.Authors[key] = author
	}

	author.Commits++
	author.LinesAdded += added
	author.LinesRemoved += removed

	date := rec.AuthorDate.UTC()
	if author.FirstCommit.IsZero() || date.Before(author.FirstCommit) {
		author.FirstCommit = date
	}
	if author.LastCommit.IsZero() || date.After(author.LastCommit) {
		author.LastCommit = date
	}
}

func (a *Accumulator) foldFileChange(change *schema.FileChange, day string) {
	file, ok := a.Snap.Files[change.Path]
	if !ok {
		file = &schema.FileAggregate{}
		a.Snap.Files[change.Path] = file
		a.firstSeen[change.Path] = day
	} else if seen, tracked := a.firstSeen[change.Path]; tracked && day < seen {
		a.firstSeen[change.Path] = day
	}

	file.Commits++
	file.LinesAdded += change.LinesAdded
	file.LinesRemoved += change.LinesRemoved
}

func (a *Accumulator) dayDelta(day string) *schema.DayDelta {
	delta, ok := a.Snap.DayDeltas[day]
	if !ok {
		delta = &schema.DayDelta{}
		a.Snap.DayDeltas[day] = delta
	}
	return delta
}

func (a *Accumulator) lineBreakdown(m map[string]*schema.LineBreakdown, key string) *schema.LineBreakdown {
	b, ok := m[key]
	if !ok {
		b = &schema.LineBreakdown{}
		m[key] = b
	}
	return b
}

// Merge folds an independently computed partial into this accumulator.
// Counts sum, dates min/max, first-seen days resolve earliest-wins. Merges
// are associative, so any contiguous partitioning merged in partition
// order matches the sequential fold.
func (a *Accumulator) Merge(part *Accumulator) {
	// First-seen days must be reconciled before the file maps merge, so
	// paths already known to this side (including seeded ones) can be
	// told apart from paths the partial saw first.
	for path, day := range part.firstSeen {
		if seen, tracked := a.firstSeen[path]; tracked {
			if day < seen {
				a.firstSeen[path] = day
			}
		} else if _, known := a.Snap.Files[path]; !known {
			a.firstSeen[path] = day
		}
	}

	src := part.Snap
	snap := a.Snap
	snap.TotalCommits += src.TotalCommits
	snap.TotalLinesAdded += src.TotalLinesAdded
	snap.TotalLinesRemoved += src.TotalLinesRemoved
	if src.LastProcessedCommit != "" {
		snap.LastProcessedCommit = src.LastProcessedCommit
	}

	for key, author := range src.Authors {
		dst, ok := snap.Authors[key]
		if !ok {
			snap.Authors[key] = author
			continue
		}
		dst.Commits += author.Commits
		dst.LinesAdded += author.LinesAdded
		dst.LinesRemoved += author.LinesRemoved
		if !author.FirstCommit.IsZero() && (dst.FirstCommit.IsZero() || author.FirstCommit.Before(dst.FirstCommit)) {
			dst.FirstCommit = author.FirstCommit
		}
		if author.LastCommit.After(dst.LastCommit) {
			dst.LastCommit = author.LastCommit
		}
	}

	for path, file := range src.Files {
		dst, ok := snap.Files[path]
		if !ok {
			snap.Files[path] = file
			continue
		}
		dst.Commits += file.Commits
		dst.LinesAdded += file.LinesAdded
		dst.LinesRemoved += file.LinesRemoved
	}

	for day, delta := range src.DayDeltas {
		a.dayDelta(day).NetLines += delta.NetLines
		a.dayDelta(day).NewFiles += delta.NewFiles
	}
	for key, b := range src.YearLines {
		a.lineBreakdown(snap.YearLines, key).Add(b.Added, b.Removed)
	}
	for key, b := range src.YearMonthLines {
		a.lineBreakdown(snap.YearMonthLines, key).Add(b.Added, b.Removed)
	}
}

// Finalize converts tracked first-seen days into day deltas and stamps the
// snapshot. Call exactly once, after all folding and merging is done.
func (a *Accumulator) Finalize() *schema.AggregateSnapshot {
	for _, day := range a.firstSeen {
		a.dayDelta(day).NewFiles++
	}
	a.firstSeen = make(map[string]string)

	a.Snap.GeneratedAt = time.Now().UTC()
	a.Snap.HasLineBreakdown = true
	return a.Snap
}
