package agg

import (
	"fmt"
	"testing"
	"time"

	"github.com/statscope/statscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCommit builds a commit with the given hash, author and UTC day.
func testCommit(hash, author, email string, date time.Time, changes ...schema.FileChange) schema.Commit {
	return schema.Commit{
		Record: schema.CommitRecord{
			Hash:        hash,
			AuthorName:  author,
			AuthorEmail: email,
			AuthorDate:  date,
		},
		FileChanges: changes,
	}
}

func change(path string, added, removed int) schema.FileChange {
	return schema.FileChange{Path: path, LinesAdded: added, LinesRemoved: removed}
}

// normalize strips the volatile generation timestamp for comparisons.
func normalize(snap *schema.AggregateSnapshot) *schema.AggregateSnapshot {
	snap.GeneratedAt = time.Time{}
	return snap
}

var (
	day1 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	day3 = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
)

// fixtureCommits is a small history touching two authors and three files
// across three days and two months.
func fixtureCommits() []schema.Commit {
	return []schema.Commit{
		testCommit("c1", "Ada", "ada@example.com", day1,
			change("main.go", 100, 0), change("util.go", 20, 0)),
		testCommit("c2", "Bob", "bob@example.com", day2,
			change("main.go", 10, 5)),
		testCommit("c3", "Ada", "ada@example.com", day3,
			change("docs.md", 30, 0), change("util.go", 0, 15)),
	}
}

func TestFoldCommitTotals(t *testing.T) {
	acc := NewAccumulator()
	commits := fixtureCommits()
	for i := range commits {
		acc.FoldCommit(&commits[i])
	}
	snap := acc.Finalize()

	assert.Equal(t, 3, snap.TotalCommits)
	assert.Equal(t, 160, snap.TotalLinesAdded)
	assert.Equal(t, 20, snap.TotalLinesRemoved)
	assert.Equal(t, "c3", snap.LastProcessedCommit)
	assert.True(t, snap.HasLineBreakdown)

	ada := snap.Authors["Ada <ada@example.com>"]
	require.NotNil(t, ada)
	assert.Equal(t, 2, ada.Commits)
	assert.Equal(t, 150, ada.LinesAdded)
	assert.Equal(t, 15, ada.LinesRemoved)
	assert.Equal(t, day1, ada.FirstCommit)
	assert.Equal(t, day3, ada.LastCommit)

	bob := snap.Authors["Bob <bob@example.com>"]
	require.NotNil(t, bob)
	assert.Equal(t, 1, bob.Commits)
	assert.Equal(t, day2, bob.FirstCommit)
	assert.Equal(t, day2, bob.LastCommit)

	mainFile := snap.Files["main.go"]
	require.NotNil(t, mainFile)
	assert.Equal(t, 2, mainFile.Commits)
	assert.Equal(t, 110, mainFile.LinesAdded)
	assert.Equal(t, 5, mainFile.LinesRemoved)
}

func TestFoldCommitDayDeltasAndBreakdowns(t *testing.T) {
	acc := NewAccumulator()
	commits := fixtureCommits()
	for i := range commits {
		acc.FoldCommit(&commits[i])
	}
	snap := acc.Finalize()

	require.Contains(t, snap.DayDeltas, "2024-01-01")
	assert.Equal(t, 120, snap.DayDeltas["2024-01-01"].NetLines)
	assert.Equal(t, 2, snap.DayDeltas["2024-01-01"].NewFiles)
	assert.Equal(t, 5, snap.DayDeltas["2024-01-02"].NetLines)
	assert.Equal(t, 0, snap.DayDeltas["2024-01-02"].NewFiles)
	assert.Equal(t, 15, snap.DayDeltas["2024-02-01"].NetLines)
	assert.Equal(t, 1, snap.DayDeltas["2024-02-01"].NewFiles)

	assert.Equal(t, &schema.LineBreakdown{Added: 160, Removed: 20}, snap.YearLines["2024"])
	assert.Equal(t, &schema.LineBreakdown{Added: 130, Removed: 5}, snap.YearMonthLines["2024-01"])
	assert.Equal(t, &schema.LineBreakdown{Added: 30, Removed: 15}, snap.YearMonthLines["2024-02"])
}

func TestIncrementalFoldMatchesFullFold(t *testing.T) {
	commits := fixtureCommits()

	// Full fold in one pass.
	full := NewAccumulator()
	for i := range commits {
		full.FoldCommit(&commits[i])
	}
	want := normalize(full.Finalize())

	// Fold a prefix, finalize it as a run would, then resume on top.
	first := NewAccumulator()
	first.FoldCommit(&commits[0])
	seed := first.Finalize()

	resumed := NewSeededAccumulator(seed)
	for i := 1; i < len(commits); i++ {
		resumed.FoldCommit(&commits[i])
	}
	got := normalize(resumed.Finalize())

	assert.Equal(t, want, got)
}

func TestIncrementalFoldLateCommitOnOldDay(t *testing.T) {
	// A commit folded later but authored on an already-recorded day must
	// land in that day's delta, not distort a running value.
	first := NewAccumulator()
	c1 := testCommit("c1", "Ada", "ada@example.com", day2, change("a.go", 50, 0))
	first.FoldCommit(&c1)
	seed := first.Finalize()

	resumed := NewSeededAccumulator(seed)
	late := testCommit("c2", "Bob", "bob@example.com", day1, change("b.go", 10, 0))
	resumed.FoldCommit(&late)
	snap := resumed.Finalize()

	series := ResolveDailySeries(snap)
	require.Len(t, series, 2)
	assert.Equal(t, "2024-01-01", series[0].Day)
	assert.Equal(t, 10, series[0].NetLines)
	assert.Equal(t, 1, series[0].TotalFiles)
	assert.Equal(t, 60, series[1].NetLines)
	assert.Equal(t, 2, series[1].TotalFiles)
}

func TestSeededPathsAreNotNewFiles(t *testing.T) {
	first := NewAccumulator()
	c1 := testCommit("c1", "Ada", "ada@example.com", day1, change("a.go", 5, 0))
	first.FoldCommit(&c1)
	seed := first.Finalize()
	require.Equal(t, 1, seed.DayDeltas["2024-01-01"].NewFiles)

	// Touching a seeded path again must not count it as newly seen.
	resumed := NewSeededAccumulator(seed)
	c2 := testCommit("c2", "Ada", "ada@example.com", day2, change("a.go", 1, 1))
	resumed.FoldCommit(&c2)
	snap := resumed.Finalize()

	assert.Equal(t, 1, snap.DayDeltas["2024-01-01"].NewFiles)
	assert.Equal(t, 0, snap.DayDeltas["2024-01-02"].NewFiles)
}

func TestMergeMatchesSequentialFold(t *testing.T) {
	commits := fixtureCommits()

	sequential := NewAccumulator()
	for i := range commits {
		sequential.FoldCommit(&commits[i])
	}
	want := normalize(sequential.Finalize())

	left := NewAccumulator()
	left.FoldCommit(&commits[0])
	right := NewAccumulator()
	right.FoldCommit(&commits[1])
	right.FoldCommit(&commits[2])

	merged := NewAccumulator()
	merged.Merge(left)
	merged.Merge(right)
	got := normalize(merged.Finalize())

	assert.Equal(t, want, got)
}

func TestMergeFirstSeenEarliestWins(t *testing.T) {
	// The same path enters two partitions; the earlier day must win.
	left := NewAccumulator()
	c1 := testCommit("c1", "Ada", "ada@example.com", day2, change("shared.go", 5, 0))
	left.FoldCommit(&c1)

	right := NewAccumulator()
	c2 := testCommit("c2", "Bob", "bob@example.com", day1, change("shared.go", 3, 0))
	right.FoldCommit(&c2)

	merged := NewAccumulator()
	merged.Merge(left)
	merged.Merge(right)
	snap := merged.Finalize()

	assert.Equal(t, 1, snap.DayDeltas["2024-01-01"].NewFiles)
	assert.Equal(t, 0, snap.DayDeltas["2024-01-02"].NewFiles)
	assert.Equal(t, 2, snap.Files["shared.go"].Commits)
}

func TestResolveDailySeriesClampsAtZero(t *testing.T) {
	snap := schema.NewAggregateSnapshot()
	snap.DayDeltas["2024-01-01"] = &schema.DayDelta{NetLines: -40}
	snap.DayDeltas["2024-01-02"] = &schema.DayDelta{NetLines: 25}

	series := ResolveDailySeries(snap)
	require.Len(t, series, 2)
	assert.Equal(t, 0, series[0].NetLines)
	assert.Equal(t, 25, series[1].NetLines)
}

func TestResolveDailySeriesOrdersDays(t *testing.T) {
	snap := schema.NewAggregateSnapshot()
	snap.DayDeltas["2024-03-01"] = &schema.DayDelta{NetLines: 1}
	snap.DayDeltas["2023-12-31"] = &schema.DayDelta{NetLines: 2}
	snap.DayDeltas["2024-01-15"] = &schema.DayDelta{NetLines: 3}

	series := ResolveDailySeries(snap)
	require.Len(t, series, 3)
	assert.Equal(t, "2023-12-31", series[0].Day)
	assert.Equal(t, "2024-01-15", series[1].Day)
	assert.Equal(t, "2024-03-01", series[2].Day)
	assert.Equal(t, 6, series[2].NetLines)
}

func TestFoldCommitsParallelMatchesSequential(t *testing.T) {
	// Enough commits to clear the parallel threshold, with author and
	// path collisions across partitions.
	var commits []schema.Commit
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 600 {
		author := fmt.Sprintf("author%d", i%7)
		commits = append(commits, testCommit(
			fmt.Sprintf("c%04d", i),
			author, author+"@example.com",
			base.AddDate(0, 0, i%90),
			change(fmt.Sprintf("file%d.go", i%13), i%50, i%11),
		))
	}

	want := normalize(FoldCommits(commits, schema.NewAggregateSnapshot(), 1))

	for _, workers := range []int{2, 4, 16} {
		got := normalize(FoldCommits(commits, schema.NewAggregateSnapshot(), workers))
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestFoldCommitsSmallInputStaysSequential(t *testing.T) {
	commits := fixtureCommits()
	snap := FoldCommits(commits, schema.NewAggregateSnapshot(), 8)
	assert.Equal(t, 3, snap.TotalCommits)
	assert.Equal(t, "c3", snap.LastProcessedCommit)
}

func TestFoldCommitsEmptyInput(t *testing.T) {
	seed := schema.NewAggregateSnapshot()
	seed.TotalCommits = 5
	seed.LastProcessedCommit = "c5"

	snap := FoldCommits(nil, seed, 4)
	assert.Equal(t, 5, snap.TotalCommits)
	assert.Equal(t, "c5", snap.LastProcessedCommit)
	assert.False(t, snap.GeneratedAt.IsZero())
}
