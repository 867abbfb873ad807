package agg

import (
	"sort"

	"github.com/statscope/statscope/schema"
)

// ResolveDailySeries replays the snapshot's per-day deltas in ascending
// day order to build the running by-day series. Replay order is explicit
// because parallel folding completes chunks out of day order, and because
// incremental runs can append deltas on days older than ones already
// recorded.
//
// The running LOC value is clamped at zero so malformed partial history
// can never drive the series negative; the distinct-file count only ever
// grows, since first-seen days are resolved earliest-wins before this
// pass runs.
func ResolveDailySeries(snap *schema.AggregateSnapshot) []schema.DailyPoint {
	days := make([]string, 0, len(snap.DayDeltas))
	for day := range snap.DayDeltas {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]schema.DailyPoint, 0, len(days))
	runningLines := 0
	runningFiles := 0
	for _, day := range days {
		delta := snap.DayDeltas[day]
		runningLines = max(0, runningLines+delta.NetLines)
		runningFiles += delta.NewFiles
		series = append(series, schema.DailyPoint{
			Day:        day,
			NetLines:   runningLines,
			TotalFiles: runningFiles,
		})
	}
	return series
}
