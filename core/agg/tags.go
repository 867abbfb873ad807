package agg

import (
	"time"

	"github.com/statscope/statscope/internal/gitlog"
	"github.com/statscope/statscope/schema"
)

// ChurnFunc reports the line churn between two commits, typically backed
// by a numstat diff. Implementations degrade to zeros on failure.
type ChurnFunc func(baseCommit, targetCommit string) (added, removed int)

// ComputeTagMilestones walks tags in creation order (ties broken by name,
// already applied by the resolver) and counts, per tag, the commits
// reachable from its target but not from any earlier tag's target.
//
// A per-pass visited set bounds each traversal, and a persistent
// already-counted set carries the union of all earlier tags' reachable
// commits between passes. The counted set is ancestor-closed, so frontier
// expansion stops at counted commits without missing anything, which keeps
// total traversal work bounded by the graph size instead of
// tags x history.
func ComputeTagMilestones(tags []schema.Tag, graph *gitlog.CommitGraph, churn ChurnFunc) []schema.TagMilestone {
	counted := make(map[string]bool, len(graph.Parents))
	milestones := make([]schema.TagMilestone, 0, len(tags))

	var prev *schema.Tag
	for i := range tags {
		tag := &tags[i]
		milestone := schema.TagMilestone{
			Name:    tag.Name,
			Date:    tag.Date,
			Authors: make(map[string]int),
		}

		visited := make(map[string]bool)
		stack := []string{tag.Target}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if id == "" || visited[id] || counted[id] {
				continue
			}
			visited[id] = true

			parents, known := graph.Parents[id]
			if !known {
				continue // Target outside the resolved graph
			}

			milestone.Commits++
			if author := graph.Authors[id]; author != "" {
				milestone.Authors[author]++
			}
			stack = append(stack, parents...)
		}

		// The full reachable set of this tag becomes the baseline
		// subtracted from the next tag's pass.
		for id := range visited {
			counted[id] = true
		}

		milestone.DaysSincePrevious = daysBetweenTags(prev, tag)
		if prev != nil && churn != nil {
			milestone.LinesAdded, milestone.LinesRemoved = churn(prev.Target, tag.Target)
		}

		milestones = append(milestones, milestone)
		prev = tag
	}

	return milestones
}

// daysBetweenTags returns the calendar-day delta between a tag and its
// chronological predecessor, clamped at zero. Nil without a predecessor or
// when either creation date is missing.
func daysBetweenTags(prev, cur *schema.Tag) *int {
	if prev == nil || prev.Date == nil || cur.Date == nil {
		return nil
	}

	prevDay := prev.Date.UTC().Truncate(24 * time.Hour)
	curDay := cur.Date.UTC().Truncate(24 * time.Hour)
	days := max(0, int(curDay.Sub(prevDay).Hours()/24))
	return &days
}
