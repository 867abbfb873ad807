package core

import (
	"context"
	"fmt"
	"time"

	"github.com/statscope/statscope/core/agg"
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/internal/gitlog"
	"github.com/statscope/statscope/schema"
)

// Deps wires the collaborators of a stats run. Only Client is mandatory;
// nil stores disable the corresponding behavior.
type Deps struct {
	Client   contract.GitClient
	Cache    contract.SnapshotCache
	Projects contract.ProjectStore
	Objects  *ObjectReader
	Progress gitlog.ProgressFunc
}

// GenerateStats runs one full stats generation for the configured
// repository and target ref:
//
//  1. Decide full vs incremental scan from the cached snapshot and the
//     project record's remembered boundary.
//  2. Request, parse and fold the history stream.
//  3. Recompute the per-run derived metrics (timezone histogram, tag
//     milestones, tree snapshot stats), each degrading to empty on
//     failure.
//  4. Persist the new snapshot and boundary, neither fatally.
//
// Only a failed primary log query aborts the run; on cancellation nothing
// is saved and the previous snapshot stays the last known good state.
func GenerateStats(ctx context.Context, cfg *contract.Config, deps *Deps) (*schema.ReportData, error) {
	project := loadProject(cfg, deps.Projects)

	if deps.Projects != nil {
		if err := deps.Projects.SetGeneratingStats(cfg.RepoPath, true); err != nil {
			contract.LogWarn("could not mark project busy", err)
		}
		defer func() {
			if err := deps.Projects.SetGeneratingStats(cfg.RepoPath, false); err != nil {
				contract.LogWarn("could not clear project busy flag", err)
			}
		}()
	}

	// --- 1. Scan mode decision ---
	var prior *schema.AggregateSnapshot
	if deps.Cache != nil {
		prior = deps.Cache.Load()
	}
	afterCommit := incrementalBoundary(prior, project)

	// --- 2. Primary history query; failure here is fatal to the run ---
	out, err := deps.Client.HistoryLog(ctx, cfg.RepoPath, cfg.Ref, afterCommit)
	if err != nil {
		return nil, fmt.Errorf("history query for %q failed: %w", cfg.Ref, err)
	}
	commits := gitlog.ParseHistory(out, deps.Progress)

	seed := prior
	if afterCommit == "" || seed == nil {
		seed = schema.NewAggregateSnapshot()
	}
	snap := agg.FoldCommits(commits, seed, cfg.Workers)

	if err := ctx.Err(); err != nil {
		return nil, err // Cancelled: keep the previous snapshot as-is
	}

	// --- 3. Derived metrics, recomputed over the full in-scope set ---
	data := &schema.ReportData{
		RepoPath:          cfg.RepoPath,
		Ref:               cfg.Ref,
		GeneratedAt:       time.Now().UTC(),
		Snapshot:          snap,
		DailySeries:       agg.ResolveDailySeries(snap),
		TimezoneHistogram: timezoneHistogram(ctx, cfg, deps.Client),
		Tags:              tagMilestones(ctx, cfg, deps.Client),
		Tree:              treeStats(ctx, cfg, deps),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- 4. Persistence; neither failure blocks returning the result ---
	if deps.Cache != nil {
		if err := deps.Cache.Save(snap); err != nil {
			contract.LogWarn("could not save stats cache", err)
		}
	}
	if deps.Projects != nil && snap.LastProcessedCommit != "" {
		if err := deps.Projects.SetLastProcessedCommit(cfg.RepoPath, snap.LastProcessedCommit); err != nil {
			contract.LogWarn("could not record incremental boundary", err)
		}
	}

	return data, nil
}

// loadProject fetches (or creates) the bookkeeping record; an unavailable
// store degrades to an empty record, which disables incremental scans.
func loadProject(cfg *contract.Config, projects contract.ProjectStore) schema.ProjectRecord {
	if projects == nil {
		return schema.ProjectRecord{RepoPath: cfg.RepoPath, StatsDirectory: cfg.StatsDir}
	}
	project, err := projects.EnsureProject(cfg.RepoPath, cfg.StatsDir)
	if err != nil {
		contract.LogWarn("project store unavailable, forcing full scan", err)
		return schema.ProjectRecord{RepoPath: cfg.RepoPath, StatsDirectory: cfg.StatsDir}
	}
	return project
}

// incrementalBoundary returns the commit to resume after, or "" for a full
// scan. Incremental mode needs a capability-complete snapshot whose last
// folded commit equals the remembered head; the check is equality only,
// so a rewritten history (rebase, force-push) requires deleting the cache
// to force a full rebuild.
func incrementalBoundary(prior *schema.AggregateSnapshot, project schema.ProjectRecord) string {
	if prior == nil || !prior.HasLineBreakdown {
		return ""
	}
	if prior.LastProcessedCommit == "" || prior.LastProcessedCommit != project.LastProcessedCommitID {
		return ""
	}
	return prior.LastProcessedCommit
}

// timezoneHistogram buckets every in-scope commit by author UTC offset.
func timezoneHistogram(ctx context.Context, cfg *contract.Config, client contract.GitClient) map[int]int {
	out, err := client.AuthorTimezones(ctx, cfg.RepoPath, cfg.Ref)
	if err != nil {
		contract.LogWarn("timezone query failed, reporting empty histogram", err)
		return map[int]int{}
	}
	return gitlog.ParseTimezoneHistogram(out)
}

// tagMilestones resolves tags and computes exclusive contribution ranges
// over the commit DAG. Any failure degrades to empty metrics.
func tagMilestones(ctx context.Context, cfg *contract.Config, client contract.GitClient) []schema.TagMilestone {
	tags, err := client.ListTags(ctx, cfg.RepoPath)
	if err != nil {
		contract.LogWarn("tag listing failed, reporting no milestones", err)
		return nil
	}
	if len(tags) == 0 {
		return nil
	}

	tips := make([]string, 0, len(tags))
	for _, tag := range tags {
		tips = append(tips, tag.Target)
	}
	out, err := client.CommitGraph(ctx, cfg.RepoPath, tips)
	if err != nil {
		contract.LogWarn("commit graph query failed, reporting no milestones", err)
		return nil
	}
	graph := gitlog.ParseCommitGraph(out)

	churn := func(baseCommit, targetCommit string) (int, int) {
		diff, err := client.DiffNumstat(ctx, cfg.RepoPath, baseCommit, targetCommit)
		if err != nil {
			return 0, 0
		}
		return gitlog.ParseNumstatTotals(diff)
	}
	return agg.ComputeTagMilestones(tags, graph, churn)
}

// treeStats recomputes snapshot statistics against the final tree.
func treeStats(ctx context.Context, cfg *contract.Config, deps *Deps) *schema.TreeStats {
	reader := deps.Objects
	if reader == nil {
		reader = NewObjectReader(deps.Client)
	}
	stats, err := reader.TreeStats(ctx, cfg.RepoPath, cfg.Ref)
	if err != nil {
		contract.LogWarn("tree stats failed, reporting zero counts", err)
		return &schema.TreeStats{Extensions: map[string]*schema.ExtensionStat{}}
	}
	return stats
}
