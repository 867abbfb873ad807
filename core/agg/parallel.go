package agg

import (
	"sync"

	"github.com/statscope/statscope/schema"
)

// minParallelCommits is the input size below which the parallel fold is
// not worth the partition and merge overhead.
const minParallelCommits = 256

// FoldCommits folds a commit list into the seed snapshot, splitting the
// work across up to `workers` goroutines when the input is large enough.
//
// Workers fold static contiguous partitions into independent empty-seeded
// accumulators with the same fold logic as the sequential path; no
// aggregate is ever touched by more than one worker. Partials are merged
// strictly sequentially in partition order after all workers finish, so
// the result is identical to a sequential fold and readers never observe
// a partially merged state. Per-commit fold cost is roughly uniform, so
// static partitioning needs no work stealing.
func FoldCommits(commits []schema.Commit, seed *schema.AggregateSnapshot, workers int) *schema.AggregateSnapshot {
	acc := NewSeededAccumulator(seed)

	if workers > len(commits) {
		workers = len(commits)
	}
	if workers <= 1 || len(commits) < minParallelCommits {
		for i := range commits {
			acc.FoldCommit(&commits[i])
		}
		return acc.Finalize()
	}

	partials := make([]*Accumulator, workers)
	var wg sync.WaitGroup
	for w := range workers {
		start := w * len(commits) / workers
		end := (w + 1) * len(commits) / workers
		partial := NewAccumulator()
		partials[w] = partial
		wg.Go(func() {
			for i := start; i < end; i++ {
				partial.FoldCommit(&commits[i])
			}
		})
	}
	wg.Wait()

	for _, partial := range partials {
		acc.Merge(partial)
	}
	return acc.Finalize()
}
