package robustness

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dbrobust/txn-robust-check/internal/model"
)

// foundWitness pairs a witness with its quad's canonical rank, so the
// lowest-rank witness across all shards can be selected once every shard
// has finished.
type foundWitness struct {
	rank    int
	witness *Witness
}

// isRobustParallel shards quads round-robin across options.Workers
// goroutines via errgroup. Each shard searches its quads in ascending rank
// order and stops at its own first hit; once every shard has finished, the
// lowest-rank hit across shards is the lexicographically-first witness.
// This is a full barrier, not true short-circuiting across goroutines: a
// worker holding a low-rank quad cannot signal others to stop early, so
// wall-clock time is bounded by the slowest shard rather than the position
// of the first witness.
func isRobustParallel(ctx context.Context, quads []quad, templates *model.TemplateSet, allocation *model.Allocation, options Options) (bool, *Witness, error) {
	shards := make([][]quad, options.Workers)
	for i, q := range quads {
		w := i % options.Workers
		shards[w] = append(shards[w], q)
	}

	results := make([]*foundWitness, options.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for wi := range shards {
		wi := wi
		g.Go(func() error {
			for _, q := range shards[wi] {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				found, w, err := searchQuad(q, templates, allocation, options.Logger)
				if err != nil {
					return err
				}
				if found {
					results[wi] = &foundWitness{rank: q.rank, witness: w}
					return nil
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, nil, err
	}

	var best *foundWitness
	for _, r := range results {
		if r == nil {
			continue
		}
		if best == nil || r.rank < best.rank {
			best = r
		}
	}
	if best == nil {
		return true, nil, nil
	}
	return false, best.witness, nil
}
