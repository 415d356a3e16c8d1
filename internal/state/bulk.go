package state

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runBulk calls fn for every id with at most limit calls in flight (zero
// means no limit) and returns when all have settled. With limit 1 the calls
// run one at a time in the order given. fn reports its own failures, so one
// failing call never cancels the others.
func runBulk(ctx context.Context, ids []int, limit int, fn func(context.Context, int)) {
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, id := range ids {
		g.Go(func() error {
			fn(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
}
