package downloader

import (
	"context"
	"time"

	"github.com/brogergvhs/mangagrab/internal/chapters"
	"golang.org/x/sync/errgroup"
)

// runRound attempts every unit once and returns when all have settled.
// Outcomes keep the order of units. onOutcome may be called from several
// goroutines when workers > 1.
func runRound(
	ctx context.Context,
	att Attempter,
	units []chapters.Unit,
	timeout time.Duration,
	workers int,
	onOutcome func(Outcome),
) []Outcome {
	out := make([]Outcome, len(units))

	var g errgroup.Group
	g.SetLimit(max(1, workers))

	for i, u := range units {
		g.Go(func() error {
			out[i] = att.Download(ctx, u, timeout)
			if onOutcome != nil {
				onOutcome(out[i])
			}
			return nil
		})
	}

	_ = g.Wait()

	return out
}
