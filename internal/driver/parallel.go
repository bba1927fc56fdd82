package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Outcome pairs a request index with its result or error.
type Outcome struct {
	Index  int
	Result *Result
	Err    error
}

// CheckAll runs reqs with at most jobs checks in flight and returns one
// outcome per request, in request order. Per-request failures are recorded
// in the outcome; only cancellation aborts the batch. onDone, when set, is
// called from the worker goroutines as each check finishes.
func (s *Session) CheckAll(ctx context.Context, reqs []Request, jobs int, onDone func(Outcome)) ([]Outcome, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// индексы уникальны для каждой горутины, мьютекс не нужен
	outcomes := make([]Outcome, len(reqs))
	if len(reqs) == 0 {
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(reqs)))

	for i, req := range reqs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res, err := s.Check(gctx, req)
			outcomes[i] = Outcome{Index: i, Result: res, Err: err}
			if onDone != nil {
				onDone(outcomes[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}
