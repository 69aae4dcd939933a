package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/san-kum/lifesim/internal/world"
)

// Builder creates a populated world for one seed.
type Builder func(seed int64) (*world.World, error)

// Ensemble runs independent worlds for consecutive seeds, one goroutine
// each, with at most Parallelism worlds stepping at once.
type Ensemble struct {
	build       Builder
	metrics     func() []Metric
	numRuns     int
	seedStart   int64
	parallelism int64
}

// NewEnsemble takes a metrics factory so every run owns its own metric state.
func NewEnsemble(build Builder, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		build:       build,
		metrics:     metrics,
		numRuns:     numRuns,
		seedStart:   seedStart,
		parallelism: int64(runtime.GOMAXPROCS(0)),
	}
}

// SetParallelism caps concurrently running worlds; n < 1 means one.
func (e *Ensemble) SetParallelism(n int) *Ensemble {
	e.parallelism = int64(max(n, 1))
	return e
}

func (e *Ensemble) Run(ctx context.Context, ticks int) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("runs must be positive, got %d", e.numRuns)
	}
	if last := e.seedStart + int64(e.numRuns-1); e.seedStart <= 0 && last >= 0 {
		return nil, fmt.Errorf("seed range %d..%d includes 0, which selects a clock seed", e.seedStart, last)
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	sem := semaphore.NewWeighted(e.parallelism)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			if err := sem.Acquire(ctx, 1); err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, err)
				return
			}
			defer sem.Release(1)

			w, err := e.build(seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, err)
				return
			}

			s := New(w)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], err = s.Run(ctx, ticks)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, err)
			}
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
