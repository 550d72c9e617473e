package engine

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/hinohi/ahc001/internal/model"
)

// RestartSeed is the seed used by restart k of a run seeded with base.
func RestartSeed(base uint64, k int) uint64 {
	return base + uint64(k)*0x9e3779b97f4a7c15
}

// RunRestarts runs n independent annealers on the same problem with seeds
// derived from opts.Seed and returns the best result. Ties go to the lower
// restart index, so the winner does not depend on scheduling. workers <= 0
// uses GOMAXPROCS. The second return value holds every restart's result in
// restart order.
func RunRestarts(problem *model.Problem, params model.Params, opts Options, n, workers int) (model.OptimizeResult, []model.OptimizeResult, error) {
	if n < 1 {
		n = 1
	}
	// Validate once up front so that no worker starts on bad input.
	if _, err := New(problem, params, opts); err != nil {
		return model.OptimizeResult{}, nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	results := make([]model.OptimizeResult, n)
	jobs := make(chan int, n)
	for k := 0; k < n; k++ {
		jobs <- k
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				o := opts
				o.Seed = RestartSeed(opts.Seed, k)
				o.Logger = logger.With(slog.Int("restart", k))
				a, err := New(problem, params, o)
				if err != nil {
					// Unreachable after the up-front validation.
					continue
				}
				results[k] = a.Run()
			}
		}()
	}
	wg.Wait()

	best := 0
	for k := 1; k < n; k++ {
		if results[k].TotalScore > results[best].TotalScore {
			best = k
		}
	}
	logger.Info("restarts done",
		slog.Int("restarts", n),
		slog.Int("workers", workers),
		slog.Int("winner", best),
		slog.Float64("best", results[best].TotalScore))
	return results[best], results, nil
}
