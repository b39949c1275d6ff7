package parallel

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/msalah0e/scentnet/internal/logging"
)

// Result holds the outcome of a parallel task.
type Result struct {
	Name    string
	OK      bool
	Err     error
	Elapsed time.Duration
}

// Task is a function that runs in parallel.
type Task struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Run executes tasks in parallel with the given concurrency limit and
// returns results in the order tasks were submitted. A failing task does
// not stop the others; cancelling ctx does.
func Run(ctx context.Context, tasks []Task, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 4
	}
	log := logging.With("parallel")

	results := make([]Result, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, task := range tasks {
		g.Go(func() error {
			start := time.Now()
			if err := gctx.Err(); err != nil {
				results[i] = Result{Name: task.Name, Err: err}
				return nil
			}

			err := task.Fn(gctx)
			elapsed := time.Since(start)
			results[i] = Result{Name: task.Name, OK: err == nil, Err: err, Elapsed: elapsed}

			ev := log.Debug()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			ev.Str("task", task.Name).Dur("elapsed", elapsed).Msg("task finished")

			return nil // never fail the group, collect results instead
		})
	}

	_ = g.Wait()
	return results
}

// Failed returns the results that did not succeed.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}
