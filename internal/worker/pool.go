// Package worker runs bounded batches of independent jobs, used to fan out
// enrichment calls without flooding the model server.
package worker

import (
	"context"
	"sync"
)

// Job produces one output. Jobs must not depend on each other.
type Job[T any] func(ctx context.Context) T

// Map runs every job with at most parallel goroutines and returns the
// outputs in job order. When the context is canceled, unstarted jobs are
// skipped and their slots keep the zero value; jobs already running finish.
func Map[T any](ctx context.Context, parallel int, jobs []Job[T]) []T {
	if parallel < 1 {
		parallel = 1
	}

	out := make([]T, len(jobs))
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup

	for i, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, job Job[T]) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = job(ctx)
		}(i, job)
	}

	wg.Wait()
	return out
}
