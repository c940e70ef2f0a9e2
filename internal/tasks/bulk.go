package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/progress"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
)

// BulkOpts configures [Engine.ApplyBulk].
type BulkOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

// BulkItemResult is the outcome for one id.
type BulkItemResult struct {
	ID     string
	Record models.ProgressRecord
	Error  error
}

// BulkResult summarizes a bulk update. Results are in input order.
type BulkResult struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []BulkItemResult
}

type bulkJob struct {
	index  int
	id     string
	record models.ProgressRecord
}

// ApplyBulk merges partial into the current record of every id and writes the results.
//
// Current records are fetched once up front; ids without one start from the default record.
// Duplicate and blank ids are dropped. A failed write is recorded in the result and does
// not stop the remaining ids.
func (e *Engine) ApplyBulk(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	partial progress.Partial,
	opts BulkOpts,
) (*BulkResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: api client not initialized", shared.ErrServiceUnavailable)
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no ids given", shared.ErrMissingArgument)
	}
	if partial.Status == nil && partial.Percent == nil {
		return nil, fmt.Errorf("%w: nothing to apply", shared.ErrInvalidInput)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	e.sendProgress(prog, fetchProgressUpdate(0, len(ids)))
	current, err := e.api.ListProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}

	result := &BulkResult{Total: len(ids), Results: make([]BulkItemResult, len(ids))}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan bulkJob, len(ids))
	results := make(chan bulkJob, len(ids))
	failures := make(chan bulkFailure, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.applyWorker(ctx, &wg, jobs, results, failures)
	}

	go func() {
		defer close(jobs)
		now := e.now()
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				for j := i; j < len(ids); j++ {
					failures <- bulkFailure{index: j, id: ids[j], err: err}
				}
				return
			}
			jobs <- bulkJob{index: i, id: id, record: progress.Merge(progress.Lookup(current, id), partial, now)}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
		close(failures)
	}()

	completed := 0
	for results != nil || failures != nil {
		select {
		case job, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			completed++
			result.Succeeded++
			result.Results[job.index] = BulkItemResult{ID: job.id, Record: job.record}
			e.sendProgress(prog, appliedUpdate(completed, len(ids), job.id, job.record))
		case f, ok := <-failures:
			if !ok {
				failures = nil
				continue
			}
			completed++
			result.Failed++
			result.Results[f.index] = BulkItemResult{ID: f.id, Error: f.err}
			e.sendProgress(prog, applyFailedUpdate(completed, len(ids), f.id, f.err))
			e.logger.Warn("bulk update failed", "id", f.id, "error", f.err)
		}
	}

	e.logger.Info("bulk update finished", "total", result.Total, "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

type bulkFailure struct {
	index int
	id    string
	err   error
}

// applyWorker writes merged records from the jobs channel.
func (e *Engine) applyWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan bulkJob,
	results chan<- bulkJob,
	failures chan<- bulkFailure,
) {
	defer wg.Done()

	for job := range jobs {
		if err := ctx.Err(); err != nil {
			failures <- bulkFailure{index: job.index, id: job.id, err: err}
			continue
		}
		if err := e.api.PutProgress(ctx, job.id, job.record); err != nil {
			failures <- bulkFailure{index: job.index, id: job.id, err: err}
			continue
		}
		results <- job
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
