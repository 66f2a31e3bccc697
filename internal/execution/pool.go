package execution

import (
	"context"
	"sort"
	"sync"
	"time"

	"cts/internal/config"
	"cts/internal/domain"
)

// Pool fans tests out to parallel workers. Each worker reports its
// lifecycle (busy, result, idle) on the events channel; the pool emits
// the run boundaries around them and closes the channel when done.
type Pool struct {
	cfg    *config.Config
	runner TestRunner
}

// NewPool creates a new Pool
func NewPool(cfg *config.Config, runner TestRunner) *Pool {
	return &Pool{cfg: cfg, runner: runner}
}

// Execute runs tests 1..total in parallel (no fail-fast)
func (p *Pool) Execute(ctx context.Context, total int, events chan<- Event) ([]domain.ResultRecord, time.Duration) {
	return p.ExecuteWithOptions(ctx, total, false, events)
}

// ExecuteWithOptions runs tests with optional fail-fast (cancel remaining
// tests after the first failure)
func (p *Pool) ExecuteWithOptions(ctx context.Context, total int, failFast bool, events chan<- Event) ([]domain.ResultRecord, time.Duration) {
	defer close(events)
	if total <= 0 {
		return nil, 0
	}

	workerCount := p.cfg.Workers
	if workerCount <= 0 {
		workerCount = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan int, total)
	results := make(chan domain.ResultRecord, total)
	for n := 1; n <= total; n++ {
		queue <- n
	}
	close(queue)

	startTime := time.Now()
	events <- testsStarted(total, workerCount)

	var mu sync.Mutex
	var seenFailure bool

	var wg sync.WaitGroup
	for i := 1; i <= workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for testNumber := range queue {
				if ctx.Err() != nil {
					return
				}
				mu.Lock()
				stopped := failFast && seenFailure
				mu.Unlock()
				if stopped {
					continue
				}

				events <- workerBusy(workerID, testNumber)
				result := p.runner.Run(ctx, testNumber)
				results <- result
				events <- testResult(result)
				events <- workerIdle(workerID)

				if failFast && !result.Passed {
					mu.Lock()
					seenFailure = true
					mu.Unlock()
					cancel()
				}
			}
		}(i)
	}

	wg.Wait()
	close(results)

	var all []domain.ResultRecord
	for result := range results {
		all = append(all, result)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TestNumber < all[j].TestNumber })

	events <- allCompleted()
	return all, time.Since(startTime)
}
