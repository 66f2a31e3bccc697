package execution

import (
	"context"
	"sync"
	"testing"
	"time"

	"cts/internal/config"
	"cts/internal/domain"
	"cts/internal/progress"
)

// stubRunner produces instant results without running processes
type stubRunner struct {
	fail map[int]bool
}

func (r *stubRunner) Run(ctx context.Context, testNumber int) domain.ResultRecord {
	return domain.NewComparisonResult(testNumber, !r.fail[testNumber], "in", "exp", "act", 0.01, 1.0)
}

func drainEvents(events <-chan Event) <-chan []Event {
	collected := make(chan []Event, 1)
	go func() {
		var all []Event
		for ev := range events {
			all = append(all, ev)
		}
		collected <- all
	}()
	return collected
}

func poolConfig(workers int) *config.Config {
	cfg := config.New()
	cfg.Workers = workers
	return cfg
}

func TestPool_ExecuteReturnsAllResultsInOrder(t *testing.T) {
	events := make(chan Event, 256)
	collected := drainEvents(events)

	pool := NewPool(poolConfig(3), &stubRunner{})
	results, _ := pool.Execute(context.Background(), 10, events)

	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	for i, r := range results {
		if r.TestNumber != i+1 {
			t.Errorf("result %d has test number %d", i, r.TestNumber)
		}
	}

	all := <-collected
	if all[0].kind != eventTestsStarted || all[0].total != 10 {
		t.Errorf("expected testsStarted first, got %+v", all[0])
	}
	if all[len(all)-1].kind != eventAllCompleted {
		t.Errorf("expected allCompleted last, got %+v", all[len(all)-1])
	}

	counts := map[eventKind]int{}
	for _, ev := range all {
		counts[ev.kind]++
	}
	if counts[eventWorkerBusy] != 10 || counts[eventTestResult] != 10 || counts[eventWorkerIdle] != 10 {
		t.Errorf("unexpected event counts: %v", counts)
	}
}

func TestPool_BusyPrecedesResultPerWorker(t *testing.T) {
	events := make(chan Event, 256)
	collected := drainEvents(events)

	pool := NewPool(poolConfig(2), &stubRunner{})
	pool.Execute(context.Background(), 6, events)

	// per worker, every result must follow a busy for the same test
	pending := map[int]int{} // workerID -> test it is busy on
	byTest := map[int]int{}  // testNumber -> workerID that announced it
	for _, ev := range <-collected {
		switch ev.kind {
		case eventWorkerBusy:
			pending[ev.workerID] = ev.testNumber
			byTest[ev.testNumber] = ev.workerID
		case eventTestResult:
			workerID, ok := byTest[ev.result.TestNumber]
			if !ok {
				t.Fatalf("result for test %d without prior busy", ev.result.TestNumber)
			}
			if pending[workerID] != ev.result.TestNumber {
				t.Fatalf("worker %d reported test %d while busy on %d",
					workerID, ev.result.TestNumber, pending[workerID])
			}
		}
	}
}

func TestPool_FailFastStopsEarly(t *testing.T) {
	events := make(chan Event, 256)
	collected := drainEvents(events)

	pool := NewPool(poolConfig(1), &stubRunner{fail: map[int]bool{1: true}})
	results, _ := pool.ExecuteWithOptions(context.Background(), 20, true, events)

	if len(results) != 1 {
		t.Fatalf("expected 1 result before stop, got %d", len(results))
	}
	if results[0].Passed {
		t.Error("expected the first result to be a failure")
	}
	<-collected
}

func TestPool_ZeroTestsClosesEvents(t *testing.T) {
	events := make(chan Event, 1)
	pool := NewPool(poolConfig(2), &stubRunner{})
	results, _ := pool.Execute(context.Background(), 0, events)

	if results != nil {
		t.Errorf("expected no results, got %v", results)
	}
	if _, ok := <-events; ok {
		t.Error("expected events channel closed without events")
	}
}

// nopSink satisfies progress.Sink for wiring tests
type nopSink struct {
	mu        sync.Mutex
	completes int
}

func (s *nopSink) ResetDisplay(total int)             {}
func (s *nopSink) PushStatistics(snap progress.Snapshot) {}
func (s *nopSink) PushWorkerStatus(workerID, testNumber int, p float64, e time.Duration, stage string) {
}
func (s *nopSink) AppendResult(r domain.ResultRecord) {}
func (s *nopSink) MarkComplete() {
	s.mu.Lock()
	s.completes++
	s.mu.Unlock()
}

func TestLoop_DrivesCoordinatorThroughFullRun(t *testing.T) {
	sink := &nopSink{}
	coord := progress.NewCoordinator(domain.KindComparison, sink, progress.Options{})
	events := make(chan Event, 256)
	loop := NewLoop(coord, events, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		loop.Run()
		close(done)
	}()

	pool := NewPool(poolConfig(4), &stubRunner{fail: map[int]bool{3: true}})
	results, _ := pool.Execute(context.Background(), 8, events)
	<-done

	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	snap := coord.Snapshot()
	if snap.Completed != 8 || snap.Passed != 7 || snap.Failed != 1 {
		t.Errorf("unexpected final statistics: %+v", snap)
	}
	if snap.ProgressPct != 100.0 {
		t.Errorf("expected 100%% progress, got %.2f", snap.ProgressPct)
	}
	if coord.Running() {
		t.Error("expected run complete")
	}
	if sink.completes != 1 {
		t.Errorf("expected one completion signal, got %d", sink.completes)
	}
}
