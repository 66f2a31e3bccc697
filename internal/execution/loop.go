package execution

import (
	"time"

	"cts/internal/progress"
)

// Loop serializes pool events and the periodic display tick onto a single
// goroutine, so the coordinator and its sink are never touched
// concurrently. It is the delivery mechanism spoken of by the pool's
// event contract.
type Loop struct {
	coord    *progress.Coordinator
	events   <-chan Event
	interval time.Duration
}

// NewLoop creates a Loop draining events into the coordinator, ticking it
// every interval while a run is active
func NewLoop(coord *progress.Coordinator, events <-chan Event, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = progress.DefaultTickInterval
	}
	return &Loop{coord: coord, events: events, interval: interval}
}

// Run processes events until the channel closes. Call from its own
// goroutine; it returns after the pool has finished emitting.
func (l *Loop) Run() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-l.events:
			if !ok {
				return
			}
			l.apply(ev)
		case now := <-ticker.C:
			l.coord.Tick(now)
		}
	}
}

func (l *Loop) apply(ev Event) {
	switch ev.kind {
	case eventTestsStarted:
		l.coord.StartRun(ev.total, ev.maxWorkers)
	case eventWorkerBusy:
		l.coord.WorkerBusy(ev.workerID, ev.testNumber)
	case eventWorkerIdle:
		l.coord.WorkerIdle(ev.workerID)
	case eventTestResult:
		l.coord.TestResult(ev.result)
	case eventAllCompleted:
		l.coord.CompleteRun()
	}
}
