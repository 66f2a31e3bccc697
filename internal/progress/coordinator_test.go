package progress

import (
	"math"
	"testing"
	"time"

	"cts/internal/domain"
)

type workerUpdate struct {
	workerID   int
	testNumber int
	progress   float64
	elapsed    time.Duration
	stage      string
}

// recordingSink captures every display update for assertions
type recordingSink struct {
	resets        []int
	stats         []Snapshot
	workerUpdates []workerUpdate
	results       []domain.ResultRecord
	completes     int
}

func (s *recordingSink) ResetDisplay(total int)    { s.resets = append(s.resets, total) }
func (s *recordingSink) PushStatistics(snap Snapshot) { s.stats = append(s.stats, snap) }
func (s *recordingSink) PushWorkerStatus(workerID, testNumber int, progress float64, elapsed time.Duration, stage string) {
	s.workerUpdates = append(s.workerUpdates, workerUpdate{workerID, testNumber, progress, elapsed, stage})
}
func (s *recordingSink) AppendResult(r domain.ResultRecord) { s.results = append(s.results, r) }
func (s *recordingSink) MarkComplete()                      { s.completes++ }

func (s *recordingSink) callCount() int {
	return len(s.resets) + len(s.stats) + len(s.workerUpdates) + len(s.results) + s.completes
}

func (s *recordingSink) lastUpdateFor(workerID int) (workerUpdate, bool) {
	for i := len(s.workerUpdates) - 1; i >= 0; i-- {
		if s.workerUpdates[i].workerID == workerID {
			return s.workerUpdates[i], true
		}
	}
	return workerUpdate{}, false
}

func newTestCoordinator(kind domain.Kind) (*Coordinator, *recordingSink, *time.Time) {
	now := time.Unix(1000, 0)
	sink := &recordingSink{}
	c := NewCoordinator(kind, sink, Options{
		StageDuration:   800 * time.Millisecond,
		DisplayDuration: time.Second,
		Now:             func() time.Time { return now },
	})
	return c, sink, &now
}

func compResult(testNumber int, passed bool) domain.ResultRecord {
	return domain.NewComparisonResult(testNumber, passed, "in", "exp", "act", 0.5, 12.0)
}

func TestCoordinator_BasicRunScenario(t *testing.T) {
	c, sink, _ := newTestCoordinator(domain.KindComparison)

	c.StartRun(3, 2)
	if len(sink.resets) != 1 || sink.resets[0] != 3 {
		t.Fatalf("expected one display reset for 3 tests, got %v", sink.resets)
	}

	c.WorkerBusy(1, 1)
	c.WorkerBusy(2, 2)

	u, ok := sink.lastUpdateFor(1)
	if !ok || u.testNumber != 1 || u.stage != "generate" {
		t.Errorf("expected worker 1 on generate for test 1, got %+v", u)
	}

	c.TestResult(compResult(1, true))

	snap := c.Snapshot()
	if snap.Completed != 1 || snap.Passed != 1 || snap.Failed != 0 {
		t.Errorf("expected completed=1 passed=1 failed=0, got %+v", snap)
	}
	if len(sink.stats) != 1 {
		t.Fatalf("expected one statistics push, got %d", len(sink.stats))
	}
	if got := sink.stats[0].ProgressPct; math.Abs(got-100.0/3) > 0.01 {
		t.Errorf("expected progress ~33.33, got %.4f", got)
	}
	if len(sink.results) != 1 || sink.results[0].TestNumber != 1 {
		t.Errorf("expected result card for test 1, got %v", sink.results)
	}

	// result pushes the final stage on the worker that ran the test
	u, _ = sink.lastUpdateFor(1)
	if u.stage != "evaluate" || u.progress != 1.0 {
		t.Errorf("expected final stage display, got %+v", u)
	}
}

func TestCoordinator_FullRunCompletes(t *testing.T) {
	c, sink, _ := newTestCoordinator(domain.KindComparison)

	c.StartRun(5, 2)
	for i := 1; i <= 5; i++ {
		c.WorkerBusy(1+(i%2), i)
		c.TestResult(compResult(i, true))
	}
	c.CompleteRun()

	last := sink.stats[len(sink.stats)-1]
	if last.ProgressPct != 100.0 {
		t.Errorf("expected final progress 100, got %.4f", last.ProgressPct)
	}
	if sink.completes != 1 {
		t.Errorf("expected exactly one completion signal, got %d", sink.completes)
	}
}

func TestCoordinator_UnknownWorkerIgnored(t *testing.T) {
	c, sink, _ := newTestCoordinator(domain.KindComparison)
	c.StartRun(10, 4)
	before := sink.callCount()

	c.WorkerIdle(99)
	c.WorkerBusy(99, 1)
	c.WorkerBusy(0, 2)
	c.WorkerBusy(-3, 3)
	c.WorkerIdle(2) // idle without prior busy

	if sink.callCount() != before {
		t.Errorf("expected no sink calls for unknown or unassigned workers, got %d extra",
			sink.callCount()-before)
	}
}

func TestCoordinator_EventsOutsideRunIgnored(t *testing.T) {
	c, sink, _ := newTestCoordinator(domain.KindComparison)

	// IDLE: nothing bound yet
	c.WorkerBusy(1, 1)
	c.WorkerIdle(1)
	c.TestResult(compResult(1, true))
	if sink.callCount() != 0 {
		t.Fatalf("expected no sink calls while idle, got %d", sink.callCount())
	}

	// COMPLETE: after the run finished
	c.StartRun(1, 1)
	c.TestResult(compResult(1, true))
	c.CompleteRun()
	before := sink.callCount()
	c.WorkerBusy(1, 2)
	c.TestResult(compResult(2, true))
	if sink.callCount() != before {
		t.Errorf("expected no sink calls after completion, got %d extra", sink.callCount()-before)
	}
}

func TestCoordinator_CompleteRunIdempotent(t *testing.T) {
	c, sink, _ := newTestCoordinator(domain.KindComparison)
	c.StartRun(2, 1)
	c.WorkerBusy(1, 1)
	c.CompleteRun()
	after := sink.callCount()

	c.CompleteRun()
	c.CompleteRun()
	if sink.callCount() != after {
		t.Errorf("expected no additional sink calls, got %d extra", sink.callCount()-after)
	}
	if sink.completes != 1 {
		t.Errorf("expected one completion signal, got %d", sink.completes)
	}
}

func TestCoordinator_CompleteClearsWorkerSlots(t *testing.T) {
	c, sink, _ := newTestCoordinator(domain.KindComparison)
	c.StartRun(4, 2)
	c.WorkerBusy(1, 1)
	c.WorkerBusy(2, 2)
	c.CompleteRun()

	for _, workerID := range []int{1, 2} {
		u, ok := sink.lastUpdateFor(workerID)
		if !ok || u.testNumber != 0 || u.stage != "" {
			t.Errorf("expected worker %d cleared to idle, got %+v", workerID, u)
		}
	}
}

func TestCoordinator_TickAdvancesStages(t *testing.T) {
	c, sink, now := newTestCoordinator(domain.KindValidation)
	c.StartRun(1, 1)
	c.WorkerBusy(1, 1)

	expected := []struct {
		advance time.Duration
		stage   string
	}{
		{advance: 100 * time.Millisecond, stage: "generate"},
		{advance: 800 * time.Millisecond, stage: "execute"},
		{advance: 800 * time.Millisecond, stage: "validate"},
		{advance: 5 * time.Second, stage: "validate"}, // capped at the last stage
	}
	for _, step := range expected {
		*now = now.Add(step.advance)
		c.Tick(*now)
		u, ok := sink.lastUpdateFor(1)
		if !ok || u.stage != step.stage {
			t.Errorf("after +%v expected stage %q, got %+v", step.advance, step.stage, u)
		}
	}
}

func TestCoordinator_DwellBeforeClear(t *testing.T) {
	c, sink, now := newTestCoordinator(domain.KindComparison)
	c.StartRun(2, 1)
	c.WorkerBusy(1, 1)

	*now = now.Add(300 * time.Millisecond)
	c.TestResult(compResult(1, true))

	// before the dwell expires the badge must stay put
	*now = now.Add(500 * time.Millisecond)
	c.Tick(*now)
	u, _ := sink.lastUpdateFor(1)
	if u.testNumber != 1 {
		t.Fatalf("badge cleared before dwell expired: %+v", u)
	}

	// after the dwell the slot is cleared to idle
	*now = now.Add(600 * time.Millisecond)
	c.Tick(*now)
	u, _ = sink.lastUpdateFor(1)
	if u.testNumber != 0 || u.stage != "" {
		t.Errorf("expected idle update after dwell, got %+v", u)
	}
}

func TestCoordinator_DwellSurvivesEarlyReassignment(t *testing.T) {
	c, sink, now := newTestCoordinator(domain.KindComparison)
	c.StartRun(3, 1)
	c.WorkerBusy(1, 1)

	*now = now.Add(200 * time.Millisecond)
	c.TestResult(compResult(1, true))

	// new assignment arrives well inside the dwell window
	*now = now.Add(100 * time.Millisecond)
	c.WorkerBusy(1, 2)

	*now = now.Add(400 * time.Millisecond)
	c.Tick(*now)
	u, _ := sink.lastUpdateFor(1)
	if u.testNumber != 1 {
		t.Fatalf("completed badge evicted early by new assignment: %+v", u)
	}

	// once the dwell expires the parked assignment takes over
	*now = now.Add(600 * time.Millisecond)
	c.Tick(*now)
	u, _ = sink.lastUpdateFor(1)
	if u.testNumber != 2 {
		t.Errorf("expected parked test 2 promoted after dwell, got %+v", u)
	}
}

func TestCoordinator_IdleDefersClearToResult(t *testing.T) {
	c, sink, now := newTestCoordinator(domain.KindComparison)
	c.StartRun(1, 1)
	c.WorkerBusy(1, 1)
	before := len(sink.workerUpdates)

	// idle alone never pushes a display change
	c.WorkerIdle(1)
	if len(sink.workerUpdates) != before {
		t.Fatalf("idle pushed a display update")
	}

	// it starts the dwell clock, so the badge ages out without a result
	*now = now.Add(1100 * time.Millisecond)
	c.Tick(*now)
	u, _ := sink.lastUpdateFor(1)
	if u.testNumber != 0 {
		t.Errorf("expected slot cleared after idle dwell, got %+v", u)
	}
}

func TestCoordinator_TickStopsAfterComplete(t *testing.T) {
	c, sink, now := newTestCoordinator(domain.KindComparison)
	c.StartRun(2, 1)
	c.WorkerBusy(1, 1)
	c.CompleteRun()
	after := sink.callCount()

	for i := 0; i < 5; i++ {
		*now = now.Add(time.Second)
		c.Tick(*now)
	}
	if sink.callCount() != after {
		t.Errorf("tick pushed updates after completion: %d extra", sink.callCount()-after)
	}
}

func TestCoordinator_RerunResetsEverything(t *testing.T) {
	c, sink, _ := newTestCoordinator(domain.KindComparison)
	c.StartRun(2, 1)
	c.WorkerBusy(1, 1)
	c.TestResult(compResult(1, false))
	c.CompleteRun()

	c.StartRun(4, 2)
	if !c.Running() {
		t.Fatal("expected running after restart")
	}
	snap := c.Snapshot()
	if snap.Completed != 0 || snap.Failed != 0 || snap.Total != 4 {
		t.Errorf("stale state after restart: %+v", snap)
	}
	if sink.resets[len(sink.resets)-1] != 4 {
		t.Errorf("expected display reset for 4 tests, got %v", sink.resets)
	}
}
