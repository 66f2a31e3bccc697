package progress

import (
	"time"

	"cts/internal/domain"
)

// Sink receives display updates from the Coordinator. Implementations must
// treat every call as fire-and-forget and must not call back into the
// Coordinator from inside an update.
type Sink interface {
	// ResetDisplay clears the presentation for a new run of total tests
	ResetDisplay(total int)
	// PushStatistics reports updated run statistics
	PushStatistics(s Snapshot)
	// PushWorkerStatus reports one worker's pipeline position.
	// testNumber 0 with an empty stage means the worker is idle.
	PushWorkerStatus(workerID, testNumber int, progress float64, elapsed time.Duration, stage string)
	// AppendResult adds a completed test to the results presentation
	AppendResult(r domain.ResultRecord)
	// MarkComplete signals the end of the run
	MarkComplete()
}

// Options tunes the Coordinator's display heuristics
type Options struct {
	// StageDuration is how long each inferred pipeline stage is shown
	// before advancing to the next
	StageDuration time.Duration
	// DisplayDuration is the minimum dwell time a completed test stays on
	// its worker's badge before the slot is cleared
	DisplayDuration time.Duration
	// Now overrides the clock; used by tests
	Now func() time.Time
}

const (
	// DefaultStageDuration is the per-stage display heuristic
	DefaultStageDuration = 800 * time.Millisecond
	// DefaultDisplayDuration is the minimum dwell for completed tests
	DefaultDisplayDuration = time.Second
	// DefaultTickInterval is how often the owner should call Tick while a
	// run is active
	DefaultTickInterval = 100 * time.Millisecond
)

// workerSlot tracks one worker's current assignment.
// completedAt stays zero while the test is still running. next holds an
// assignment that arrived while the finished test was still dwelling on
// the badge; it is promoted once the dwell expires.
type workerSlot struct {
	testNumber  int
	startedAt   time.Time
	completedAt time.Time
	next        *workerSlot
}

// dwelling reports whether the slot shows a completed test whose minimum
// display time has not yet expired
func (s *workerSlot) dwelling(now time.Time, dwell time.Duration) bool {
	return !s.completedAt.IsZero() && now.Sub(s.completedAt) < dwell
}

// Coordinator ingests worker lifecycle events and drives a display Sink
// with consistent progress statistics and per-worker stage updates.
//
// All methods must be called from a single goroutine; the owner is also
// responsible for calling Tick periodically (see DefaultTickInterval)
// while a run is active. Tick becomes a no-op once CompleteRun has been
// called, so a stopped run never pushes further stage updates.
type Coordinator struct {
	kind  domain.Kind
	sink  Sink
	state *ExecutionState
	slots map[int]*workerSlot

	stageDuration   time.Duration
	displayDuration time.Duration
	ticking         bool
	now             func() time.Time
}

// NewCoordinator creates a Coordinator for one kind of test run
func NewCoordinator(kind domain.Kind, sink Sink, opts Options) *Coordinator {
	if opts.StageDuration <= 0 {
		opts.StageDuration = DefaultStageDuration
	}
	if opts.DisplayDuration <= 0 {
		opts.DisplayDuration = DefaultDisplayDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	state := NewExecutionState()
	state.now = opts.Now
	return &Coordinator{
		kind:            kind,
		sink:            sink,
		state:           state,
		slots:           make(map[int]*workerSlot),
		stageDuration:   opts.StageDuration,
		displayDuration: opts.DisplayDuration,
		now:             opts.Now,
	}
}

// StartRun begins a new run, discarding all state from any previous run
func (c *Coordinator) StartRun(total, maxWorkers int) {
	c.state.Reset(total, maxWorkers)
	c.slots = make(map[int]*workerSlot)
	c.ticking = true
	c.sink.ResetDisplay(total)
}

// WorkerBusy records that a worker picked up a test and shows it on the
// first pipeline stage. Events outside a run or with a worker id outside
// [1, maxWorkers] are ignored.
func (c *Coordinator) WorkerBusy(workerID, testNumber int) {
	if !c.state.Running || !c.knownWorker(workerID) {
		return
	}
	now := c.now()
	assigned := &workerSlot{testNumber: testNumber, startedAt: now}

	// A completed test keeps its badge for the full dwell time even when
	// the next assignment arrives sooner; park it until Tick promotes it.
	if slot, ok := c.slots[workerID]; ok && slot.dwelling(now, c.displayDuration) {
		slot.next = assigned
		return
	}

	c.slots[workerID] = assigned
	stages := StageNames(c.kind)
	c.sink.PushWorkerStatus(workerID, testNumber, 0.0, 0, stages[0])
}

// WorkerIdle records that a worker finished its assignment. The display is
// not cleared here: the slot is timestamped and aged out by Tick after the
// dwell time, so a human can still see what the worker just did.
func (c *Coordinator) WorkerIdle(workerID int) {
	if !c.state.Running {
		return
	}
	slot, ok := c.slots[workerID]
	if !ok {
		return
	}
	if slot.completedAt.IsZero() {
		slot.completedAt = c.now()
	}
}

// TestResult records a completed test: updates counters, pushes fresh
// statistics and the result card, and shows the test on its worker's final
// stage until the dwell time expires.
func (c *Coordinator) TestResult(r domain.ResultRecord) {
	if !c.state.Running {
		return
	}
	c.state.RecordResult(r.Passed)
	c.sink.PushStatistics(c.state.Snapshot())
	c.sink.AppendResult(r)

	for workerID, slot := range c.slots {
		if slot.testNumber == r.TestNumber {
			slot.completedAt = c.now()
			elapsed := time.Duration(r.TimeSeconds * float64(time.Second))
			c.sink.PushWorkerStatus(workerID, r.TestNumber, 1.0, elapsed, FinalStage(c.kind))
			return
		}
		// The result may belong to a parked assignment whose predecessor
		// is still dwelling; timestamp it so promotion starts its dwell.
		if slot.next != nil && slot.next.testNumber == r.TestNumber {
			slot.next.completedAt = c.now()
			return
		}
	}
}

// Tick advances per-worker stage display and ages out completed slots.
// No-op unless a run is active.
func (c *Coordinator) Tick(now time.Time) {
	if !c.ticking {
		return
	}

	var expired []int
	for workerID, slot := range c.slots {
		if !slot.completedAt.IsZero() {
			if now.Sub(slot.completedAt) >= c.displayDuration {
				expired = append(expired, workerID)
			}
			continue
		}
		elapsed := now.Sub(slot.startedAt)
		idx, stage := stageAt(c.kind, elapsed, c.stageDuration)
		frac := float64(idx) / float64(len(StageNames(c.kind)))
		if frac > 1.0 {
			frac = 1.0
		}
		c.sink.PushWorkerStatus(workerID, slot.testNumber, frac, elapsed, stage)
	}

	for _, workerID := range expired {
		next := c.slots[workerID].next
		if next == nil {
			delete(c.slots, workerID)
			c.sink.PushWorkerStatus(workerID, 0, 0.0, 0, "")
			continue
		}
		c.slots[workerID] = next
		if !next.completedAt.IsZero() {
			elapsed := next.completedAt.Sub(next.startedAt)
			c.sink.PushWorkerStatus(workerID, next.testNumber, 1.0, elapsed, FinalStage(c.kind))
			continue
		}
		elapsed := now.Sub(next.startedAt)
		idx, stage := stageAt(c.kind, elapsed, c.stageDuration)
		frac := float64(idx) / float64(len(StageNames(c.kind)))
		c.sink.PushWorkerStatus(workerID, next.testNumber, frac, elapsed, stage)
	}
}

// CompleteRun finalizes the run: counters stop, ticking stops, and every
// remaining worker slot is cleared. Idempotent; repeated calls push
// nothing further to the sink.
func (c *Coordinator) CompleteRun() {
	if !c.state.Running {
		return
	}
	c.state.MarkComplete()
	c.ticking = false

	for workerID := range c.slots {
		c.sink.PushWorkerStatus(workerID, 0, 0.0, 0, "")
	}
	c.slots = make(map[int]*workerSlot)
	c.sink.MarkComplete()
}

// Running reports whether a run is active
func (c *Coordinator) Running() bool {
	return c.state.Running
}

// Snapshot returns the current statistics
func (c *Coordinator) Snapshot() Snapshot {
	return c.state.Snapshot()
}

func (c *Coordinator) knownWorker(workerID int) bool {
	return workerID >= 1 && workerID <= c.state.MaxWorkers
}
