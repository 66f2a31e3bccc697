package progress

import "time"

// ExecutionState tracks the mutable counters for one run. One instance per
// run; Reset reinitializes it when a new run starts.
type ExecutionState struct {
	Total      int
	Completed  int
	Passed     int
	Failed     int
	MaxWorkers int
	Running    bool
	StartTime  time.Time

	now func() time.Time
}

// NewExecutionState creates an idle ExecutionState
func NewExecutionState() *ExecutionState {
	return &ExecutionState{now: time.Now}
}

// Reset reinitializes the state for a new run and starts the clock
func (s *ExecutionState) Reset(total, workers int) {
	s.Total = total
	s.Completed = 0
	s.Passed = 0
	s.Failed = 0
	s.MaxWorkers = workers
	s.Running = true
	s.StartTime = s.now()
}

// RecordResult counts one completed test. Results arriving after
// MarkComplete are ignored.
func (s *ExecutionState) RecordResult(passed bool) {
	if !s.Running {
		return
	}
	s.Completed++
	if passed {
		s.Passed++
	} else {
		s.Failed++
	}
}

// MarkComplete stops the run. Idempotent.
func (s *ExecutionState) MarkComplete() {
	s.Running = false
}

// ProgressPct returns completion as a percentage, 0 when no tests
func (s *ExecutionState) ProgressPct() float64 {
	if s.Total == 0 {
		return 0.0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

// Elapsed returns seconds since the run started, 0 before the first Reset
func (s *ExecutionState) Elapsed() float64 {
	if s.StartTime.IsZero() {
		return 0.0
	}
	return s.now().Sub(s.StartTime).Seconds()
}

// TestsPerSecond returns the completion rate, 0 when no time has elapsed
func (s *ExecutionState) TestsPerSecond() float64 {
	elapsed := s.Elapsed()
	if elapsed == 0 {
		return 0.0
	}
	return float64(s.Completed) / elapsed
}

// RemainingSeconds estimates time to finish from the current rate, 0 when
// the rate is unknown
func (s *ExecutionState) RemainingSeconds() float64 {
	speed := s.TestsPerSecond()
	if speed == 0 {
		return 0.0
	}
	return float64(s.Total-s.Completed) / speed
}

// Snapshot captures the derived statistics for display
func (s *ExecutionState) Snapshot() Snapshot {
	return Snapshot{
		Completed:        s.Completed,
		Total:            s.Total,
		Passed:           s.Passed,
		Failed:           s.Failed,
		ProgressPct:      s.ProgressPct(),
		ElapsedSeconds:   s.Elapsed(),
		TestsPerSecond:   s.TestsPerSecond(),
		RemainingSeconds: s.RemainingSeconds(),
		WorkersActive:    s.MaxWorkers,
	}
}

// Snapshot is a read-only projection of ExecutionState for display
type Snapshot struct {
	Completed        int
	Total            int
	Passed           int
	Failed           int
	ProgressPct      float64
	ElapsedSeconds   float64
	TestsPerSecond   float64
	RemainingSeconds float64
	WorkersActive    int
}
