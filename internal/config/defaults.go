package config

import (
	"time"

	"cts/internal/progress"
)

const (
	// DefaultWorkspacePath is the default workspace directory
	DefaultWorkspacePath = "."
	// DefaultOutputJSONFile is the default results file name
	DefaultOutputJSONFile = "last-run.json"
	// DefaultOutputJSONDir is the default results directory
	DefaultOutputJSONDir = "results"
	// DefaultWorkers is the default number of parallel workers
	DefaultWorkers = 4
	// DefaultTests is the default number of tests per run
	DefaultTests = 20
	// DefaultTimeLimit is the default per-test time limit for benchmarks
	DefaultTimeLimit = 2 * time.Second
	// DefaultMemoryLimitMB is the default benchmark memory limit
	DefaultMemoryLimitMB = 256.0
	// DefaultBenchSizeStep multiplies the test number into a generator size
	DefaultBenchSizeStep = 1000

	// Display heuristics, overridable via flags or env
	DefaultStageDuration   = progress.DefaultStageDuration
	DefaultDisplayDuration = progress.DefaultDisplayDuration
	DefaultTickInterval    = progress.DefaultTickInterval
)
