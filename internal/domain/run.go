package domain

import "time"

// RunMeta contains metadata about one test run
type RunMeta struct {
	Kind            Kind    `json:"kind"`
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is the complete persisted form of one test run
type RunOutput struct {
	Meta    RunMeta        `json:"meta"`
	Results []ResultRecord `json:"results"`
}

// NewRunOutput assembles the persisted form of a finished run
func NewRunOutput(kind Kind, results []ResultRecord, duration time.Duration, workers int) *RunOutput {
	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	return &RunOutput{
		Meta: RunMeta{
			Kind:            kind,
			TotalTests:      len(results),
			PassedTests:     passed,
			FailedTests:     len(results) - passed,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Workers:         workers,
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Results: results,
	}
}

// Failures returns only the failed results, in run order
func (o *RunOutput) Failures() []ResultRecord {
	var failed []ResultRecord
	for _, r := range o.Results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
