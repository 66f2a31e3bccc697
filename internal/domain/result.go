package domain

import "fmt"

// ResultRecord is the immutable record of one completed test. Exactly one
// of the details fields is set, matching Kind.
type ResultRecord struct {
	TestNumber  int     `json:"test_number"`
	Passed      bool    `json:"passed"`
	TimeSeconds float64 `json:"time_seconds"`
	MemoryMB    float64 `json:"memory_mb"`
	Kind        Kind    `json:"kind"`

	Comparison *ComparisonDetails `json:"comparison,omitempty"`
	Validation *ValidationDetails `json:"validation,omitempty"`
	Benchmark  *BenchmarkDetails  `json:"benchmark,omitempty"`
}

// ComparisonDetails carries the texts of a comparison test
type ComparisonDetails struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	ActualOutput   string `json:"actual_output"`
}

// ValidationDetails carries the validator's verdict for a validation test
type ValidationDetails struct {
	Input        string `json:"input"`
	Output       string `json:"output"`
	Message      string `json:"message"`
	ErrorDetails string `json:"error_details,omitempty"`
	ExitCode     int    `json:"exit_code"`
}

// BenchmarkDetails carries the measurements of a benchmark test.
// MemoryPassed is tracked separately from the overall pass flag so a test
// can fail on time while staying within the memory limit, and vice versa.
type BenchmarkDetails struct {
	TestName     string `json:"test_name"`
	TestSize     int    `json:"test_size"`
	MemoryPassed bool   `json:"memory_passed"`
	Input        string `json:"input"`
	Output       string `json:"output"`
}

// NewComparisonResult creates a result record for a comparison test
func NewComparisonResult(testNumber int, passed bool, input, expected, actual string, timeSeconds, memoryMB float64) ResultRecord {
	return ResultRecord{
		TestNumber:  testNumber,
		Passed:      passed,
		TimeSeconds: timeSeconds,
		MemoryMB:    memoryMB,
		Kind:        KindComparison,
		Comparison: &ComparisonDetails{
			Input:          input,
			ExpectedOutput: expected,
			ActualOutput:   actual,
		},
	}
}

// NewValidationResult creates a result record for a validation test
func NewValidationResult(testNumber int, passed bool, input, output, message, errorDetails string, exitCode int, timeSeconds, memoryMB float64) ResultRecord {
	return ResultRecord{
		TestNumber:  testNumber,
		Passed:      passed,
		TimeSeconds: timeSeconds,
		MemoryMB:    memoryMB,
		Kind:        KindValidation,
		Validation: &ValidationDetails{
			Input:        input,
			Output:       output,
			Message:      message,
			ErrorDetails: errorDetails,
			ExitCode:     exitCode,
		},
	}
}

// NewBenchmarkResult creates a result record for a benchmark test
func NewBenchmarkResult(testName string, testNumber int, passed bool, timeSeconds, memoryMB float64, memoryPassed bool, input, output string, testSize int) ResultRecord {
	return ResultRecord{
		TestNumber:  testNumber,
		Passed:      passed,
		TimeSeconds: timeSeconds,
		MemoryMB:    memoryMB,
		Kind:        KindBenchmark,
		Benchmark: &BenchmarkDetails{
			TestName:     testName,
			TestSize:     testSize,
			MemoryPassed: memoryPassed,
			Input:        input,
			Output:       output,
		},
	}
}

// Details returns the kind-specific payload. Panics if the record's kind
// is not one of the defined kinds, which is a caller bug.
func (r ResultRecord) Details() any {
	switch r.Kind {
	case KindComparison:
		return r.Comparison
	case KindValidation:
		return r.Validation
	case KindBenchmark:
		return r.Benchmark
	default:
		panic(fmt.Sprintf("domain: result %d has unknown kind %d", r.TestNumber, int(r.Kind)))
	}
}
