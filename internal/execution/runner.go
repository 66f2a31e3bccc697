package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"cts/internal/config"
	"cts/internal/domain"
)

// TestRunner runs one numbered test and produces its result
type TestRunner interface {
	Run(ctx context.Context, testNumber int) domain.ResultRecord
}

// Runner executes the per-test process pipeline for one kind of run
type Runner struct {
	cfg  *config.Config
	kind domain.Kind
}

// NewRunner creates a Runner for the given test kind
func NewRunner(cfg *config.Config, kind domain.Kind) *Runner {
	return &Runner{cfg: cfg, kind: kind}
}

// Run executes the pipeline for a single test
func (r *Runner) Run(ctx context.Context, testNumber int) domain.ResultRecord {
	switch r.kind {
	case domain.KindComparison:
		return r.runComparison(ctx, testNumber)
	case domain.KindValidation:
		return r.runValidation(ctx, testNumber)
	case domain.KindBenchmark:
		return r.runBenchmark(ctx, testNumber)
	default:
		panic(fmt.Sprintf("execution: unknown kind %d", int(r.kind)))
	}
}

// programResult captures one child process run
type programResult struct {
	stdout   string
	stderr   string
	duration time.Duration
	memoryMB float64
	exitCode int
	err      error
}

// runProgram runs one argv with stdin fed from input, collecting output,
// wall time and peak memory
func (r *Runner) runProgram(ctx context.Context, argv []string, input string, extraArgs ...string) programResult {
	if len(argv) == 0 {
		return programResult{err: errors.New("command not configured"), exitCode: -1}
	}

	args := append(append([]string{}, argv[1:]...), extraArgs...)
	cmd := exec.CommandContext(ctx, argv[0], args...)
	cmd.Dir = r.cfg.WorkspacePath
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := programResult{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		duration: time.Since(start),
		err:      err,
		exitCode: -1,
	}
	if cmd.ProcessState != nil {
		res.exitCode = cmd.ProcessState.ExitCode()
		res.memoryMB = maxRSSMB(cmd.ProcessState)
	}
	return res
}

// runComparison runs generator → solution and reference → output diff.
// The generator receives the test number as its argument so a run is
// reproducible.
func (r *Runner) runComparison(ctx context.Context, testNumber int) domain.ResultRecord {
	gen := r.runProgram(ctx, r.cfg.Generator, "", strconv.Itoa(testNumber))
	if gen.err != nil {
		return domain.NewComparisonResult(testNumber, false, "", "",
			stageError("generator", gen), gen.duration.Seconds(), 0)
	}
	input := gen.stdout

	sol := r.runProgram(ctx, r.cfg.Solution, input)
	ref := r.runProgram(ctx, r.cfg.Reference, input)

	actual := sol.stdout
	if sol.err != nil {
		actual = stageError("solution", sol)
	}
	expected := ref.stdout
	if ref.err != nil {
		expected = stageError("reference", ref)
	}

	passed := sol.err == nil && ref.err == nil && outputsMatch(sol.stdout, ref.stdout)
	return domain.NewComparisonResult(testNumber, passed, input, expected, actual,
		sol.duration.Seconds(), sol.memoryMB)
}

// runValidation runs generator → solution → validator. The validator gets
// the input and output file paths as arguments; exit code 0 means valid.
func (r *Runner) runValidation(ctx context.Context, testNumber int) domain.ResultRecord {
	gen := r.runProgram(ctx, r.cfg.Generator, "", strconv.Itoa(testNumber))
	if gen.err != nil {
		return domain.NewValidationResult(testNumber, false, "", "",
			"generator failed", stageError("generator", gen), gen.exitCode,
			gen.duration.Seconds(), 0)
	}
	input := gen.stdout

	sol := r.runProgram(ctx, r.cfg.Solution, input)
	if sol.err != nil {
		return domain.NewValidationResult(testNumber, false, input, sol.stdout,
			"solution failed", stageError("solution", sol), sol.exitCode,
			sol.duration.Seconds(), sol.memoryMB)
	}

	inputFile, outputFile, err := writeValidatorFiles(input, sol.stdout)
	if err != nil {
		return domain.NewValidationResult(testNumber, false, input, sol.stdout,
			"could not stage validator files", err.Error(), -1,
			sol.duration.Seconds(), sol.memoryMB)
	}
	defer os.Remove(inputFile)
	defer os.Remove(outputFile)

	val := r.runProgram(ctx, r.cfg.Validator, "", inputFile, outputFile)
	message := strings.TrimSpace(val.stdout)
	if message == "" {
		if val.exitCode == 0 {
			message = "output valid"
		} else {
			message = fmt.Sprintf("validator rejected output (exit %d)", val.exitCode)
		}
	}

	passed := val.err == nil && val.exitCode == 0
	return domain.NewValidationResult(testNumber, passed, input, sol.stdout,
		message, strings.TrimSpace(val.stderr), val.exitCode,
		sol.duration.Seconds(), sol.memoryMB)
}

// runBenchmark runs generator → solution under a time limit. The generator
// receives the test size so inputs grow with the test number; memory is
// judged against its limit independently of the overall pass flag.
func (r *Runner) runBenchmark(ctx context.Context, testNumber int) domain.ResultRecord {
	size := testNumber * r.cfg.BenchSizeStep
	name := fmt.Sprintf("bench_%d", testNumber)

	gen := r.runProgram(ctx, r.cfg.Generator, "", strconv.Itoa(size))
	if gen.err != nil {
		return domain.NewBenchmarkResult(name, testNumber, false,
			gen.duration.Seconds(), 0, true, "", stageError("generator", gen), size)
	}
	input := gen.stdout

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.TimeLimit)
	defer cancel()
	sol := r.runProgram(runCtx, r.cfg.Solution, input)

	timedOut := runCtx.Err() == context.DeadlineExceeded
	memoryPassed := sol.memoryMB <= r.cfg.MemoryLimitMB
	passed := !timedOut && sol.err == nil

	output := sol.stdout
	if timedOut {
		output = fmt.Sprintf("time limit exceeded (%v)", r.cfg.TimeLimit)
	} else if sol.err != nil {
		output = stageError("solution", sol)
	}

	return domain.NewBenchmarkResult(name, testNumber, passed,
		sol.duration.Seconds(), sol.memoryMB, memoryPassed, input, output, size)
}

// outputsMatch compares program outputs ignoring trailing whitespace on
// each line and trailing blank lines
func outputsMatch(a, b string) bool {
	return normalizeOutput(a) == normalizeOutput(b)
}

func normalizeOutput(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// stageError renders a pipeline stage failure for storage in a result
func stageError(stage string, res programResult) string {
	msg := strings.TrimSpace(res.stderr)
	if msg == "" {
		msg = res.err.Error()
	}
	return fmt.Sprintf("%s error: %s", stage, msg)
}

func writeValidatorFiles(input, output string) (inputFile, outputFile string, err error) {
	in, err := os.CreateTemp("", "cts-input-*.txt")
	if err != nil {
		return "", "", err
	}
	if _, err := in.WriteString(input); err != nil {
		in.Close()
		os.Remove(in.Name())
		return "", "", err
	}
	in.Close()

	out, err := os.CreateTemp("", "cts-output-*.txt")
	if err != nil {
		os.Remove(in.Name())
		return "", "", err
	}
	if _, err := out.WriteString(output); err != nil {
		out.Close()
		os.Remove(in.Name())
		os.Remove(out.Name())
		return "", "", err
	}
	out.Close()

	return in.Name(), out.Name(), nil
}
