package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cts/internal/config"
	"cts/internal/domain"
	"cts/internal/execution"
	"cts/internal/progress"
	"cts/internal/storage"
	"cts/internal/ui"
)

// RunCommand executes one kind of test run end to end: worker pool in,
// live progress out, results persisted
type RunCommand struct {
	config    *config.Config
	kind      domain.Kind
	pool      *execution.Pool
	storage   storage.Storage
	history   *storage.HistoryStore
	formatter *ui.Formatter
}

// NewRunCommand creates a RunCommand for the given test kind
func NewRunCommand(
	cfg *config.Config,
	kind domain.Kind,
	pool *execution.Pool,
	st storage.Storage,
	history *storage.HistoryStore,
	formatter *ui.Formatter,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		kind:      kind,
		pool:      pool,
		storage:   st,
		history:   history,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := rc.checkCommands(); err != nil {
		return err
	}
	total := rc.config.Tests
	if total <= 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	sink := ui.NewTerminalSink()
	coord := progress.NewCoordinator(rc.kind, sink, progress.Options{
		StageDuration:   rc.config.StageDuration,
		DisplayDuration: rc.config.DisplayDuration,
	})

	events := make(chan execution.Event, 256)
	loop := execution.NewLoop(coord, events, rc.config.TickInterval)
	loopDone := make(chan struct{})
	go func() {
		loop.Run()
		close(loopDone)
	}()

	results, duration := rc.pool.ExecuteWithOptions(
		context.Background(), total, rc.config.Flags.FailFast, events)
	<-loopDone

	output := domain.NewRunOutput(rc.kind, results, duration, rc.config.Workers)
	if err := rc.storage.Save(output); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	if rc.history.Configured() {
		if err := rc.history.SaveRun(output); err != nil {
			color.Yellow("warning: could not record run history: %v", err)
		}
	}

	rc.formatter.PrintSummary(output)
	return nil
}

// checkCommands verifies the programs needed for this kind are configured
func (rc *RunCommand) checkCommands() error {
	missing := func(name, flag, env string) error {
		return fmt.Errorf("no %s command configured (use --%s or set %s)", name, flag, env)
	}
	if len(rc.config.Generator) == 0 {
		return missing("generator", "generator", "CTS_GENERATOR")
	}
	if len(rc.config.Solution) == 0 {
		return missing("solution", "solution", "CTS_SOLUTION")
	}
	switch rc.kind {
	case domain.KindComparison:
		if len(rc.config.Reference) == 0 {
			return missing("reference", "reference", "CTS_REFERENCE")
		}
	case domain.KindValidation:
		if len(rc.config.Validator) == 0 {
			return missing("validator", "validator", "CTS_VALIDATOR")
		}
	case domain.KindBenchmark:
		// generator and solution suffice
	default:
		panic(fmt.Sprintf("commands: unknown kind %d", int(rc.kind)))
	}
	return nil
}
