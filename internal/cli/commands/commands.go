package commands

import (
	"cts/internal/cli"
	"cts/internal/config"
	"cts/internal/domain"
	"cts/internal/execution"
	"cts/internal/storage"
	"cts/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	Validate *RunCommand
	Bench    *RunCommand
	Results  *ResultsCommand
	History  *HistoryCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	jsonStorage := storage.NewJSONStorage(cfg)
	history := storage.NewHistoryStore()
	formatter := ui.NewFormatter()
	viewer := ui.NewResultsViewer()

	newRun := func(kind domain.Kind) *RunCommand {
		runner := execution.NewRunner(cfg, kind)
		pool := execution.NewPool(cfg, runner)
		return NewRunCommand(cfg, kind, pool, jsonStorage, history, formatter)
	}

	return &Commands{
		Run:      newRun(domain.KindComparison),
		Validate: newRun(domain.KindValidation),
		Bench:    newRun(domain.KindBenchmark),
		Results:  NewResultsCommand(cfg, jsonStorage, viewer),
		History:  NewHistoryCommand(history),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	reload := func(cmd *cobra.Command, args []string) error {
		*cfg = *config.Load(flags.ToConfigFlags())
		return nil
	}

	addRunFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVarP(&flags.Tests, "tests", "n", config.DefaultTests, "Number of tests to run")
		cmd.Flags().IntVarP(&flags.Workers, "workers", "w", config.DefaultWorkers, "Number of parallel workers")
		cmd.Flags().StringVarP(&flags.Generator, "generator", "g", "", "Generator command (e.g. 'python3 gen.py')")
		cmd.Flags().StringVarP(&flags.Solution, "solution", "s", "", "Solution command under test")
		cmd.Flags().StringVar(&flags.Workspace, "workspace", "", "Workspace directory (default current)")
		cmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first test failure")
	}

	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Stress-test a solution against a reference",
		Long:    "Generate inputs and compare the solution's output against a reference solution across parallel workers",
		RunE:    c.Run.Execute,
		PreRunE: reload,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVarP(&flags.Reference, "reference", "r", "", "Reference solution command")
	rootCmd.AddCommand(runCmd)

	validateCmd := &cobra.Command{
		Use:     "validate",
		Short:   "Check a solution's outputs with a validator",
		Long:    "Generate inputs, run the solution, and judge each output with a validator program (exit 0 = valid)",
		RunE:    c.Validate.Execute,
		PreRunE: reload,
	}
	addRunFlags(validateCmd)
	validateCmd.Flags().StringVar(&flags.Validator, "validator", "", "Validator command, invoked with input and output file paths")
	rootCmd.AddCommand(validateCmd)

	benchCmd := &cobra.Command{
		Use:     "bench",
		Short:   "Benchmark a solution against time and memory limits",
		Long:    "Generate growing inputs and measure the solution's wall time and peak memory per test",
		RunE:    c.Bench.Execute,
		PreRunE: reload,
	}
	addRunFlags(benchCmd)
	benchCmd.Flags().DurationVarP(&flags.TimeLimit, "time-limit", "t", config.DefaultTimeLimit, "Per-test time limit")
	benchCmd.Flags().Float64VarP(&flags.MemoryMB, "memory-limit", "m", config.DefaultMemoryLimitMB, "Memory limit in MB")
	rootCmd.AddCommand(benchCmd)

	resultsCmd := &cobra.Command{
		Use:     "results",
		Short:   "View the last run's failures interactively",
		Long:    "Browse failed tests from the last run with their inputs and outputs in an interactive viewer",
		RunE:    c.Results.Execute,
		PreRunE: reload,
	}
	resultsCmd.Flags().StringVar(&flags.Workspace, "workspace", "", "Workspace directory (default current)")
	rootCmd.AddCommand(resultsCmd)

	historyCmd := &cobra.Command{
		Use:     "history",
		Short:   "List past runs from the history database",
		RunE:    c.History.Execute,
		PreRunE: reload,
	}
	historyCmd.Flags().IntVar(&c.History.Limit, "limit", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}
