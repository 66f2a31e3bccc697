package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cts/internal/storage"
)

// HistoryCommand lists past runs recorded in the history database
type HistoryCommand struct {
	history *storage.HistoryStore
	Limit   int
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(history *storage.HistoryStore) *HistoryCommand {
	return &HistoryCommand{history: history, Limit: 20}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	if !hc.history.Configured() {
		color.Yellow("No history database configured (set DB_DATABASE in .env)")
		return nil
	}

	runs, err := hc.history.ListRuns(hc.Limit)
	if err != nil {
		return fmt.Errorf("failed to load run history: %w", err)
	}
	if len(runs) == 0 {
		color.Yellow("No runs recorded yet")
		return nil
	}

	color.Cyan("%-6s %-12s %-8s %-8s %-8s %-10s %s", "ID", "KIND", "TOTAL", "PASSED", "FAILED", "DURATION", "WHEN")
	for _, run := range runs {
		failed := fmt.Sprintf("%d", run.Meta.FailedTests)
		if run.Meta.FailedTests > 0 {
			failed = color.RedString("%d", run.Meta.FailedTests)
		}
		fmt.Printf("%-6d %-12s %-8d %-8s %-8s %-10s %s\n",
			run.ID, run.Meta.Kind, run.Meta.TotalTests,
			color.GreenString("%d", run.Meta.PassedTests), failed,
			fmt.Sprintf("%.2fs", run.Meta.DurationSeconds), run.Meta.Timestamp)
	}
	return nil
}
