package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cts/internal/config"
	"cts/internal/storage"
	"cts/internal/ui"
)

// ResultsCommand opens the interactive viewer over the last run's failures
type ResultsCommand struct {
	config  *config.Config
	storage storage.Storage
	viewer  ui.Viewer
}

// NewResultsCommand creates a new ResultsCommand
func NewResultsCommand(cfg *config.Config, st storage.Storage, viewer ui.Viewer) *ResultsCommand {
	return &ResultsCommand{config: cfg, storage: st, viewer: viewer}
}

// Execute runs the command
func (rc *ResultsCommand) Execute(cmd *cobra.Command, args []string) error {
	output, err := rc.storage.Load()
	if err != nil {
		return fmt.Errorf("no saved run found (run `cts run` first): %w", err)
	}
	return rc.viewer.View(output)
}
