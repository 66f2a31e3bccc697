package main

import (
	"fmt"
	"os"

	"cts/internal/cli"
	"cts/internal/cli/commands"
	"cts/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "cts",
		Short:   "Competitive-programming test suite",
		Long:    `A parallel stress-testing tool for competitive programming: generate test inputs, run a solution across parallel workers, and compare, validate, or benchmark the outputs with live progress tracking.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
