package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Workspace settings
	WorkspacePath string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Execution settings
	Workers int
	Tests   int

	// Program commands, one argv each
	Generator []string
	Solution  []string
	Reference []string
	Validator []string

	// Benchmark limits
	TimeLimit     time.Duration
	MemoryLimitMB float64
	BenchSizeStep int

	// Display heuristics
	StageDuration   time.Duration
	DisplayDuration time.Duration
	TickInterval    time.Duration

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Workers   int
	Tests     int
	Generator string
	Solution  string
	Reference string
	Validator string
	FailFast  bool
	TimeLimit time.Duration
	MemoryMB  float64
	Workspace string
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		WorkspacePath:   DefaultWorkspacePath,
		OutputJSONFile:  DefaultOutputJSONFile,
		OutputJSONDir:   DefaultOutputJSONDir,
		Workers:         DefaultWorkers,
		Tests:           DefaultTests,
		TimeLimit:       DefaultTimeLimit,
		MemoryLimitMB:   DefaultMemoryLimitMB,
		BenchSizeStep:   DefaultBenchSizeStep,
		StageDuration:   DefaultStageDuration,
		DisplayDuration: DefaultDisplayDuration,
		TickInterval:    DefaultTickInterval,
		Flags:           Flags{Workers: DefaultWorkers, Tests: DefaultTests},
	}
}

// Load creates a config from defaults, .env overrides, and flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Flags = flags

	if flags.Workspace != "" {
		cfg.WorkspacePath = flags.Workspace
	}
	cfg.applyEnv()

	// Flag overrides win over env
	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}
	if flags.Tests > 0 {
		cfg.Tests = flags.Tests
	}
	if flags.Generator != "" {
		cfg.Generator = splitCommand(flags.Generator)
	}
	if flags.Solution != "" {
		cfg.Solution = splitCommand(flags.Solution)
	}
	if flags.Reference != "" {
		cfg.Reference = splitCommand(flags.Reference)
	}
	if flags.Validator != "" {
		cfg.Validator = splitCommand(flags.Validator)
	}
	if flags.TimeLimit > 0 {
		cfg.TimeLimit = flags.TimeLimit
	}
	if flags.MemoryMB > 0 {
		cfg.MemoryLimitMB = flags.MemoryMB
	}

	return cfg
}

// applyEnv loads .env from the workspace and applies CTS_* settings
func (c *Config) applyEnv() {
	// .env is optional; plain environment variables still apply
	_ = godotenv.Load(filepath.Join(c.WorkspacePath, ".env"))

	if v := os.Getenv("CTS_GENERATOR"); v != "" {
		c.Generator = splitCommand(v)
	}
	if v := os.Getenv("CTS_SOLUTION"); v != "" {
		c.Solution = splitCommand(v)
	}
	if v := os.Getenv("CTS_REFERENCE"); v != "" {
		c.Reference = splitCommand(v)
	}
	if v := os.Getenv("CTS_VALIDATOR"); v != "" {
		c.Validator = splitCommand(v)
	}
	if v := os.Getenv("CTS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if v := os.Getenv("CTS_STAGE_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.StageDuration = d
		}
	}
	if v := os.Getenv("CTS_DISPLAY_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.DisplayDuration = d
		}
	}
	if v := os.Getenv("CTS_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.TickInterval = d
		}
	}
}

// GetOutputPath returns the absolute path to the results JSON file so every
// command reads and writes the same file regardless of cwd
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.WorkspacePath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// splitCommand turns a command string into an argv list
func splitCommand(s string) []string {
	return strings.Fields(s)
}
