package cli

import (
	"time"

	"cts/internal/config"
)

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Workers:   f.Workers,
		Tests:     f.Tests,
		Generator: f.Generator,
		Solution:  f.Solution,
		Reference: f.Reference,
		Validator: f.Validator,
		FailFast:  f.FailFast,
		TimeLimit: f.TimeLimit,
		MemoryMB:  f.MemoryMB,
		Workspace: f.Workspace,
	}
}
