package ui

import (
	"fmt"
	"sort"

	"github.com/fatih/color"

	"cts/internal/domain"
)

// Formatter formats and displays run output
type Formatter struct{}

// NewFormatter creates a new Formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// PrintSummary displays the statistics table for a finished run
func (f *Formatter) PrintSummary(output *domain.RunOutput) {
	meta := output.Meta

	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                     Run Statistics (%-10s)               ║", meta.Kind)
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")
	printRow("Total tests", fmt.Sprintf("%d", meta.TotalTests))
	printRow("Passed", color.GreenString("%d", meta.PassedTests))
	printRow("Failed", failedCell(meta.FailedTests))
	printRow("Duration", meta.Duration)
	printRow("Workers", fmt.Sprintf("%d", meta.Workers))
	if meta.DurationSeconds > 0 {
		printRow("Tests/second", fmt.Sprintf("%.2f", float64(meta.TotalTests)/meta.DurationSeconds))
	}
	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	f.printSlowest(output)

	if meta.FailedTests > 0 {
		color.Red("\n✗ %d test(s) failed. Run `cts results` to inspect them.", meta.FailedTests)
	} else {
		color.Green("\n✓ All tests passed.")
	}
}

// printSlowest lists the three slowest tests of the run
func (f *Formatter) printSlowest(output *domain.RunOutput) {
	if len(output.Results) < 2 {
		return
	}
	sorted := make([]domain.ResultRecord, len(output.Results))
	copy(sorted, output.Results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TimeSeconds > sorted[j].TimeSeconds })

	n := 3
	if n > len(sorted) {
		n = len(sorted)
	}
	color.Cyan("\nSlowest tests:")
	for _, r := range sorted[:n] {
		fmt.Printf("  #%d  %.3fs  %.1f MB\n", r.TestNumber, r.TimeSeconds, r.MemoryMB)
	}
}

func printRow(label, value string) {
	// color escape codes are invisible but count toward %-27s padding
	pad := 27 + (len(value) - visibleLen(value))
	fmt.Printf("│ %-31s │ %-*s │\n", label, pad, value)
}

func failedCell(n int) string {
	if n == 0 {
		return "0"
	}
	return color.RedString("%d", n)
}

func visibleLen(s string) int {
	visible := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			visible++
		}
	}
	return visible
}
