package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"cts/internal/domain"
)

// maxDetailChars caps how much of a program's input/output is shown per
// section so huge stress-test payloads stay navigable
const maxDetailChars = 4000

// ResultsViewer displays a run's failed tests in an interactive TUI
type ResultsViewer struct{}

// NewResultsViewer creates a new ResultsViewer
func NewResultsViewer() *ResultsViewer {
	return &ResultsViewer{}
}

// View displays the run's failures, list on the left and details on the
// right. Returns without starting the TUI when there are no failures.
func (v *ResultsViewer) View(output *domain.RunOutput) error {
	failures := output.Failures()
	if len(failures) == 0 {
		color.Green("✓ No test failures in the last run!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, r := range failures {
		list.AddItem(fmt.Sprintf("[yellow]%d.[white] test #%d (%s)", i+1, r.TestNumber, r.Kind), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	headerView.SetText(fmt.Sprintf(
		" Failed Tests (%d of %d) | ↑↓ navigate, → view details, ← back, Ctrl+C to exit ",
		len(failures), output.Meta.TotalTests))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(failures) {
			r := failures[index]
			statsView.SetText(fmt.Sprintf("[cyan]test:[white] [yellow]#%d[white]  [cyan]time:[white] %.3fs  [cyan]memory:[white] %.1f MB\n",
				r.TestNumber, r.TimeSeconds, r.MemoryMB))
			detailsView.SetText(formatResultDetails(r)).ScrollToBeginning()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})
	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// formatResultDetails renders a failed result's payload with tview color tags
func formatResultDetails(r domain.ResultRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[red]✗ Test #%d (%s)[white]\n\n", r.TestNumber, r.Kind)

	switch r.Kind {
	case domain.KindComparison:
		d := r.Comparison
		writeSection(&b, "Input", d.Input)
		writeSection(&b, "Expected Output", d.ExpectedOutput)
		writeSection(&b, "Actual Output", d.ActualOutput)
	case domain.KindValidation:
		d := r.Validation
		fmt.Fprintf(&b, "[yellow]Validator verdict:[white] %s (exit %d)\n\n", d.Message, d.ExitCode)
		if d.ErrorDetails != "" {
			writeSection(&b, "Validator Errors", d.ErrorDetails)
		}
		writeSection(&b, "Input", d.Input)
		writeSection(&b, "Output", d.Output)
	case domain.KindBenchmark:
		d := r.Benchmark
		fmt.Fprintf(&b, "[yellow]Benchmark:[white] %s (input size %d)\n", d.TestName, d.TestSize)
		fmt.Fprintf(&b, "[yellow]Time:[white] %.3fs\n", r.TimeSeconds)
		memory := fmt.Sprintf("%.1f MB", r.MemoryMB)
		if !d.MemoryPassed {
			memory = "[red]" + memory + " (over limit)[white]"
		}
		fmt.Fprintf(&b, "[yellow]Memory:[white] %s\n\n", memory)
		writeSection(&b, "Output", d.Output)
	default:
		panic(fmt.Sprintf("ui: unknown kind %d", int(r.Kind)))
	}
	return b.String()
}

func writeSection(b *strings.Builder, title, text string) {
	fmt.Fprintf(b, "[yellow]%s:[white]\n%s\n\n", title, truncate(text))
}

func truncate(s string) string {
	if len(s) <= maxDetailChars {
		return s
	}
	return s[:maxDetailChars] + fmt.Sprintf("\n[gray]... %d more bytes[white]", len(s)-maxDetailChars)
}
