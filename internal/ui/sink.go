package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"cts/internal/domain"
	"cts/internal/progress"
)

// TerminalSink renders run progress as a terminal bar with pass/fail
// counts and per-worker stage badges in the description line.
type TerminalSink struct {
	bar     *progressbar.ProgressBar
	snap    progress.Snapshot
	workers map[int]string
}

// NewTerminalSink creates a sink rendering to stderr
func NewTerminalSink() *TerminalSink {
	return &TerminalSink{workers: make(map[int]string)}
}

// ResetDisplay starts a fresh bar for a new run
func (t *TerminalSink) ResetDisplay(total int) {
	t.workers = make(map[int]string)
	t.snap = progress.Snapshot{Total: total}
	t.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(t.description()),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// PushStatistics advances the bar and refreshes the counters
func (t *TerminalSink) PushStatistics(s progress.Snapshot) {
	if t.bar == nil {
		return
	}
	t.snap = s
	t.bar.Set(s.Completed)
	t.bar.Describe(t.description())
}

// PushWorkerStatus updates one worker's badge. A zero test number clears it.
func (t *TerminalSink) PushWorkerStatus(workerID, testNumber int, prog float64, elapsed time.Duration, stage string) {
	if t.bar == nil {
		return
	}
	if testNumber == 0 {
		delete(t.workers, workerID)
	} else {
		t.workers[workerID] = fmt.Sprintf("w%d:#%d %s", workerID, testNumber, stage)
	}
	t.bar.Describe(t.description())
}

// AppendResult is a no-op here; result details are browsed after the run
func (t *TerminalSink) AppendResult(r domain.ResultRecord) {}

// MarkComplete finishes the bar
func (t *TerminalSink) MarkComplete() {
	if t.bar == nil {
		return
	}
	t.bar.Finish()
}

func (t *TerminalSink) description() string {
	desc := color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", t.snap.Passed) +
		" | " +
		color.RedString("failed: %d]", t.snap.Failed)

	if t.snap.TestsPerSecond > 0 {
		desc += color.WhiteString(" %.1f/s", t.snap.TestsPerSecond)
	}

	if len(t.workers) > 0 {
		ids := make([]int, 0, len(t.workers))
		for id := range t.workers {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		badges := make([]string, 0, len(ids))
		for _, id := range ids {
			badges = append(badges, t.workers[id])
		}
		desc += " " + color.YellowString(strings.Join(badges, " "))
	}
	return desc
}
