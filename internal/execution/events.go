package execution

import "cts/internal/domain"

type eventKind int

const (
	eventTestsStarted eventKind = iota
	eventWorkerBusy
	eventWorkerIdle
	eventTestResult
	eventAllCompleted
)

// Event is one worker pool notification. Events are produced by pool
// goroutines and consumed in order on the Loop's single goroutine, which
// is the only place the progress coordinator is touched.
type Event struct {
	kind       eventKind
	total      int
	maxWorkers int
	workerID   int
	testNumber int
	result     domain.ResultRecord
}

func testsStarted(total, maxWorkers int) Event {
	return Event{kind: eventTestsStarted, total: total, maxWorkers: maxWorkers}
}

func workerBusy(workerID, testNumber int) Event {
	return Event{kind: eventWorkerBusy, workerID: workerID, testNumber: testNumber}
}

func workerIdle(workerID int) Event {
	return Event{kind: eventWorkerIdle, workerID: workerID}
}

func testResult(r domain.ResultRecord) Event {
	return Event{kind: eventTestResult, result: r}
}

func allCompleted() Event {
	return Event{kind: eventAllCompleted}
}
