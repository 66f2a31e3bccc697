package progress

import (
	"fmt"
	"time"

	"cts/internal/domain"
)

// StageNames returns the named pipeline stages displayed for a test kind,
// in execution order. Panics on an unknown kind.
func StageNames(kind domain.Kind) []string {
	switch kind {
	case domain.KindComparison:
		return []string{"generate", "reference", "evaluate"}
	case domain.KindValidation:
		return []string{"generate", "execute", "validate"}
	case domain.KindBenchmark:
		return []string{"generate", "benchmark"}
	default:
		panic(fmt.Sprintf("progress: unknown kind %d", int(kind)))
	}
}

// FinalStage returns the last stage name for a kind
func FinalStage(kind domain.Kind) string {
	stages := StageNames(kind)
	return stages[len(stages)-1]
}

// stageAt maps elapsed time to a stage index using the fixed per-stage
// duration heuristic. The index caps at the last stage. This is a display
// heuristic, not a measurement.
func stageAt(kind domain.Kind, elapsed, stageDuration time.Duration) (int, string) {
	stages := StageNames(kind)
	idx := int(elapsed / stageDuration)
	if idx > len(stages)-1 {
		idx = len(stages) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx, stages[idx]
}
