package ui

import "cts/internal/domain"

// Viewer displays a run's failures in an interactive TUI
type Viewer interface {
	View(output *domain.RunOutput) error
}
