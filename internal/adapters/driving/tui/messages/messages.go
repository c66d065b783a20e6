// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// Tick is sent periodically to poll the watcher state.
type Tick struct{}

// HistoryLoaded carries recent history entries back to the model.
type HistoryLoaded struct {
	Entries []domain.HistoryEntry
	Err     error
}

// WatcherStopped is sent when the directory watcher returns.
type WatcherStopped struct {
	Err error
}

// LogLine carries one line written to the logger while the dashboard runs.
type LogLine struct {
	Text string
}
