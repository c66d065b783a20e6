// Package tui provides a live terminal dashboard for the directory monitor.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/fitedit/internal/core/ports/driving"
)

// Ports aggregates the driving ports the dashboard uses.
type Ports struct {
	// Watcher uploads activity files as they appear.
	Watcher driving.DirectoryWatcher

	// History lists recent processing attempts. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Watcher == nil {
		return ErrMissingWatcher
	}
	return nil
}
