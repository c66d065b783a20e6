package mcp

import (
	"github.com/custodia-labs/fitedit/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Orchestrator edits and uploads activity files.
	Orchestrator driving.UploadOrchestrator

	// History lists past processing attempts. Optional.
	History driving.HistoryService

	// Settings exposes the effective configuration. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Orchestrator == nil {
		return ErrMissingOrchestrator
	}
	return nil
}
