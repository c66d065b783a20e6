// Package mcp provides an MCP (Model Context Protocol) server adapter for fitedit.
// It lets AI assistants edit and upload activity files and read upload history.
package mcp

import "errors"

// ErrMissingOrchestrator is returned when the upload orchestrator is not provided.
var ErrMissingOrchestrator = errors.New("mcp: upload orchestrator is required")
