package mcp

import (
	"context"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driving"
)

// mockOrchestrator is a mock implementation of driving.UploadOrchestrator.
type mockOrchestrator struct {
	report *domain.BatchReport
	result *driving.EditResult
	err    error
	mode   domain.Mode
	dryRun bool
}

func (m *mockOrchestrator) ProcessDirectory(
	_ context.Context, _ string, mode domain.Mode, dryRun bool,
) (*domain.BatchReport, error) {
	m.mode = mode
	m.dryRun = dryRun
	return m.report, m.err
}

func (m *mockOrchestrator) EditFile(_ context.Context, _, _ string, dryRun bool) (*driving.EditResult, error) {
	m.dryRun = dryRun
	return m.result, m.err
}

func (m *mockOrchestrator) UploadFile(_ context.Context, _ string, dryRun bool) (*driving.EditResult, error) {
	m.dryRun = dryRun
	return m.result, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries []domain.HistoryEntry
	err     error
	limit   int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.limit = limit
	return m.entries, m.err
}
