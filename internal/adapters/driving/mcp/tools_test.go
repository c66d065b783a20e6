package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driving"
)

func newTestServer(t *testing.T, orch *mockOrchestrator) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Orchestrator: orch})
	require.NoError(t, err)
	return server
}

func TestServer_handleEdit(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)

	t.Run("returns edit result", func(t *testing.T) {
		orch := &mockOrchestrator{result: &driving.EditResult{
			Output:       "/rides/a_modified.fit",
			Changed:      3,
			ActivityTime: &created,
		}}
		server := newTestServer(t, orch)

		_, output, err := server.handleEdit(ctx, nil, EditInput{Path: "/rides/a.fit", DryRun: true})

		require.NoError(t, err)
		assert.True(t, orch.dryRun)
		assert.Equal(t, "/rides/a_modified.fit", output.Output)
		assert.Equal(t, 3, output.Changed)
		assert.Equal(t, &created, output.ActivityTime)
	})

	t.Run("returns error", func(t *testing.T) {
		server := newTestServer(t, &mockOrchestrator{err: domain.ErrDecode})

		_, _, err := server.handleEdit(ctx, nil, EditInput{Path: "/rides/a.fit"})

		assert.ErrorIs(t, err, domain.ErrDecode)
	})
}

func TestServer_handleUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("reports conflict", func(t *testing.T) {
		server := newTestServer(t, &mockOrchestrator{result: &driving.EditResult{Changed: 2, Conflict: true}})

		_, output, err := server.handleUpload(ctx, nil, UploadInput{Path: "/rides/a.fit"})

		require.NoError(t, err)
		assert.True(t, output.Conflict)
		assert.Equal(t, 2, output.Changed)
	})

	t.Run("returns error", func(t *testing.T) {
		server := newTestServer(t, &mockOrchestrator{err: errors.New("connection refused")})

		_, _, err := server.handleUpload(ctx, nil, UploadInput{Path: "/rides/a.fit"})

		assert.EqualError(t, err, "connection refused")
	})
}

func TestServer_handleDirectory(t *testing.T) {
	ctx := context.Background()

	report := &domain.BatchReport{Mode: domain.ModeEditAndUpload, Discovered: 2}
	report.Add(domain.FileResult{Path: "a.fit", State: domain.FileUploaded})
	report.Add(domain.FileResult{Path: "b.fit", State: domain.FileFailed, Err: errors.New("bad crc")})

	orch := &mockOrchestrator{report: report}
	server := newTestServer(t, orch)

	_, output, err := server.handleDirectory(ctx, nil, DirectoryInput{Dir: "/rides"})

	require.NoError(t, err)
	assert.Equal(t, domain.ModeEditAndUpload, orch.mode)
	assert.Equal(t, "upload", output.Mode)
	assert.Equal(t, 2, output.Discovered)
	assert.Equal(t, 1, output.Uploaded)
	assert.Equal(t, 1, output.Failed)
	require.Len(t, output.Files, 2)
	assert.Equal(t, "uploaded", output.Files[0].State)
	assert.Equal(t, "bad crc", output.Files[1].Error)
}

func TestServer_handleDirectory_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown mode", func(t *testing.T) {
		server := newTestServer(t, &mockOrchestrator{})

		_, _, err := server.handleDirectory(ctx, nil, DirectoryInput{Dir: "/rides", Mode: "delete"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("fatal error", func(t *testing.T) {
		server := newTestServer(t, &mockOrchestrator{report: &domain.BatchReport{}, err: domain.ErrAuthInvalid})

		_, _, err := server.handleDirectory(ctx, nil, DirectoryInput{Dir: "/rides"})

		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	})
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name string
		want domain.Mode
	}{
		{"", domain.ModeEditAndUpload},
		{"upload", domain.ModeEditAndUpload},
		{"edit", domain.ModeEditOnly},
		{"mark-processed", domain.ModeMarkProcessed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := parseMode(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}
