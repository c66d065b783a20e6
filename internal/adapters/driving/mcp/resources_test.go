package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fitedit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/services"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestExtractHistoryLimit(t *testing.T) {
	tests := []struct {
		uri   string
		limit int
		ok    bool
	}{
		{"fitedit://history", defaultHistoryLimit, true},
		{"fitedit://history/5", 5, true},
		{"fitedit://history/0", 0, false},
		{"fitedit://history/abc", 0, false},
		{"fitedit://config", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			limit, ok := extractHistoryLimit(tt.uri)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()
	recorded := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("returns entries", func(t *testing.T) {
		history := &mockHistoryService{entries: []domain.HistoryEntry{{
			Dir:        "/rides",
			Path:       "a.fit",
			Mode:       domain.ModeEditAndUpload,
			State:      domain.FileUploaded,
			RecordedAt: recorded,
		}}}
		server, err := NewServer(&Ports{Orchestrator: &mockOrchestrator{}, History: history})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, readRequest("fitedit://history/5"))

		require.NoError(t, err)
		assert.Equal(t, 5, history.limit)
		require.Len(t, result.Contents, 1)

		var infos []historyInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "a.fit", infos[0].Path)
		assert.Equal(t, "upload", infos[0].Mode)
		assert.Equal(t, "uploaded", infos[0].State)
	})

	t.Run("no history service returns empty list", func(t *testing.T) {
		server := newTestServer(t, &mockOrchestrator{})

		result, err := server.handleHistoryResource(ctx, readRequest("fitedit://history"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("invalid limit", func(t *testing.T) {
		server, err := NewServer(&Ports{Orchestrator: &mockOrchestrator{}, History: &mockHistoryService{}})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, readRequest("fitedit://history/x"))

		assert.Error(t, err)
	})

	t.Run("history error", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Orchestrator: &mockOrchestrator{},
			History:      &mockHistoryService{err: errors.New("database is locked")},
		})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, readRequest("fitedit://history"))

		assert.ErrorContains(t, err, "database is locked")
	})
}

func TestServer_handleConfigResource(t *testing.T) {
	ctx := context.Background()
	settings := services.NewSettingsService(memory.NewConfigStore(map[string]any{
		"garmin.username":    "rider@example.com",
		"garmin.password":    "secret-password",
		"device.third_party": []int{32},
	}))
	server, err := NewServer(&Ports{Orchestrator: &mockOrchestrator{}, Settings: settings})
	require.NoError(t, err)

	result, err := server.handleConfigResource(ctx, readRequest("fitedit://config"))

	require.NoError(t, err)
	text := result.Contents[0].Text
	assert.Contains(t, text, "rider@example.com")
	assert.NotContains(t, text, "secret-password")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	device := decoded["device"].(map[string]any)
	assert.Equal(t, []any{float64(32)}, device["third_party"])
}

func TestServer_handleConfigResource_NoSettings(t *testing.T) {
	server := newTestServer(t, &mockOrchestrator{})

	_, err := server.handleConfigResource(context.Background(), readRequest("fitedit://config"))

	assert.Error(t, err)
}
