package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, DatabaseName)
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var versions int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 1, versions)

	var tableExists int
	err := store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='uploads'",
	).Scan(&tableExists)
	require.NoError(t, err)
	assert.Equal(t, 1, tableExists)
}

func TestNewStore_ReopenSkipsApplied(t *testing.T) {
	tempDir := t.TempDir()

	first, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, first.HistoryStore().Record(context.Background(), []domain.HistoryEntry{
		{BatchID: "b1", Dir: "/rides", Path: "a.fit", State: domain.FileUploaded},
	}))
	require.NoError(t, first.Close())

	second, err := NewStore(tempDir)
	require.NoError(t, err)
	defer second.Close()

	entries, err := second.HistoryStore().Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistoryStore_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	history := setupTestStore(t).HistoryStore()
	activity := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)
	recorded := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	err := history.Record(ctx, []domain.HistoryEntry{
		{
			BatchID:      "b1",
			Dir:          "/rides",
			Path:         "morning.fit",
			Mode:         domain.ModeEditAndUpload,
			State:        domain.FileUploaded,
			Conflict:     true,
			ActivityTime: &activity,
			RecordedAt:   recorded,
		},
		{
			BatchID:    "b1",
			Dir:        "/rides",
			Path:       "broken.fit",
			Mode:       domain.ModeEditAndUpload,
			State:      domain.FileFailed,
			Error:      "decode failed: missing .FIT signature",
			RecordedAt: recorded,
		},
	})
	require.NoError(t, err)

	entries, err := history.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "broken.fit", entries[0].Path)
	assert.Equal(t, domain.FileFailed, entries[0].State)
	assert.Nil(t, entries[0].ActivityTime)
	assert.Contains(t, entries[0].Error, "decode failed")

	assert.Equal(t, "morning.fit", entries[1].Path)
	assert.Equal(t, domain.ModeEditAndUpload, entries[1].Mode)
	assert.True(t, entries[1].Conflict)
	require.NotNil(t, entries[1].ActivityTime)
	assert.True(t, activity.Equal(*entries[1].ActivityTime))
	assert.True(t, recorded.Equal(entries[1].RecordedAt))
}

func TestHistoryStore_RecordDefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	history := setupTestStore(t).HistoryStore()
	before := time.Now().Add(-time.Second)

	require.NoError(t, history.Record(ctx, []domain.HistoryEntry{{BatchID: "b", Path: "a.fit", State: domain.FileRewritten}}))

	entries, err := history.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].RecordedAt.After(before))
}

func TestHistoryStore_RecordEmpty(t *testing.T) {
	history := setupTestStore(t).HistoryStore()

	assert.NoError(t, history.Record(context.Background(), nil))
}

func TestHistoryStore_RecentLimit(t *testing.T) {
	ctx := context.Background()
	history := setupTestStore(t).HistoryStore()
	for _, name := range []string{"a.fit", "b.fit", "c.fit"} {
		require.NoError(t, history.Record(ctx, []domain.HistoryEntry{{BatchID: "b", Path: name, State: domain.FileUploaded}}))
	}

	entries, err := history.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c.fit", entries[0].Path)
	assert.Equal(t, "b.fit", entries[1].Path)

	none, err := history.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistoryStore_Prune(t *testing.T) {
	ctx := context.Background()
	history := setupTestStore(t).HistoryStore()
	for _, name := range []string{"a.fit", "b.fit", "c.fit", "d.fit"} {
		require.NoError(t, history.Record(ctx, []domain.HistoryEntry{{BatchID: "b", Path: name, State: domain.FileUploaded}}))
	}

	require.NoError(t, history.Prune(ctx, 2))

	entries, err := history.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "d.fit", entries[0].Path)
	assert.Equal(t, "c.fit", entries[1].Path)

	require.NoError(t, history.Prune(ctx, 0))
	entries, err = history.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryStore_ClosedDatabase(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	history := store.HistoryStore()
	assert.Error(t, history.Record(context.Background(), []domain.HistoryEntry{{Path: "a.fit"}}))
	_, err = history.Recent(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, history.Prune(context.Background(), 1))
}
