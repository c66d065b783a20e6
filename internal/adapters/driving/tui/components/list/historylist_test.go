package list

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

func sampleEntries() []domain.HistoryEntry {
	now := time.Now()
	return []domain.HistoryEntry{
		{Dir: "/rides", Path: "a.fit", State: domain.FileUploaded, RecordedAt: now},
		{Dir: "/rides", Path: "b.fit", State: domain.FileUploaded, Conflict: true, RecordedAt: now},
		{Dir: "/rides", Path: "c.fit", State: domain.FileFailed, Error: "decode failed: bad crc", RecordedAt: now},
	}
}

func TestHistoryList_Empty(t *testing.T) {
	l := NewHistoryList(nil)

	assert.Nil(t, l.Selected())
	assert.Contains(t, l.View(), "No files processed yet")
}

func TestHistoryList_View(t *testing.T) {
	l := NewHistoryList(nil)
	l.SetEntries(sampleEntries())

	view := l.View()

	assert.Contains(t, view, "Recent files (3)")
	assert.Contains(t, view, "/rides/a.fit")
	assert.Contains(t, view, "exists")
	assert.Contains(t, view, "failed")
}

func TestHistoryList_Navigation(t *testing.T) {
	l := NewHistoryList(nil)
	l.SetEntries(sampleEntries())

	l.MoveUp()
	assert.Equal(t, 0, l.SelectedIndex())

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.SelectedIndex())

	require.NotNil(t, l.Selected())
	assert.Equal(t, "c.fit", l.Selected().Path)
	assert.Contains(t, l.View(), "decode failed: bad crc")
}

func TestHistoryList_SetEntriesClampsSelection(t *testing.T) {
	l := NewHistoryList(nil)
	l.SetEntries(sampleEntries())
	l.MoveDown()
	l.MoveDown()

	l.SetEntries(sampleEntries()[:1])

	assert.Equal(t, 0, l.SelectedIndex())

	l.SetEntries(nil)
	assert.Equal(t, 0, l.SelectedIndex())
}

func TestHistoryList_ScrollsToSelection(t *testing.T) {
	var entries []domain.HistoryEntry
	for i := 0; i < 20; i++ {
		entries = append(entries, domain.HistoryEntry{Dir: "/rides", Path: string(rune('a'+i)) + ".fit"})
	}
	l := NewHistoryList(nil)
	l.SetDimensions(80, 6)
	l.SetEntries(entries)

	for i := 0; i < 19; i++ {
		l.MoveDown()
	}

	view := l.View()
	assert.Contains(t, view, "/rides/t.fit")
	assert.NotContains(t, view, "/rides/a.fit")
}
