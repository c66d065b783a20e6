// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/fitedit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// HistoryList displays processing history in a navigable list.
type HistoryList struct {
	entries  []domain.HistoryEntry
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewHistoryList creates a new history list component.
func NewHistoryList(s *styles.Styles) *HistoryList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &HistoryList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders the list.
func (h *HistoryList) View() string {
	if len(h.entries) == 0 {
		return h.styles.Muted.Render("No files processed yet")
	}

	lines := make([]string, 0, len(h.entries)+3)
	lines = append(lines, h.styles.Subtitle.Render(fmt.Sprintf("Recent files (%d)", len(h.entries))), "")

	visible := h.height - 3
	if visible < 1 {
		visible = 1
	}
	start := 0
	if h.selected >= visible {
		start = h.selected - visible + 1
	}
	end := start + visible
	if end > len(h.entries) {
		end = len(h.entries)
	}

	for i := start; i < end; i++ {
		lines = append(lines, h.renderEntry(i, &h.entries[i]))
	}

	if sel := h.Selected(); sel != nil && sel.Error != "" {
		lines = append(lines, "", h.styles.Error.Render(sel.Error))
	}

	return strings.Join(lines, "\n")
}

func (h *HistoryList) renderEntry(index int, e *domain.HistoryEntry) string {
	indicator := "  "
	if index == h.selected {
		indicator = "> "
	}

	label := string(e.State)
	if e.Conflict {
		label = "exists"
	}

	path := filepath.Join(e.Dir, e.Path)
	maxPath := h.width - 32
	if maxPath < 10 {
		maxPath = 10
	}
	if len(path) > maxPath {
		path = "..." + path[len(path)-maxPath+3:]
	}

	line := fmt.Sprintf("%s%s  %-10s %s",
		indicator,
		h.styles.Muted.Render(e.RecordedAt.Local().Format("15:04:05")),
		h.styles.FileState(e.State, e.Conflict).Render(label),
		path,
	)
	if index == h.selected {
		return h.styles.Normal.Bold(true).Render(line)
	}
	return line
}

// SetEntries replaces the entries, keeping the selection in range.
func (h *HistoryList) SetEntries(entries []domain.HistoryEntry) {
	h.entries = entries
	if h.selected >= len(entries) {
		h.selected = max(len(entries)-1, 0)
	}
}

// Entries returns the displayed entries.
func (h *HistoryList) Entries() []domain.HistoryEntry {
	return h.entries
}

// Selected returns the selected entry, or nil when the list is empty.
func (h *HistoryList) Selected() *domain.HistoryEntry {
	if len(h.entries) == 0 {
		return nil
	}
	return &h.entries[h.selected]
}

// SelectedIndex returns the selection index.
func (h *HistoryList) SelectedIndex() int {
	return h.selected
}

// MoveUp moves the selection up.
func (h *HistoryList) MoveUp() {
	if h.selected > 0 {
		h.selected--
	}
}

// MoveDown moves the selection down.
func (h *HistoryList) MoveDown() {
	if h.selected < len(h.entries)-1 {
		h.selected++
	}
}

// SetDimensions sets the list dimensions.
func (h *HistoryList) SetDimensions(width, height int) {
	h.width = width
	h.height = height
}
