package status

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

func TestNewBar_Defaults(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Equal(t, domain.WatchIdle, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 80, bar.Width())
}

func TestBar_View(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(domain.WatchArmed)
	bar.SetDryRun(true)

	view := bar.View()

	assert.Contains(t, view, "armed")
	assert.Contains(t, view, "(dry run)")
	assert.Contains(t, view, "q: quit")
	assert.Contains(t, view, "r: refresh")
}

func TestBar_ViewShowsMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(domain.WatchStopped)
	bar.SetMessage("watch subscription closed")

	view := bar.View()

	assert.Contains(t, view, "stopped")
	assert.Contains(t, view, "watch subscription closed")
}

func TestBar_ViewFitsWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Equal(t, 120, lipgloss.Width(bar.View()))
}
