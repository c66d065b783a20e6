package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestStyles_FileState(t *testing.T) {
	s := DefaultStyles()

	tests := []struct {
		name     string
		state    domain.FileState
		conflict bool
		want     lipgloss.Color
	}{
		{"failed", domain.FileFailed, false, s.theme.Error},
		{"conflict", domain.FileUploaded, true, s.theme.Warning},
		{"uploaded", domain.FileUploaded, false, s.theme.Success},
		{"rewritten", domain.FileRewritten, false, s.theme.Success},
		{"skipped", domain.FileSkipped, false, s.theme.Muted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.FileState(tt.state, tt.conflict).GetForeground())
		})
	}
}

func TestStyles_WatchState(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.theme.Success, s.WatchState(domain.WatchArmed).GetForeground())
	assert.Equal(t, s.theme.Warning, s.WatchState(domain.WatchDebouncing).GetForeground())
	assert.Equal(t, s.theme.Warning, s.WatchState(domain.WatchTriggered).GetForeground())
	assert.Equal(t, s.theme.Error, s.WatchState(domain.WatchStopped).GetForeground())
	assert.Equal(t, s.theme.Muted, s.WatchState(domain.WatchIdle).GetForeground())
}
