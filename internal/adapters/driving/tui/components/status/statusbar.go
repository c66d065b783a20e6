// Package status provides the dashboard status bar.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/fitedit/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/fitedit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// Bar displays the watcher state and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   domain.WatchState
	message string
	dryRun  bool
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  domain.WatchIdle,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	left := s.styles.WatchState(s.state).Render(string(s.state))
	if s.dryRun {
		left += s.styles.Warning.Render(" (dry run)")
	}
	if s.message != "" {
		left += " " + s.styles.Error.Render(s.message)
	}
	return left
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the displayed watcher state.
func (s *Bar) SetState(state domain.WatchState) {
	s.state = state
}

// State returns the displayed watcher state.
func (s *Bar) State() domain.WatchState {
	return s.state
}

// SetMessage sets an error message shown after the state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetDryRun marks the session as a dry run.
func (s *Bar) SetDryRun(dryRun bool) {
	s.dryRun = dryRun
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
