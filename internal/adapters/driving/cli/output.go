package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// Palette shared by report output.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colourMuted)
	successStyle = lipgloss.NewStyle().Foreground(colourSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colourWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colourError)
	labelStyle   = lipgloss.NewStyle().Width(12)
)

// stateStyle returns the style a file state is printed in.
func stateStyle(state domain.FileState, conflict bool) lipgloss.Style {
	switch {
	case state == domain.FileFailed:
		return errorStyle
	case conflict:
		return warningStyle
	case state == domain.FileUploaded || state == domain.FileRewritten:
		return successStyle
	default:
		return mutedStyle
	}
}

func stateLabel(state domain.FileState, conflict bool) string {
	if conflict {
		return "exists"
	}
	return string(state)
}

// renderReport prints a batch summary followed by one line per file.
func renderReport(w io.Writer, report *domain.BatchReport) {
	title := fmt.Sprintf("%s %s", report.Mode, report.Dir)
	if report.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(w, titleStyle.Render(title))

	for _, f := range report.Files {
		line := fmt.Sprintf("  %s %s",
			labelStyle.Render(stateStyle(f.State, f.Conflict).Render(stateLabel(f.State, f.Conflict))),
			f.Path,
		)
		if f.Err != nil {
			line += " " + mutedStyle.Render(f.Err.Error())
		}
		fmt.Fprintln(w, line)
	}

	parts := []string{
		fmt.Sprintf("%d found", report.Discovered),
		fmt.Sprintf("%d already uploaded", report.Known),
	}
	switch report.Mode {
	case domain.ModeEditOnly:
		parts = append(parts, fmt.Sprintf("%d edited", report.Rewritten))
	case domain.ModeEditAndUpload:
		parts = append(parts, fmt.Sprintf("%d uploaded", report.Uploaded))
		if report.Conflicts > 0 {
			parts = append(parts, fmt.Sprintf("%d existed", report.Conflicts))
		}
	case domain.ModeMarkProcessed:
		parts = append(parts, fmt.Sprintf("%d marked", report.Skipped))
	}
	summary := strings.Join(parts, ", ")
	if report.Failed > 0 {
		summary += ", " + errorStyle.Render(fmt.Sprintf("%d failed", report.Failed))
	}
	if report.Interrupted {
		summary += ", " + warningStyle.Render("interrupted")
	}
	fmt.Fprintf(w, "%s %s\n", summary, mutedStyle.Render("in "+report.Duration().Round(time.Millisecond).String()))
}

// renderHistory prints history entries, most recent first.
func renderHistory(w io.Writer, entries []domain.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No uploads recorded yet."))
		return
	}

	fmt.Fprintln(w, titleStyle.Render("Recent activity"))
	for _, e := range entries {
		activity := "-"
		if e.ActivityTime != nil {
			activity = e.ActivityTime.Local().Format("2006-01-02 15:04")
		}
		line := fmt.Sprintf("  %s  %s %-16s %s",
			mutedStyle.Render(e.RecordedAt.Local().Format("2006-01-02 15:04:05")),
			labelStyle.Render(stateStyle(e.State, e.Conflict).Render(stateLabel(e.State, e.Conflict))),
			activity,
			filepath.Join(e.Dir, e.Path),
		)
		if e.Error != "" {
			line += " " + mutedStyle.Render(e.Error)
		}
		fmt.Fprintln(w, line)
	}
}

// maskSecret hides all but the ends of a secret.
func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:2] + "..." + secret[len(secret)-2:]
}
