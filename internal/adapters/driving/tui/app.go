package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/fitedit/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/fitedit/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/fitedit/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/fitedit/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/fitedit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/logger"
)

const (
	// TickInterval is how often the watcher state and history are polled.
	TickInterval = time.Second

	// HistoryLimit is the number of history entries shown.
	HistoryLimit = 50

	// maxLogLines is the number of log lines kept on screen.
	maxLogLines = 5
)

// App is the monitor dashboard following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	root   string
	dryRun bool

	styles  *styles.Styles
	keymap  *keymap.KeyMap
	history *list.HistoryList
	bar     *status.Bar

	logs     []string
	showHelp bool
	watchErr error
	stopped  bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a dashboard that monitors root.
func NewApp(ports *Ports, root string, dryRun bool) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetDryRun(dryRun)

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		root:    root,
		dryRun:  dryRun,
		styles:  s,
		keymap:  km,
		history: list.NewHistoryList(s),
		bar:     bar,
	}, nil
}

// WithContext sets the context used for history queries.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("fitedit - "+a.root),
		a.loadHistory(),
		tick(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.bar.SetWidth(msg.Width)
		// Title, blank line, log panel and status bar.
		a.history.SetDimensions(msg.Width, msg.Height-maxLogLines-4)
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keymap.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keymap.Help):
			a.showHelp = !a.showHelp
		case key.Matches(msg, a.keymap.Refresh):
			return a, a.loadHistory()
		case key.Matches(msg, a.keymap.Up):
			a.history.MoveUp()
		case key.Matches(msg, a.keymap.Down):
			a.history.MoveDown()
		}
		return a, nil

	case messages.Tick:
		if a.stopped {
			return a, nil
		}
		a.bar.SetState(a.ports.Watcher.State())
		return a, tea.Batch(a.loadHistory(), tick())

	case messages.HistoryLoaded:
		if msg.Err != nil {
			a.appendLog("history: " + msg.Err.Error())
			return a, nil
		}
		a.history.SetEntries(msg.Entries)
		return a, nil

	case messages.LogLine:
		a.appendLog(msg.Text)
		return a, nil

	case messages.WatcherStopped:
		a.stopped = true
		a.bar.SetState(domain.WatchStopped)
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			a.watchErr = msg.Err
			a.bar.SetMessage(msg.Err.Error())
			// Leave the error on screen until the user quits.
			return a, nil
		}
		return a, tea.Quit
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("fitedit monitor"))
	b.WriteString(a.styles.Muted.Render("  " + a.root))
	b.WriteString("\n\n")

	if a.showHelp {
		b.WriteString(a.viewHelp())
	} else {
		b.WriteString(a.history.View())
	}
	b.WriteString("\n\n")

	for _, line := range a.logs {
		b.WriteString(a.styles.Muted.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(a.bar.View())
	return b.String()
}

func (a *App) viewHelp() string {
	lines := []string{a.styles.Subtitle.Render("Keys"), ""}
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			lines = append(lines, fmt.Sprintf("  %-8s %s", h.Key, h.Desc))
		}
	}
	lines = append(lines, "", a.styles.Help.Render("New activity files are uploaded after watch.debounce."))
	return strings.Join(lines, "\n")
}

func (a *App) appendLog(line string) {
	a.logs = append(a.logs, line)
	if len(a.logs) > maxLogLines {
		a.logs = a.logs[len(a.logs)-maxLogLines:]
	}
}

// loadHistory returns a command that fetches recent history.
func (a *App) loadHistory() tea.Cmd {
	if a.ports.History == nil {
		return nil
	}
	history := a.ports.History
	ctx := a.ctx
	return func() tea.Msg {
		entries, err := history.Recent(ctx, HistoryLimit)
		return messages.HistoryLoaded{Entries: entries, Err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(time.Time) tea.Msg {
		return messages.Tick{}
	})
}

// Run starts the watcher and the dashboard, and blocks until the user quits
// or ctx is cancelled. The watcher is always stopped and waited for before
// Run returns, so a file being uploaded is finished first.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.ctx = ctx

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.SetOutput(&logWriter{send: p.Send})
	defer logger.SetOutput(os.Stderr)

	watchErr := make(chan error, 1)
	go func() {
		err := a.ports.Watcher.Watch(ctx, a.root, a.dryRun)
		watchErr <- err
		p.Send(messages.WatcherStopped{Err: err})
	}()

	_, runErr := p.Run()
	cancel()
	err := <-watchErr

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard: %w", runErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Root returns the monitored directory.
func (a *App) Root() string {
	return a.root
}

// Logs returns the log lines on screen.
func (a *App) Logs() []string {
	return a.logs
}

// Err returns the error the watcher stopped with, if any.
func (a *App) Err() error {
	return a.watchErr
}

// Ready returns whether the app has received the terminal size.
func (a *App) Ready() bool {
	return a.ready
}

// History returns the history list component.
func (a *App) History() *list.HistoryList {
	return a.history
}

// StatusBar returns the status bar component.
func (a *App) StatusBar() *status.Bar {
	return a.bar
}

// logWriter forwards logger output to the running program.
type logWriter struct {
	send func(tea.Msg)
}

var _ io.Writer = (*logWriter)(nil)

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			w.send(messages.LogLine{Text: line})
		}
	}
	return len(p), nil
}
