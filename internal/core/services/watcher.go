package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
	"github.com/custodia-labs/fitedit/internal/core/ports/driving"
	"github.com/custodia-labs/fitedit/internal/logger"
)

// Ensure DirectoryWatcher implements the interface.
var _ driving.DirectoryWatcher = (*DirectoryWatcher)(nil)

// WatcherOptions configures a DirectoryWatcher.
type WatcherOptions struct {
	// Debounce is the settle delay between an event and processing.
	Debounce time.Duration
	// Mode is passed to every ProcessDirectory call.
	Mode domain.Mode
	// InitialScan processes the root once before waiting for events.
	InitialScan bool
}

// DirectoryWatcher turns file creation events into debounced,
// serialised ProcessDirectory calls.
// A single goroutine consumes events, so at most one batch runs at a time.
type DirectoryWatcher struct {
	source  driven.EventSource
	orch    driving.UploadOrchestrator
	metrics driven.MetricsRecorder
	opts    WatcherOptions

	mu    sync.RWMutex
	state domain.WatchState
}

// NewDirectoryWatcher creates a watcher. metrics may be nil.
func NewDirectoryWatcher(
	source driven.EventSource,
	orch driving.UploadOrchestrator,
	metrics driven.MetricsRecorder,
	opts WatcherOptions,
) *DirectoryWatcher {
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	return &DirectoryWatcher{
		source:  source,
		orch:    orch,
		metrics: metrics,
		opts:    opts,
		state:   domain.WatchIdle,
	}
}

// State returns the current watcher state.
func (w *DirectoryWatcher) State() domain.WatchState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *DirectoryWatcher) setState(s domain.WatchState) {
	w.mu.Lock()
	prev := w.state
	w.state = s
	w.mu.Unlock()
	if prev != s {
		logger.Debug("watcher: %s -> %s", prev, s)
	}
}

// Watch subscribes to root and processes directories as activity files
// appear. It blocks until ctx is cancelled (returning nil) or the
// subscription ends (returning domain.ErrSubscriptionClosed).
// Processing errors are logged and the watcher stays armed.
func (w *DirectoryWatcher) Watch(ctx context.Context, root string, dryRun bool) error {
	events, err := w.source.Subscribe(ctx, root)
	if err != nil {
		w.setState(domain.WatchStopped)
		return fmt.Errorf("subscribe to %s: %w", root, err)
	}
	defer w.setState(domain.WatchStopped)

	logger.Info("Monitoring %q for new activity files", root)

	if w.opts.InitialScan {
		w.trigger(ctx, []string{root}, dryRun)
	}

	for {
		w.setState(domain.WatchArmed)

		var first domain.WatchEvent
		select {
		case <-ctx.Done():
			logger.Info("Stopping monitor")
			return nil
		case ev, ok := <-events:
			if !ok {
				return domain.ErrSubscriptionClosed
			}
			first = ev
		}

		pending := &pendingDirs{seen: map[string]struct{}{}}
		w.observe(first, pending, dryRun)

		// Debouncing: every event restarts the settle delay.
		w.setState(domain.WatchDebouncing)
		closed := false
		timer := time.NewTimer(w.opts.Debounce)
	debounce:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				logger.Info("Stopping monitor; abandoning %d pending directories", len(pending.dirs))
				return nil
			case ev, ok := <-events:
				if !ok {
					closed = true
					events = nil
					continue
				}
				w.observe(ev, pending, dryRun)
				timer.Reset(w.opts.Debounce)
			case <-timer.C:
				break debounce
			}
		}

		w.trigger(ctx, pending.dirs, dryRun)

		if closed {
			return domain.ErrSubscriptionClosed
		}
	}
}

// observe records ev against its directory.
func (w *DirectoryWatcher) observe(ev domain.WatchEvent, pending *pendingDirs, dryRun bool) {
	if w.metrics != nil {
		w.metrics.WatchEvent()
	}
	if dryRun {
		logger.Info("Dry run: detected new file %q", ev.Path)
	} else {
		logger.Info("Detected new file %q", ev.Path)
	}
	pending.add(ev.Dir)
}

// trigger runs one batch per directory, in order, each to completion.
func (w *DirectoryWatcher) trigger(ctx context.Context, dirs []string, dryRun bool) {
	w.setState(domain.WatchTriggered)

	for _, dir := range dirs {
		if ctx.Err() != nil {
			return
		}
		if dryRun {
			logger.Info("Dry run: would process %q", dir)
			continue
		}

		report, err := w.orch.ProcessDirectory(ctx, dir, w.opts.Mode, false)
		if err != nil {
			logger.Error("Processing %q failed: %v", dir, err)
			continue
		}
		logger.Debug("Processed %q: %d uploaded, %d failed", dir, report.Uploaded, report.Failed)
	}
}

// pendingDirs holds directories in the order their first event arrived.
type pendingDirs struct {
	dirs []string
	seen map[string]struct{}
}

func (p *pendingDirs) add(dir string) {
	if _, ok := p.seen[dir]; ok {
		return
	}
	p.seen[dir] = struct{}{}
	p.dirs = append(p.dirs, dir)
}
