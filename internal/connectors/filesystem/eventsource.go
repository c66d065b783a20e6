package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
	"github.com/custodia-labs/fitedit/internal/logger"
)

// Ensure EventSource implements the interface.
var _ driven.EventSource = (*EventSource)(nil)

// eventBuffer is the capacity of a subscription's channel.
const eventBuffer = 64

// EventSource watches directory trees for new activity files.
type EventSource struct {
	mu       sync.Mutex
	closed   bool
	watchers map[*fsnotify.Watcher]struct{}
}

// New creates an event source.
func New() *EventSource {
	return &EventSource{watchers: make(map[*fsnotify.Watcher]struct{})}
}

// Subscribe starts watching root recursively. The channel is closed when ctx
// is cancelled, the source is closed, or fsnotify stops delivering events.
func (s *EventSource) Subscribe(ctx context.Context, root string) (<-chan domain.WatchEvent, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		watcher.Close()
		return nil, errors.New("event source is closed")
	}
	s.watchers[watcher] = struct{}{}
	s.mu.Unlock()

	if _, err := addTree(watcher, root); err != nil {
		s.release(watcher)
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	logger.Debug("Watching %s recursively", root)

	out := make(chan domain.WatchEvent, eventBuffer)
	go s.run(ctx, watcher, out)
	return out, nil
}

// Close stops every subscription. Further Subscribe calls fail.
func (s *EventSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for w := range s.watchers {
		errs = append(errs, w.Close())
		delete(s.watchers, w)
	}
	return errors.Join(errs...)
}

func (s *EventSource) release(w *fsnotify.Watcher) {
	s.mu.Lock()
	delete(s.watchers, w)
	s.mu.Unlock()
	w.Close()
}

func (s *EventSource) run(ctx context.Context, watcher *fsnotify.Watcher, out chan<- domain.WatchEvent) {
	defer close(out)
	defer s.release(watcher)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			for _, we := range handleFsEvent(watcher, ev) {
				select {
				case out <- we:
				case <-ctx.Done():
					return
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Filesystem watch error: %v", err)
		}
	}
}

// handleFsEvent converts an fsnotify event into zero or more watch events.
// A created directory is added to the watch and its activity files reported.
func handleFsEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) []domain.WatchEvent {
	if !ev.Has(fsnotify.Create) || isHidden(ev.Name) {
		return nil
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		// Removed before we looked.
		return nil
	}

	if info.IsDir() {
		files, err := addTree(watcher, ev.Name)
		if err != nil {
			logger.Warn("Failed to watch new directory %s: %v", ev.Name, err)
		}
		events := make([]domain.WatchEvent, 0, len(files))
		for _, f := range files {
			events = append(events, newEvent(f))
		}
		return events
	}

	if !info.Mode().IsRegular() || !domain.IsActivityFile(ev.Name) {
		return nil
	}
	return []domain.WatchEvent{newEvent(ev.Name)}
}

// addTree watches dir and every non-hidden directory below it, returning the
// activity files found on the way.
func addTree(watcher *fsnotify.Watcher, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Debug("Skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if path != dir && isHidden(path) {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		if d.Type().IsRegular() && domain.IsActivityFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func newEvent(path string) domain.WatchEvent {
	return domain.WatchEvent{Path: path, Dir: filepath.Dir(path)}
}

// isHidden returns true if the base name starts with a dot.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
