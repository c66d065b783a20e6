package tui

import "errors"

// ErrMissingWatcher is returned when the directory watcher is not provided.
var ErrMissingWatcher = errors.New("tui: directory watcher is required")
