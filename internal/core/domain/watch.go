package domain

// WatchEvent is a file creation observed under a watched root.
type WatchEvent struct {
	// Path is the created file.
	Path string
	// Dir is the directory containing Path.
	Dir string
}

// WatchState is the state of the directory watcher.
type WatchState string

// Watcher states.
const (
	WatchIdle       WatchState = "idle"
	WatchArmed      WatchState = "armed"
	WatchDebouncing WatchState = "debouncing"
	WatchTriggered  WatchState = "triggered"
	WatchStopped    WatchState = "stopped"
)
