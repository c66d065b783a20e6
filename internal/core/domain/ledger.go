package domain

// Ledger is the set of files from one directory that have already been
// uploaded (or marked as processed). Paths are relative to Dir.
// Insertion order is preserved for persistence; membership is O(1).
type Ledger struct {
	Dir   string
	paths []string
	index map[string]struct{}
	dirty bool
}

// NewLedger creates a ledger for dir seeded with paths.
// Duplicate paths are collapsed, keeping the first occurrence.
func NewLedger(dir string, paths []string) *Ledger {
	l := &Ledger{
		Dir:   dir,
		paths: make([]string, 0, len(paths)),
		index: make(map[string]struct{}, len(paths)),
	}
	for _, p := range paths {
		if _, ok := l.index[p]; ok {
			continue
		}
		l.index[p] = struct{}{}
		l.paths = append(l.paths, p)
	}
	return l
}

// Contains reports whether path is recorded.
func (l *Ledger) Contains(path string) bool {
	_, ok := l.index[path]
	return ok
}

// Record adds path. It returns false if the path was already present.
func (l *Ledger) Record(path string) bool {
	if l.Contains(path) {
		return false
	}
	l.index[path] = struct{}{}
	l.paths = append(l.paths, path)
	l.dirty = true
	return true
}

// Paths returns a copy of the recorded paths in insertion order.
func (l *Ledger) Paths() []string {
	out := make([]string, len(l.paths))
	copy(out, l.paths)
	return out
}

// Len returns the number of recorded paths.
func (l *Ledger) Len() int {
	return len(l.paths)
}

// Dirty reports whether paths were recorded since the last MarkClean.
func (l *Ledger) Dirty() bool {
	return l.dirty
}

// MarkClean clears the dirty flag after a successful flush.
func (l *Ledger) MarkClean() {
	l.dirty = false
}
