package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// ActivityExtension is the file extension of activity files (matched case-insensitively).
const ActivityExtension = ".fit"

// ModifiedSuffix is appended to the stem of edited output files.
const ModifiedSuffix = "_modified"

// LedgerFileName is the name of the per-directory upload ledger.
const LedgerFileName = ".uploaded_files.json"

// Mode selects what ProcessDirectory does with each candidate file.
type Mode int

// Processing modes.
const (
	// ModeEditOnly rewrites files next to their sources without uploading.
	ModeEditOnly Mode = iota
	// ModeEditAndUpload rewrites and uploads files, recording them in the ledger.
	ModeEditAndUpload
	// ModeMarkProcessed records files in the ledger without touching them.
	ModeMarkProcessed
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeEditOnly:
		return "edit"
	case ModeEditAndUpload:
		return "upload"
	case ModeMarkProcessed:
		return "mark-processed"
	default:
		return "unknown"
	}
}

// FileState is the lifecycle state of one activity file in a batch.
type FileState string

// File states.
const (
	FileDiscovered FileState = "discovered"
	FileRewritten  FileState = "rewritten"
	FileUploaded   FileState = "uploaded"
	FileFailed     FileState = "failed"
	FileSkipped    FileState = "skipped"
)

// FileResult records what happened to one file.
type FileResult struct {
	// Path is relative to the batch directory.
	Path  string
	State FileState
	// Conflict is set when the service reported the activity already existed.
	Conflict bool
	// ActivityTime is the creation time from the file_id message, if any.
	ActivityTime *time.Time
	// Output is where the rewritten file was (or, under dry-run, would be) written.
	Output string
	// Changed is the number of messages the rewrite altered.
	Changed int
	Err     error
}

// BatchReport summarises one ProcessDirectory call.
type BatchReport struct {
	ID     string
	Dir    string
	Mode   Mode
	DryRun bool

	// Discovered counts activity files found, before ledger filtering.
	Discovered int
	// Known counts files skipped because the ledger already lists them.
	Known     int
	Rewritten int
	Uploaded  int
	Conflicts int
	Skipped   int
	Failed    int

	// Interrupted is set when cancellation stopped the batch early.
	Interrupted bool

	StartedAt time.Time
	EndedAt   time.Time

	Files []FileResult
}

// Add appends a file result and updates the counters.
func (r *BatchReport) Add(res FileResult) {
	switch res.State {
	case FileRewritten:
		r.Rewritten++
	case FileUploaded:
		r.Rewritten++
		r.Uploaded++
		if res.Conflict {
			r.Conflicts++
		}
	case FileSkipped:
		r.Skipped++
	case FileFailed:
		r.Failed++
	}
	r.Files = append(r.Files, res)
}

// Duration returns how long the batch ran.
func (r *BatchReport) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// IsActivityFile reports whether name has the activity extension and is not
// an edited output or a hidden file.
func IsActivityFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ActivityExtension) {
		return false
	}
	stem := strings.TrimSuffix(base, ext)
	return !strings.HasSuffix(stem, ModifiedSuffix) && !strings.HasSuffix(stem, "-modified")
}

// ModifiedPath returns the default output path for an edited file:
// "<dir>/<stem>_modified.fit".
func ModifiedPath(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(filepath.Dir(path), stem+ModifiedSuffix+ActivityExtension)
}

// RelativePath returns path relative to dir with path separators trimmed at
// both ends, so ledgers stay valid whether dir was given absolute or relative.
func RelativePath(dir, path string) string {
	rel := path
	if absDir, err := filepath.Abs(dir); err == nil {
		if absPath, err := filepath.Abs(path); err == nil {
			if r, err := filepath.Rel(absDir, absPath); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
	}
	rel = filepath.ToSlash(rel)
	return strings.Trim(rel, `/\`)
}
