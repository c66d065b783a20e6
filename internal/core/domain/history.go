package domain

import "time"

// HistoryEntry is one recorded processing attempt.
type HistoryEntry struct {
	BatchID      string
	Dir          string
	Path         string
	Mode         Mode
	State        FileState
	Conflict     bool
	ActivityTime *time.Time
	Error        string
	RecordedAt   time.Time
}
