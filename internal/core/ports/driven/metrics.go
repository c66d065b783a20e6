package driven

import "github.com/custodia-labs/fitedit/internal/core/domain"

// MetricsRecorder receives processing measurements.
type MetricsRecorder interface {
	// FileProcessed counts one file result.
	FileProcessed(res domain.FileResult)

	// BatchCompleted counts a finished batch and observes its duration.
	BatchCompleted(report *domain.BatchReport)

	// WatchEvent counts a qualifying filesystem event.
	WatchEvent()
}
