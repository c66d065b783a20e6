package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
	"github.com/custodia-labs/fitedit/internal/core/ports/driving"
	"github.com/custodia-labs/fitedit/internal/logger"
)

// Ensure UploadOrchestrator implements the interface.
var _ driving.UploadOrchestrator = (*UploadOrchestrator)(nil)

// historyRetention is how many history entries survive each prune.
const historyRetention = 1000

// OrchestratorDeps holds the collaborators of an UploadOrchestrator.
// History and Metrics are optional.
type OrchestratorDeps struct {
	Codec    driven.Codec
	Ledgers  driven.LedgerStore
	Service  driven.ActivityService
	Sessions *SessionManager
	Rewriter *MessageRewriter
	History  driven.HistoryStore
	Metrics  driven.MetricsRecorder
	// TempDir holds transient encodes; os.TempDir() when empty.
	TempDir string
}

// UploadOrchestrator coordinates rewriting and uploading activity files.
type UploadOrchestrator struct {
	codec    driven.Codec
	ledgers  driven.LedgerStore
	service  driven.ActivityService
	sessions *SessionManager
	rewriter *MessageRewriter
	history  driven.HistoryStore
	metrics  driven.MetricsRecorder
	tempDir  string
}

// NewUploadOrchestrator creates an orchestrator from its dependencies.
func NewUploadOrchestrator(deps OrchestratorDeps) *UploadOrchestrator {
	return &UploadOrchestrator{
		codec:    deps.Codec,
		ledgers:  deps.Ledgers,
		service:  deps.Service,
		sessions: deps.Sessions,
		rewriter: deps.Rewriter,
		history:  deps.History,
		metrics:  deps.Metrics,
		tempDir:  deps.TempDir,
	}
}

// ProcessDirectory handles every pending activity file directly under dir.
//
// Per-file failures (decode, encode, upload) are recorded in the report and
// never stop the batch. Session and ledger failures abort it and are returned.
// The ledger is flushed once at the end, including after an abort, so files
// uploaded before the failure are not uploaded again.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *UploadOrchestrator) ProcessDirectory(
	ctx context.Context,
	dir string,
	mode domain.Mode,
	dryRun bool,
) (*domain.BatchReport, error) {
	report := &domain.BatchReport{
		ID:        uuid.NewString(),
		Dir:       dir,
		Mode:      mode,
		DryRun:    dryRun,
		StartedAt: time.Now(),
	}
	defer o.finish(ctx, report)

	logger.Section(fmt.Sprintf("%s %s", mode, dir))

	// 1. Enumerate activity files
	files, err := listActivityFiles(dir)
	if err != nil {
		return report, fmt.Errorf("list activity files in %s: %w", dir, err)
	}
	report.Discovered = len(files)

	// 2. Load ledger and drop files already handled
	ledger, err := LoadLedger(ctx, o.ledgers, dir, dryRun)
	if err != nil {
		return report, err
	}

	pending := make([]string, 0, len(files))
	for _, f := range files {
		if ledger.Contains(f) {
			report.Known++
			continue
		}
		pending = append(pending, f)
	}

	logger.Info("Found %d files to %s in %q", len(pending), mode, dir)
	logger.Debug("Files to %s: %v", mode, pending)
	if len(pending) == 0 {
		return report, nil
	}

	// 3. Open the upload session once per batch
	var session *domain.Session
	if mode == domain.ModeEditAndUpload && !dryRun {
		session, err = o.session(ctx)
		if err != nil {
			return report, err
		}
	}

	// 4. Process files in enumeration order
	var fatal error
	for _, rel := range pending {
		if ctx.Err() != nil {
			report.Interrupted = true
			logger.Warn("Interrupted; %d files left unprocessed in %q", len(pending)-len(report.Files), dir)
			break
		}

		// An in-flight file completes even if ctx is cancelled meanwhile.
		fileCtx := context.WithoutCancel(ctx)
		res, err := o.processFile(fileCtx, dir, rel, mode, dryRun, ledger, session)
		report.Add(res)
		if o.metrics != nil {
			o.metrics.FileProcessed(res)
		}
		if err != nil {
			fatal = err
			break
		}
	}

	// 5. Persist the ledger once for the whole batch
	if err := ledger.Flush(context.WithoutCancel(ctx)); err != nil {
		return report, errors.Join(fatal, err)
	}

	return report, fatal
}

// processFile runs one candidate through the pipeline. A non-nil error means
// the batch must stop; per-file failures are only reflected in the result.
func (o *UploadOrchestrator) processFile(
	ctx context.Context,
	dir, rel string,
	mode domain.Mode,
	dryRun bool,
	ledger *UploadLedger,
	session *domain.Session,
) (domain.FileResult, error) {
	res := domain.FileResult{Path: rel, State: domain.FileDiscovered}
	path := filepath.Join(dir, rel)

	if mode == domain.ModeMarkProcessed {
		logger.Info("Marking %q as processed", rel)
		ledger.Record(rel)
		res.State = domain.FileSkipped
		return res, nil
	}

	logger.Info("Processing %q", rel)
	rw, data, err := o.rewriteFile(path)
	if err != nil {
		logger.Error("Skipping %q: %v", rel, err)
		res.State = domain.FileFailed
		res.Err = err
		return res, nil
	}
	res.ActivityTime = rw.ActivityTime
	res.Changed = rw.Changed
	res.State = domain.FileRewritten
	if rw.ActivityTime != nil {
		logger.Info("Activity timestamp is %q", rw.ActivityTime.Format(time.RFC3339))
	}

	switch mode {
	case domain.ModeEditOnly:
		res.Output = domain.ModifiedPath(path)
		if err := o.writeOutput(res.Output, data, dryRun); err != nil {
			logger.Error("Could not save %q: %v", res.Output, err)
			res.State = domain.FileFailed
			res.Err = err
		}
		return res, nil

	case domain.ModeEditAndUpload:
		if dryRun {
			res.Output = filepath.Join(o.tempDirectory(), "fitedit-"+uuid.NewString()+domain.ActivityExtension)
			logger.Info("Dry run: would upload %q (%d bytes)", rel, len(data))
			ledger.Record(rel)
			return res, nil
		}

		conflict, err := o.upload(ctx, session, filepath.Base(rel), data)
		if err != nil {
			res.State = domain.FileFailed
			res.Err = err
			if domain.IsSessionError(err) {
				logger.Error("Session rejected while uploading %q: %v", rel, err)
				o.sessions.Invalidate(ctx)
				return res, fmt.Errorf("upload %s: %w", rel, err)
			}
			logger.Error("Upload of %q failed: %v", rel, err)
			return res, nil
		}

		res.State = domain.FileUploaded
		res.Conflict = conflict
		if conflict {
			logger.Warn("Received HTTP conflict (activity already exists) for %q", rel)
		} else {
			logger.Info("Successfully uploaded %q", rel)
		}
		ledger.Record(rel)
		return res, nil
	}

	return res, nil
}

// EditFile rewrites a single file to output.
func (o *UploadOrchestrator) EditFile(_ context.Context, path, output string, dryRun bool) (*driving.EditResult, error) {
	rw, data, err := o.rewriteFile(path)
	if err != nil {
		return nil, err
	}
	if output == "" {
		output = domain.ModifiedPath(path)
	}
	if err := o.writeOutput(output, data, dryRun); err != nil {
		return nil, err
	}

	return &driving.EditResult{
		Output:       output,
		ActivityTime: rw.ActivityTime,
		Changed:      rw.Changed,
	}, nil
}

// UploadFile rewrites and uploads a single file. No ledger is consulted or
// updated; a conflict is reported in the result, not as an error.
func (o *UploadOrchestrator) UploadFile(ctx context.Context, path string, dryRun bool) (*driving.EditResult, error) {
	rw, data, err := o.rewriteFile(path)
	if err != nil {
		return nil, err
	}
	result := &driving.EditResult{
		ActivityTime: rw.ActivityTime,
		Changed:      rw.Changed,
	}

	if dryRun {
		logger.Info("Dry run: would upload %q (%d bytes)", path, len(data))
		return result, nil
	}

	session, err := o.session(ctx)
	if err != nil {
		return nil, err
	}

	conflict, err := o.upload(context.WithoutCancel(ctx), session, filepath.Base(path), data)
	if err != nil {
		if domain.IsSessionError(err) {
			o.sessions.Invalidate(ctx)
		}
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	result.Conflict = conflict
	if conflict {
		logger.Warn("Received HTTP conflict (activity already exists) for %q", path)
	} else {
		logger.Info("Successfully uploaded %q", path)
	}
	return result, nil
}

// rewriteFile reads, decodes, rewrites and re-encodes one file.
func (o *UploadOrchestrator) rewriteFile(path string) (RewriteResult, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RewriteResult{}, nil, fmt.Errorf("read %s: %w", path, err)
	}

	messages, err := o.codec.Decode(raw)
	if err != nil {
		return RewriteResult{}, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	rw := o.rewriter.Rewrite(messages)
	logger.Debug("Rewrote %d of %d messages in %s", rw.Changed, len(messages), path)

	data, err := o.codec.Encode(rw.Messages)
	if err != nil {
		return RewriteResult{}, nil, fmt.Errorf("encode %s: %w", path, err)
	}
	return rw, data, nil
}

// upload stages data in a transient file and streams it to the service.
// It reports whether the service answered with a conflict.
func (o *UploadOrchestrator) upload(ctx context.Context, session *domain.Session, name string, data []byte) (bool, error) {
	tmp, err := os.CreateTemp(o.tempDirectory(), "fitedit-*"+domain.ActivityExtension)
	if err != nil {
		return false, fmt.Errorf("create transient file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(data); err != nil {
		return false, fmt.Errorf("write transient file: %w", err)
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		return false, fmt.Errorf("rewind transient file: %w", err)
	}

	logger.Debug("Uploading modified file %s as %q", tmp.Name(), name)
	ack, err := o.service.Upload(ctx, session, name, tmp)
	if ack != nil && ack.Session != nil && o.sessions != nil {
		o.sessions.Renewed(ctx, ack.Session)
	}
	if errors.Is(err, domain.ErrUploadConflict) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return ack != nil && ack.Conflict, nil
}

func (o *UploadOrchestrator) writeOutput(output string, data []byte, dryRun bool) error {
	if dryRun {
		logger.Info("Dry run: would save modified data to %q", output)
		return nil
	}
	logger.Info("Saving modified data to %q", output)
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}

func (o *UploadOrchestrator) session(ctx context.Context) (*domain.Session, error) {
	if o.sessions == nil {
		return nil, fmt.Errorf("%w: no session manager configured", domain.ErrAuthRequired)
	}
	return o.sessions.Session(ctx)
}

func (o *UploadOrchestrator) tempDirectory() string {
	if o.tempDir != "" {
		return o.tempDir
	}
	return os.TempDir()
}

// finish stamps the report and publishes it to history and metrics.
func (o *UploadOrchestrator) finish(ctx context.Context, report *domain.BatchReport) {
	report.EndedAt = time.Now()
	logger.Info("Batch %s: %d uploaded (%d conflicts), %d rewritten, %d skipped, %d failed, %d already known",
		report.ID, report.Uploaded, report.Conflicts, report.Rewritten, report.Skipped, report.Failed, report.Known)

	if o.metrics != nil {
		o.metrics.BatchCompleted(report)
	}

	if o.history == nil || len(report.Files) == 0 || report.DryRun {
		return
	}

	hctx := context.WithoutCancel(ctx)
	entries := make([]domain.HistoryEntry, 0, len(report.Files))
	for _, f := range report.Files {
		entry := domain.HistoryEntry{
			BatchID:      report.ID,
			Dir:          report.Dir,
			Path:         f.Path,
			Mode:         report.Mode,
			State:        f.State,
			Conflict:     f.Conflict,
			ActivityTime: f.ActivityTime,
			RecordedAt:   report.EndedAt,
		}
		if f.Err != nil {
			entry.Error = f.Err.Error()
		}
		entries = append(entries, entry)
	}
	if err := o.history.Record(hctx, entries); err != nil {
		logger.Warn("Could not record history: %v", err)
		return
	}
	if err := o.history.Prune(hctx, historyRetention); err != nil {
		logger.Warn("Could not prune history: %v", err)
	}
}

// listActivityFiles returns activity file names directly under dir in
// lexical order.
func listActivityFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string //nolint:prealloc // most entries may be filtered
	for _, e := range entries {
		if e.IsDir() || !domain.IsActivityFile(e.Name()) {
			continue
		}
		files = append(files, domain.RelativePath(dir, filepath.Join(dir, e.Name())))
	}
	return files, nil
}
