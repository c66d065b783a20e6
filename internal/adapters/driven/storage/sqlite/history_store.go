package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Record appends entries in a single transaction.
func (s *historyStore) Record(ctx context.Context, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO uploads (batch_id, dir, path, mode, state, conflict, activity_time, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		recordedAt := e.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = time.Now()
		}
		_, err := stmt.ExecContext(ctx,
			e.BatchID,
			e.Dir,
			e.Path,
			int(e.Mode),
			string(e.State),
			e.Conflict,
			formatTimePtr(e.ActivityTime),
			e.Error,
			formatTime(recordedAt),
		)
		if err != nil {
			return fmt.Errorf("recording %s: %w", e.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, most recent first.
func (s *historyStore) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT batch_id, dir, path, mode, state, conflict, activity_time, error, recorded_at
		FROM uploads ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			e            domain.HistoryEntry
			mode         int
			state        string
			activityTime sql.NullString
			recordedAt   string
		)
		if err := rows.Scan(
			&e.BatchID, &e.Dir, &e.Path, &mode, &state, &e.Conflict,
			&activityTime, &e.Error, &recordedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		e.Mode = domain.Mode(mode)
		e.State = domain.FileState(state)
		if activityTime.Valid {
			t, err := parseTime(activityTime.String)
			if err != nil {
				return nil, err
			}
			e.ActivityTime = &t
		}
		if e.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}

// Prune keeps only the most recent 'keep' entries.
func (s *historyStore) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM uploads WHERE id NOT IN (
			SELECT id FROM uploads ORDER BY id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning history: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t, nil
}
