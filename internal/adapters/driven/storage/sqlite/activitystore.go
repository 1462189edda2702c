package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tempo-labs/tempo-cli/internal/core/domain"
	"github.com/tempo-labs/tempo-cli/internal/core/ports/driven"
)

var _ driven.ActivityStore = (*Store)(nil)

// StartOpen creates a running activity. The partial unique index over
// open rows is the sole arbiter of the single-running invariant: a
// concurrent open activity surfaces as a constraint violation on the
// insert itself, never as a stale pre-check.
func (s *Store) StartOpen(ctx context.Context, a domain.Activity) (string, error) {
	a.Normalize()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	existing, err := readActivitiesTx(ctx, tx)
	if err != nil {
		return "", err
	}
	if err := domain.ValidateCandidate(a, existing, s.now()); err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO activities (id, message, project, start_at, stop_at)
		VALUES (?, ?, ?, ?, NULL)
	`, a.ID, nullString(a.Message), nullString(a.Project), formatTime(a.Start)); err != nil {
		return "", mapConstraintError(err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return a.ID, nil
}

// AddClosed creates a fully closed activity in one atomic step.
func (s *Store) AddClosed(ctx context.Context, a domain.Activity) (string, error) {
	a.Normalize()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	existing, err := readActivitiesTx(ctx, tx)
	if err != nil {
		return "", err
	}
	if err := domain.ValidateCandidate(a, existing, s.now()); err != nil {
		return "", err
	}

	if err := insertClosedTx(ctx, tx, a); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return a.ID, nil
}

// CloseOpen sets the stop time of the single running activity.
// The read, the validation against the committed set, and the update
// happen under one transaction.
func (s *Store) CloseOpen(ctx context.Context, message, project *string, stop time.Time) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	running, err := runningTx(ctx, tx)
	if err != nil {
		return "", err
	}

	if message != nil {
		running.Message = *message
	}
	if project != nil {
		running.Project = *project
	}
	stop = stop.Truncate(time.Second)
	running.Stop = &stop

	existing, err := readActivitiesTx(ctx, tx)
	if err != nil {
		return "", err
	}
	// ValidateCandidate skips rows sharing the candidate's id, so the
	// record being closed is excluded from the overlap set.
	if err := domain.ValidateCandidate(*running, existing, s.now()); err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE activities
		SET message = ?, project = ?, stop_at = ?
		WHERE id = ?
	`, nullString(running.Message), nullString(running.Project),
		formatTime(stop), running.ID); err != nil {
		return "", mapConstraintError(err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return running.ID, nil
}

// DiscardOpen deletes the single running activity without closing it.
// Deletion cannot violate any interval invariant, so no validation runs.
func (s *Store) DiscardOpen(ctx context.Context) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	running, err := runningTx(ctx, tx)
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", running.ID); err != nil {
		return "", fmt.Errorf("deleting activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return running.ID, nil
}

// DeleteByIDPrefix deletes the one activity whose id starts with prefix.
// Prefixes under four characters are rejected before any lookup so a
// clumsy invocation cannot match half the table.
func (s *Store) DeleteByIDPrefix(ctx context.Context, prefix string) (string, error) {
	if len(prefix) < 4 {
		return "", domain.ErrPrefixTooShort
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM activities WHERE id LIKE ?", prefix+"%")
	if err != nil {
		return "", fmt.Errorf("querying activity ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scanning activity id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterating activity ids: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", domain.ErrNotFound
	case 1:
		// fallthrough to delete
	default:
		return "", domain.ErrAmbiguousID
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", ids[0]); err != nil {
		return "", fmt.Errorf("deleting activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return ids[0], nil
}

// Query returns closed activities within the filter window, most recent
// start first. Running activities never appear here; callers wanting
// the open record use Running.
func (s *Store) Query(ctx context.Context, f domain.QueryFilter) ([]domain.Activity, error) {
	q := strings.Builder{}
	q.WriteString(`
		SELECT id, message, project, start_at, stop_at
		FROM activities
		WHERE stop_at IS NOT NULL
		  AND start_at >= ?
		  AND stop_at <= ?
	`)
	args := []any{formatTime(f.Since), formatTime(f.Until)}

	if f.Project != "" {
		q.WriteString(" AND project = ?")
		args = append(args, f.Project)
	}
	q.WriteString(" ORDER BY start_at DESC")
	if f.Limit > 0 {
		q.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity //nolint:prealloc // size unknown from query
	for rows.Next() {
		a, err := scanActivityRows(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return activities, nil
}

// Running returns the single running activity.
func (s *Store) Running(ctx context.Context) (*domain.Activity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, message, project, start_at, stop_at
		FROM running_activity
	`)
	return scanActivity(row)
}

// ImportClosed inserts all records in one transaction. Each candidate
// is validated against the committed set plus the records accepted
// earlier in the batch, so a conflict anywhere persists nothing.
func (s *Store) ImportClosed(ctx context.Context, records []domain.Activity) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	existing, err := readActivitiesTx(ctx, tx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for i := range records {
		a := records[i]
		a.Normalize()

		if err := domain.ValidateCandidate(a, existing, s.now()); err != nil {
			return nil, err
		}
		if err := insertClosedTx(ctx, tx, a); err != nil {
			return nil, err
		}

		existing = append(existing, a)
		ids = append(ids, a.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return ids, nil
}

// ==================== Helper Functions ====================

// insertClosedTx inserts a closed activity within tx.
func insertClosedTx(ctx context.Context, tx *sql.Tx, a domain.Activity) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO activities (id, message, project, start_at, stop_at)
		VALUES (?, ?, ?, ?, ?)
	`, a.ID, nullString(a.Message), nullString(a.Project),
		formatTime(a.Start), formatTime(*a.Stop)); err != nil {
		return mapConstraintError(err)
	}
	return nil
}

// runningTx reads the single open activity within tx.
func runningTx(ctx context.Context, tx *sql.Tx) (*domain.Activity, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT id, message, project, start_at, stop_at
		FROM running_activity
	`)
	return scanActivity(row)
}

// readActivitiesTx reads every stored activity within tx, as the
// committed set for validation. Personal-scale data, so a full read is
// fine.
func readActivitiesTx(ctx context.Context, tx *sql.Tx) ([]domain.Activity, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, message, project, start_at, stop_at
		FROM activities
	`)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity //nolint:prealloc // size unknown from query
	for rows.Next() {
		a, err := scanActivityRows(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return activities, nil
}

// scanActivity scans a single activity row.
func scanActivity(row *sql.Row) (*domain.Activity, error) {
	var a domain.Activity
	var message, project sql.NullString
	var startAt string
	var stopAt sql.NullString

	if err := row.Scan(&a.ID, &message, &project, &startAt, &stopAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoRunningActivity
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}

	return buildActivity(a.ID, message, project, startAt, stopAt)
}

// scanActivityRows scans an activity from *sql.Rows.
func scanActivityRows(rows *sql.Rows) (*domain.Activity, error) {
	var id string
	var message, project sql.NullString
	var startAt string
	var stopAt sql.NullString

	if err := rows.Scan(&id, &message, &project, &startAt, &stopAt); err != nil {
		return nil, fmt.Errorf("scanning activity: %w", err)
	}

	return buildActivity(id, message, project, startAt, stopAt)
}

// buildActivity assembles a domain.Activity from scanned columns.
func buildActivity(id string, message, project sql.NullString, startAt string, stopAt sql.NullString) (*domain.Activity, error) {
	start, err := parseTime(startAt)
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}

	a := domain.Activity{
		ID:      id,
		Message: message.String,
		Project: project.String,
		Start:   start,
	}
	if stopAt.Valid {
		stop, err := parseTime(stopAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing stop time: %w", err)
		}
		a.Stop = &stop
	}
	return &a, nil
}

// nullString returns nil for empty strings, otherwise the string.
// Empty metadata is stored as NULL, never as ''.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// formatTime renders a timestamp as naive local time for storage.
func formatTime(t time.Time) string {
	return t.Format(domain.TimeLayout)
}

// parseTime reads a stored timestamp back as local time.
func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(domain.TimeLayout, s, time.Local)
}

// mapConstraintError translates SQLite constraint violations into
// domain errors. The partial unique index over open rows carries the
// single-running invariant; anything else is a schema backstop firing
// after application-level validation was bypassed.
func mapConstraintError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "single_running_activity"):
		return domain.ErrActivityRunning
	case strings.Contains(msg, "overlapping activities"):
		return domain.ErrOverlap
	case strings.Contains(msg, "start_at is in the future"):
		return domain.ErrFutureStart
	case strings.Contains(msg, "stop_at is in the future"):
		return domain.ErrFutureStop
	default:
		return fmt.Errorf("writing activity: %w", err)
	}
}
