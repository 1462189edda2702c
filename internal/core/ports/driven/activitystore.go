package driven

import (
	"context"
	"time"

	"github.com/tempo-labs/tempo-cli/internal/core/domain"
)

// ActivityStore persists activities and enforces the interval
// invariants transactionally: at most one running activity, no
// overlapping intervals, no future boundaries, stop strictly after
// start. Every mutation is atomic; a rejected mutation leaves the
// store exactly as it was.
type ActivityStore interface {
	// StartOpen creates a running activity and returns its id.
	// Fails with domain.ErrActivityRunning if one is already open;
	// the uniqueness constraint in storage is the arbiter, not a
	// read-then-write check.
	StartOpen(ctx context.Context, a domain.Activity) (string, error)

	// AddClosed creates a fully closed activity in one atomic step.
	AddClosed(ctx context.Context, a domain.Activity) (string, error)

	// CloseOpen sets the stop time of the single running activity and
	// returns its id. A nil message or project keeps the stored value;
	// a pointer to the empty string clears the field. Fails with
	// domain.ErrNoRunningActivity if nothing is running.
	CloseOpen(ctx context.Context, message, project *string, stop time.Time) (string, error)

	// DiscardOpen deletes the single running activity without closing
	// it and returns its id.
	DiscardOpen(ctx context.Context) (string, error)

	// DeleteByIDPrefix deletes the one activity whose id starts with
	// prefix. Fails with domain.ErrPrefixTooShort before any lookup
	// when prefix is under four characters, domain.ErrNotFound on zero
	// matches, and domain.ErrAmbiguousID on more than one.
	DeleteByIDPrefix(ctx context.Context, prefix string) (string, error)

	// Query returns closed activities within the filter window, most
	// recent start first.
	Query(ctx context.Context, f domain.QueryFilter) ([]domain.Activity, error)

	// Running returns the single running activity, or
	// domain.ErrNoRunningActivity.
	Running(ctx context.Context) (*domain.Activity, error)

	// ImportClosed inserts all records in one transaction and returns
	// their ids in input order. If any record is invalid, individually
	// or against the batch or the committed set, nothing is persisted.
	ImportClosed(ctx context.Context, records []domain.Activity) ([]string, error)
}
