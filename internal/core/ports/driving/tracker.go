package driving

import (
	"context"
	"time"

	"github.com/tempo-labs/tempo-cli/internal/core/domain"
)

// StartInput parametrizes starting a new running activity.
// Nil pointers mean the field was not given.
type StartInput struct {
	Message *string
	Project *string
	// At backdates the start; nil means now.
	At *time.Time
}

// StopInput parametrizes closing the running activity.
// A nil Message or Project keeps the stored value; a pointer to the
// empty string clears the field.
type StopInput struct {
	Message *string
	Project *string
	// At backdates the stop; nil means now.
	At *time.Time
}

// AddInput parametrizes recording an already finished activity.
type AddInput struct {
	Message *string
	Project *string
	Start   time.Time
	Stop    time.Time
}

// LogInput parametrizes an activity listing. Zero Since/Until fall back
// to the configured defaults (a window of the recent past up to now).
type LogInput struct {
	Since   time.Time
	Until   time.Time
	Project string
}

// TrackerService exposes the activity-tracking operations driven by the CLI.
type TrackerService interface {
	// Status returns the running activity, or domain.ErrNoRunningActivity.
	Status(ctx context.Context) (*domain.Activity, error)

	// Start begins tracking a new activity and returns its id.
	Start(ctx context.Context, in StartInput) (string, error)

	// Stop closes the running activity and returns its id.
	Stop(ctx context.Context, in StopInput) (string, error)

	// Discard deletes the running activity without closing it.
	Discard(ctx context.Context) (string, error)

	// Add records a finished activity and returns its id.
	Add(ctx context.Context, in AddInput) (string, error)

	// Log lists closed activities in the window, most recent first.
	// Depending on configuration the unfiltered view may be topped by
	// the running activity.
	Log(ctx context.Context, in LogInput) ([]domain.Activity, error)

	// Delete removes the one activity matching the id prefix.
	Delete(ctx context.Context, prefix string) (string, error)

	// Import atomically records a batch of finished activities and
	// returns their ids in input order.
	Import(ctx context.Context, records []ImportRecord) ([]string, error)
}

// ImportRecord is one externally sourced finished activity.
type ImportRecord struct {
	Message string
	Project string
	Start   time.Time
	Stop    time.Time
}
