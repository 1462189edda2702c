package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tempo-labs/tempo-cli/internal/core/domain"
	"github.com/tempo-labs/tempo-cli/internal/core/ports/driven"
	"github.com/tempo-labs/tempo-cli/internal/core/ports/driving"
	"github.com/tempo-labs/tempo-cli/internal/logger"
)

// Ensure TrackerService implements the interface.
var _ driving.TrackerService = (*TrackerService)(nil)

// LogPolicy configures the listing defaults. The product has gone back
// and forth on these, so they are configuration rather than contract.
type LogPolicy struct {
	// SinceDays is the default window size in days, anchored at midnight.
	SinceDays int

	// Limit caps the default listing; 0 means unlimited.
	Limit int

	// IncludeRunning surfaces the running activity on top of the
	// unfiltered default view. Filtered views never include it.
	IncludeRunning bool
}

// DefaultLogPolicy matches the historical behavior: the past seven
// days, no cap, closed activities only.
func DefaultLogPolicy() LogPolicy {
	return LogPolicy{SinceDays: 7}
}

// LogPolicyFromConfig reads the listing policy from configuration,
// falling back to defaults for unset keys.
func LogPolicyFromConfig(cfg driven.ConfigStore) LogPolicy {
	p := DefaultLogPolicy()
	if days := cfg.GetInt("log.since_days"); days > 0 {
		p.SinceDays = days
	}
	if limit := cfg.GetInt("log.limit"); limit > 0 {
		p.Limit = limit
	}
	p.IncludeRunning = cfg.GetBool("log.include_running")
	return p
}

// TrackerService orchestrates the activity store for the CLI commands.
type TrackerService struct {
	store  driven.ActivityStore
	policy LogPolicy
	now    func() time.Time
}

// NewTrackerService creates a tracker service over the given store.
func NewTrackerService(store driven.ActivityStore, policy LogPolicy) *TrackerService {
	return &TrackerService{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

// SetClock overrides the service's time source. Used in tests.
func (s *TrackerService) SetClock(now func() time.Time) {
	s.now = now
}

// Status returns the running activity, or domain.ErrNoRunningActivity.
func (s *TrackerService) Status(ctx context.Context) (*domain.Activity, error) {
	return s.store.Running(ctx)
}

// Start begins tracking a new activity and returns its id.
func (s *TrackerService) Start(ctx context.Context, in driving.StartInput) (string, error) {
	if err := domain.ValidateMetadata(in.Message, in.Project); err != nil {
		return "", err
	}

	start := s.now()
	if in.At != nil {
		start = *in.At
	}

	a := domain.Activity{
		ID:      uuid.NewString(),
		Message: deref(in.Message),
		Project: deref(in.Project),
		Start:   start,
	}
	logger.Debug("starting activity %s at %s", a.ID, start.Format(domain.TimeLayout))
	return s.store.StartOpen(ctx, a)
}

// Stop closes the running activity and returns its id. An explicit
// empty message or project clears the stored field.
func (s *TrackerService) Stop(ctx context.Context, in driving.StopInput) (string, error) {
	stop := s.now()
	if in.At != nil {
		stop = *in.At
	}
	return s.store.CloseOpen(ctx, in.Message, in.Project, stop)
}

// Discard deletes the running activity without closing it.
func (s *TrackerService) Discard(ctx context.Context) (string, error) {
	return s.store.DiscardOpen(ctx)
}

// Add records a finished activity and returns its id.
func (s *TrackerService) Add(ctx context.Context, in driving.AddInput) (string, error) {
	if err := domain.ValidateMetadata(in.Message, in.Project); err != nil {
		return "", err
	}

	stop := in.Stop
	a := domain.Activity{
		ID:      uuid.NewString(),
		Message: deref(in.Message),
		Project: deref(in.Project),
		Start:   in.Start,
		Stop:    &stop,
	}
	return s.store.AddClosed(ctx, a)
}

// Log lists closed activities in the window, most recent start first.
func (s *TrackerService) Log(ctx context.Context, in driving.LogInput) ([]domain.Activity, error) {
	filtered := !in.Since.IsZero() || !in.Until.IsZero() || in.Project != ""

	f := domain.QueryFilter{
		Since:   in.Since,
		Until:   in.Until,
		Project: in.Project,
		Limit:   s.policy.Limit,
	}
	if f.Since.IsZero() {
		f.Since = midnight(s.now()).AddDate(0, 0, -s.policy.SinceDays)
	}
	if f.Until.IsZero() {
		f.Until = s.now()
	}

	activities, err := s.store.Query(ctx, f)
	if err != nil {
		return nil, err
	}

	if !filtered && s.policy.IncludeRunning {
		running, err := s.store.Running(ctx)
		switch {
		case err == nil:
			activities = append([]domain.Activity{*running}, activities...)
		case !errors.Is(err, domain.ErrNoRunningActivity):
			return nil, err
		}
	}
	return activities, nil
}

// Delete removes the one activity matching the id prefix.
func (s *TrackerService) Delete(ctx context.Context, prefix string) (string, error) {
	return s.store.DeleteByIDPrefix(ctx, prefix)
}

// Import atomically records a batch of finished activities.
func (s *TrackerService) Import(ctx context.Context, records []driving.ImportRecord) ([]string, error) {
	activities := make([]domain.Activity, 0, len(records))
	for _, r := range records {
		stop := r.Stop
		activities = append(activities, domain.Activity{
			ID:      uuid.NewString(),
			Message: r.Message,
			Project: r.Project,
			Start:   r.Start,
			Stop:    &stop,
		})
	}
	logger.Debug("importing %d activities", len(activities))
	return s.store.ImportClosed(ctx, activities)
}

// deref returns the pointed-to string, or "" for nil.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// midnight returns the start of t's calendar day in t's location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
