package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tempo-labs/tempo-cli/internal/core/domain"
	"github.com/tempo-labs/tempo-cli/internal/core/ports/driven"
)

// Ensure ActivityStore implements the interface.
var _ driven.ActivityStore = (*ActivityStore)(nil)

// ActivityStore is an in-memory implementation of driven.ActivityStore.
// It enforces the same invariants as the SQLite adapter through the
// same validation engine, with the mutex standing in for transactions.
// Used by service-level tests.
type ActivityStore struct {
	mu         sync.RWMutex
	activities map[string]domain.Activity
	now        func() time.Time
}

// NewActivityStore creates a new in-memory activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{
		activities: make(map[string]domain.Activity),
		now:        time.Now,
	}
}

// SetClock overrides the store's time source. Used in tests.
func (s *ActivityStore) SetClock(now func() time.Time) {
	s.now = now
}

// StartOpen creates a running activity.
func (s *ActivityStore) StartOpen(_ context.Context, a domain.Activity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.Normalize()
	if err := domain.ValidateCandidate(a, s.all(), s.now()); err != nil {
		return "", err
	}
	for _, existing := range s.activities {
		if existing.Stop == nil {
			return "", domain.ErrActivityRunning
		}
	}

	s.activities[a.ID] = a
	return a.ID, nil
}

// AddClosed creates a fully closed activity.
func (s *ActivityStore) AddClosed(_ context.Context, a domain.Activity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.Normalize()
	if err := domain.ValidateCandidate(a, s.all(), s.now()); err != nil {
		return "", err
	}

	s.activities[a.ID] = a
	return a.ID, nil
}

// CloseOpen sets the stop time of the single running activity.
func (s *ActivityStore) CloseOpen(_ context.Context, message, project *string, stop time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	running, err := s.running()
	if err != nil {
		return "", err
	}

	updated := *running
	if message != nil {
		updated.Message = *message
	}
	if project != nil {
		updated.Project = *project
	}
	stop = stop.Truncate(time.Second)
	updated.Stop = &stop

	if err := domain.ValidateCandidate(updated, s.all(), s.now()); err != nil {
		return "", err
	}

	s.activities[updated.ID] = updated
	return updated.ID, nil
}

// DiscardOpen deletes the single running activity.
func (s *ActivityStore) DiscardOpen(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	running, err := s.running()
	if err != nil {
		return "", err
	}

	delete(s.activities, running.ID)
	return running.ID, nil
}

// DeleteByIDPrefix deletes the one activity whose id starts with prefix.
func (s *ActivityStore) DeleteByIDPrefix(_ context.Context, prefix string) (string, error) {
	if len(prefix) < 4 {
		return "", domain.ErrPrefixTooShort
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []string
	for id := range s.activities {
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", domain.ErrNotFound
	case 1:
		delete(s.activities, matches[0])
		return matches[0], nil
	default:
		return "", domain.ErrAmbiguousID
	}
}

// Query returns closed activities within the filter window, most recent
// start first.
func (s *ActivityStore) Query(_ context.Context, f domain.QueryFilter) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Activity
	for _, a := range s.activities {
		if a.Stop == nil {
			continue
		}
		if a.Start.Before(f.Since) || a.Stop.After(f.Until) {
			continue
		}
		if f.Project != "" && a.Project != f.Project {
			continue
		}
		result = append(result, a)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.After(result[j].Start)
	})
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, nil
}

// Running returns the single running activity.
func (s *ActivityStore) Running(_ context.Context) (*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running()
}

// ImportClosed inserts all records atomically: nothing is stored unless
// every record validates against the existing set and the batch itself.
func (s *ActivityStore) ImportClosed(_ context.Context, records []domain.Activity) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.all()
	ids := make([]string, 0, len(records))
	accepted := make([]domain.Activity, 0, len(records))
	for i := range records {
		a := records[i]
		a.Normalize()
		if err := domain.ValidateCandidate(a, existing, s.now()); err != nil {
			return nil, err
		}
		existing = append(existing, a)
		accepted = append(accepted, a)
		ids = append(ids, a.ID)
	}

	for _, a := range accepted {
		s.activities[a.ID] = a
	}
	return ids, nil
}

// Len returns the number of stored activities. Used in tests.
func (s *ActivityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}

// all snapshots the stored set. Callers must hold the mutex.
func (s *ActivityStore) all() []domain.Activity {
	result := make([]domain.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		result = append(result, a)
	}
	return result
}

// running finds the open activity. Callers must hold the mutex.
func (s *ActivityStore) running() (*domain.Activity, error) {
	for _, a := range s.activities {
		if a.Stop == nil {
			return &a, nil
		}
	}
	return nil, domain.ErrNoRunningActivity
}
