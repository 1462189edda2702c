package domain

import "time"

// ValidateMetadata rejects metadata fields that are present but empty.
// A nil pointer means the field is absent, which is always acceptable;
// an empty string is never stored as a value.
func ValidateMetadata(message, project *string) error {
	if message != nil && *message == "" {
		return ErrEmptyField
	}
	if project != nil && *project == "" {
		return ErrEmptyField
	}
	return nil
}

// ValidateCandidate decides whether a new or updated activity may be
// committed given the currently committed set. It is pure: the verdict
// depends only on the arguments, and nothing is mutated. Stores call it
// inside the transaction that applies the write, so the decision and
// the write are atomic.
//
// Checks run in a fixed order; the first failure wins. Future-time
// violations are reported before overlaps when both apply.
//
// Records sharing the candidate's ID are skipped, so on update callers
// may pass the full committed set without excluding the old row.
func ValidateCandidate(c Activity, existing []Activity, now time.Time) error {
	if c.Stop != nil && !c.Stop.After(c.Start) {
		return ErrStopBeforeStart
	}
	if c.Start.After(now) {
		return ErrFutureStart
	}
	if c.Stop != nil && c.Stop.After(now) {
		return ErrFutureStop
	}
	for i := range existing {
		if existing[i].ID == c.ID {
			continue
		}
		if intervalsOverlap(c, existing[i]) {
			return ErrOverlap
		}
	}
	return nil
}

// intervalsOverlap implements inclusive-boundary overlap between a
// candidate c and an existing activity e. A nil stop edge never matches
// a range check, so open records participate only via their start edge,
// and an open candidate is checked only by its own start edge.
func intervalsOverlap(c, e Activity) bool {
	if c.Stop != nil {
		if within(e.Start, c.Start, *c.Stop) {
			return true
		}
		if e.Stop != nil && within(*e.Stop, c.Start, *c.Stop) {
			return true
		}
	}
	if e.Stop != nil && within(c.Start, e.Start, *e.Stop) {
		return true
	}
	return false
}

// within reports lo <= t <= hi.
func within(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}
