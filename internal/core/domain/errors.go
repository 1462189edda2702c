package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested activity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoRunningActivity indicates no activity is currently open.
	ErrNoRunningActivity = errors.New("no running activity")

	// ErrActivityRunning indicates an activity is already open.
	// At most one activity may be running at any time.
	ErrActivityRunning = errors.New("an activity is already running")

	// ErrAmbiguousID indicates an identifier prefix matches more than
	// one activity. The caller must supply a longer prefix.
	ErrAmbiguousID = errors.New("ambiguous identifier: use the full identifier")

	// ErrCorrupt indicates the store failed its integrity check at open
	// time. No operation is served against a corrupt store.
	ErrCorrupt = errors.New("database did not pass integrity check")

	// Validation errors. A rejected mutation leaves the store unchanged.

	// ErrEmptyField indicates a message or project was given as an
	// empty string instead of being absent.
	ErrEmptyField = errors.New("message and project must not be empty")

	// ErrStopBeforeStart indicates a stop time at or before the start time.
	ErrStopBeforeStart = errors.New("stop time must be after start time")

	// ErrFutureStart indicates a start time later than now.
	ErrFutureStart = errors.New("start time is in the future")

	// ErrFutureStop indicates a stop time later than now.
	ErrFutureStop = errors.New("stop time is in the future")

	// ErrOverlap indicates the interval shares an instant with an
	// existing activity. Boundaries are inclusive: touching counts.
	ErrOverlap = errors.New("overlapping activities")

	// ErrPrefixTooShort indicates a deletion prefix under four
	// characters, rejected before any lookup happens.
	ErrPrefixTooShort = errors.New("identifier prefix too short: need at least 4 characters")
)

// IsValidation reports whether err is one of the input-validation
// failures, as opposed to a conflict, lookup, or corruption failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyField,
		ErrStopBeforeStart,
		ErrFutureStart,
		ErrFutureStop,
		ErrOverlap,
		ErrPrefixTooShort,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
