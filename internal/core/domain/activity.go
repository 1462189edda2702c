package domain

import "time"

// TimeLayout is the canonical timestamp format for persisted activities.
// Timestamps are naive local time at second precision; the layout sorts
// lexicographically in chronological order.
const TimeLayout = "2006-01-02 15:04:05"

// Activity represents one tracked time interval.
type Activity struct {
	// ID is the unique identifier, assigned at creation and never changed.
	// Users may refer to an activity by a leading prefix of this value.
	ID string

	// Message is an optional free-text description. Empty means absent;
	// an empty string is never persisted.
	Message string

	// Project is an optional project label. Same normalization as Message.
	Project string

	// Start is when tracking began. Required, naive local time.
	Start time.Time

	// Stop is when tracking ended. Nil means the activity is running.
	Stop *time.Time
}

// Running reports whether the activity has no recorded stop time.
func (a *Activity) Running() bool {
	return a.Stop == nil
}

// Duration returns the closed interval's length, or the time elapsed
// since Start for a running activity.
func (a *Activity) Duration(now time.Time) time.Duration {
	if a.Stop == nil {
		return now.Sub(a.Start)
	}
	return a.Stop.Sub(a.Start)
}

// Normalize truncates timestamps to second precision. Stores call this
// before validation so persisted timestamps round-trip exactly through
// TimeLayout.
func (a *Activity) Normalize() {
	a.Start = a.Start.Truncate(time.Second)
	if a.Stop != nil {
		stop := a.Stop.Truncate(time.Second)
		a.Stop = &stop
	}
}

// QueryFilter narrows an activity listing. Zero-value fields are
// interpreted by the store as "no constraint" except Since/Until which
// callers are expected to default before querying.
type QueryFilter struct {
	// Since excludes activities starting before it.
	Since time.Time

	// Until excludes activities stopping after it.
	Until time.Time

	// Project, when non-empty, requires an exact project match.
	Project string

	// Limit caps the number of rows returned; 0 means unlimited.
	Limit int
}
