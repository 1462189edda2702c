package cli

import (
	"fmt"
	"time"
)

// Accepted layouts for user-supplied datetimes, naive local time.
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Accepted layouts for bare times, combined with today's date.
var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

// parseUserDatetime parses free-form user input in two stages: first as
// a full local datetime, then as a bare time on today's date.
func parseUserDatetime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			now := time.Now()
			return time.Date(now.Year(), now.Month(), now.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
		}
	}

	return time.Time{}, fmt.Errorf("could not parse %q as a datetime", s)
}

// formatDuration renders a duration as H:MM:SS.
func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
