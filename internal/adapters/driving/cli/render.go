package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tempo-labs/tempo-cli/internal/core/domain"
)

// renderWidth is the total width of a day header line.
const renderWidth = 78

var headerStyle = lipgloss.NewStyle().Bold(true)

// dayGroup is one calendar day's activities in listing order.
type dayGroup struct {
	day        time.Time
	activities []domain.Activity
}

// renderLog writes the grouped activity listing: one bold header per
// calendar day with the day's total duration right-aligned, then one
// row per activity. Input order (start descending) is preserved, so
// groups come out most recent day first.
func renderLog(w io.Writer, activities []domain.Activity, styled bool) {
	groups := groupByDay(activities)

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}

		header := padHeader(g.day.Format("2006-01-02"), formatDuration(dayTotal(g, time.Now())))
		if styled {
			header = headerStyle.Render(header)
		}
		fmt.Fprintln(w, header)

		for j, a := range g.activities {
			ladder := "├"
			if j == len(g.activities)-1 {
				ladder = "└"
			}
			fmt.Fprintf(w, "%s %-61.61s · %s-%s · %s\n",
				ladder, describe(a), clockTime(a.Start), stopClockTime(a), shortID(a.ID))
		}
	}
}

// groupByDay splits the listing into runs sharing a calendar day.
func groupByDay(activities []domain.Activity) []dayGroup {
	var groups []dayGroup
	for _, a := range activities {
		day := time.Date(a.Start.Year(), a.Start.Month(), a.Start.Day(), 0, 0, 0, 0, a.Start.Location())
		if n := len(groups); n > 0 && groups[n-1].day.Equal(day) {
			groups[n-1].activities = append(groups[n-1].activities, a)
			continue
		}
		groups = append(groups, dayGroup{day: day, activities: []domain.Activity{a}})
	}
	return groups
}

// dayTotal sums the group's durations; a running activity counts up to now.
func dayTotal(g dayGroup, now time.Time) time.Duration {
	var total time.Duration
	for _, a := range g.activities {
		total += a.Duration(now)
	}
	return total
}

// padHeader right-aligns the duration against the date on one line.
func padHeader(date, total string) string {
	pad := renderWidth - len(date) - len(total)
	if pad < 1 {
		pad = 1
	}
	return date + fmt.Sprintf("%*s", pad+len(total), total)
}

// describe renders "message [project]" with {} placeholders.
func describe(a domain.Activity) string {
	return fmt.Sprintf("%s [%s]", orBraces(a.Message), orBraces(a.Project))
}

// clockTime renders a timestamp as HH:MM.
func clockTime(t time.Time) string {
	return t.Format("15:04")
}

// stopClockTime renders the stop edge, or "now" for a running activity.
func stopClockTime(a domain.Activity) string {
	if a.Stop == nil {
		return "  now"
	}
	return clockTime(*a.Stop)
}

// shortID returns the user-facing identifier prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
