package view

import (
	"time"

	"github.com/dustin/go-humanize"
)

// TimeLayout is the display layout of timestamps.
const TimeLayout = "2006-01-02 15:04:05 MST"

// FormatTime renders t in local time, or "—" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format(TimeLayout)
}

// RelativeTime renders t relative to now, e.g. "3 hours ago".
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
