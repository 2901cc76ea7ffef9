package reporting

import (
	"fmt"
	"strings"
	"time"
)

// FormatISODuration renders d as an ISO-8601 duration with millisecond
// precision, e.g. "PT0S", "PT2.5S", "PT1M30S".
func FormatISODuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Millisecond)

	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int64(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	millis := int64(d / time.Millisecond)
	seconds := millis / 1000
	frac := millis % 1000

	var b strings.Builder
	b.WriteString("PT")
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	switch {
	case frac > 0:
		fmt.Fprintf(&b, "%d.%sS", seconds, strings.TrimRight(fmt.Sprintf("%03d", frac), "0"))
	case seconds > 0 || (hours == 0 && minutes == 0):
		fmt.Fprintf(&b, "%dS", seconds)
	}
	return b.String()
}

// FormatInstant renders t as a UTC instant with millisecond precision,
// e.g. "2025-03-14T10:30:00.000Z".
func FormatInstant(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}
