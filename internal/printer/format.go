package printer

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var agoUnits = []struct {
	d    time.Duration
	name string
}{
	{24 * time.Hour, "day"},
	{time.Hour, "hour"},
	{time.Minute, "minute"},
	{time.Second, "second"},
}

// TimeAgo returns a human-readable time relative to now, in UTC.
// Examples: "5 seconds ago (UTC)", "1 hour ago (UTC)".
func TimeAgo(t, now time.Time) string {
	diff := now.UTC().Sub(t.UTC())
	if diff < 0 {
		return "in the future (UTC)"
	}

	for _, u := range agoUnits {
		if diff < u.d && u.d != time.Second {
			continue
		}

		n := int(diff / u.d)
		if n == 1 {
			return fmt.Sprintf("1 %s ago (UTC)", u.name)
		}
		return fmt.Sprintf("%d %ss ago (UTC)", n, u.name)
	}

	return ""
}

// FormatTimestamp returns the time as "2006-01-02 15:04:05 UTC".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// FormatBytes returns a human-readable byte size, e.g. "512 B" or "1.5 KB".
func FormatBytes(bytes int) string {
	const kb = 1024

	switch {
	case bytes < 0:
		return "0 B"
	case bytes >= kb*kb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(kb*kb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// StatePreview returns the encoded state in a single line, truncated to max runes.
func StatePreview(state []byte, max int) string {
	s := strings.Join(strings.Fields(string(state)), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	r := []rune(s)
	return string(r[:max]) + "..."
}
