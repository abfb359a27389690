package formatter

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders a duration as "2h 05m", "45m", or "30s".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "—"
	}
	secs := int64(d.Seconds())
	h := secs / 3600
	m := (secs % 3600) / 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// Truncate shortens a string to max runes with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// ShortID returns the first eight characters of an id string.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// JoinKeywords renders up to n keywords as a comma list.
func JoinKeywords(keywords []string, n int) string {
	if len(keywords) == 0 {
		return ""
	}
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return strings.Join(keywords, ", ")
}
