package helpers

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// Use the global logger here, assuming logger might not be configured when this is called.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// MessageTime formats a chat message timestamp relative to now:
// "Just now", "5m ago", "3h ago", "Yesterday", then the date.
func MessageTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 48*time.Hour:
		return "Yesterday"
	}
	return t.Format("1/2/2006")
}

// ConversationTime formats the last-activity stamp in the conversation list:
// a clock time within a day, "Yesterday", then "Jan 2".
func ConversationTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("3:04 PM")
	case diff < 48*time.Hour:
		return "Yesterday"
	}
	return t.Format("Jan 2")
}

// PostedAgo formats a job posting date in coarse buckets
func PostedAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Date not available"
	}
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	}
	return fmt.Sprintf("%d months ago", days/30)
}

// LongDate formats t as "January 2, 2006"
func LongDate(t time.Time) string {
	if t.IsZero() {
		return "Date not available"
	}
	return t.Format("January 2, 2006")
}
