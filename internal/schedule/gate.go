package schedule

import (
	"strings"
	"time"
)

// Due reports whether a refresh cycle should run.
//
// The gate fails open: an empty or unparseable last-completion value is
// treated as "never ran", never as "wait".
func Due(lastCompletion string, intervalDays int, now time.Time) bool {
	trimmed := strings.TrimSpace(lastCompletion)
	if trimmed == "" {
		return true
	}
	last, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return true
	}
	next := last.Add(time.Duration(intervalDays) * 24 * time.Hour)
	return !now.Before(next)
}
