package timespec

import (
	"fmt"
	"time"
)

// DateLayout is the as-of date layout roles are compared against.
const DateLayout = "2006-01-02"

// Parse parses an as-of date specification relative to now.
// Supports three formats:
//   - Calendar dates: "2024-01-15"
//   - RFC3339 timestamps: "2024-01-15T13:00:00Z"
//   - Go duration format: "720h" (30 days before now)
//
// An empty spec means today. Returns the date as YYYY-MM-DD.
func Parse(spec string, now time.Time) (string, error) {
	if spec == "" {
		return now.Format(DateLayout), nil
	}

	if t, err := time.Parse(DateLayout, spec); err == nil {
		return t.Format(DateLayout), nil
	}

	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t.Format(DateLayout), nil
	}

	// Duration is relative to now (subtract from current time)
	if d, err := time.ParseDuration(spec); err == nil {
		return now.Add(-d).Format(DateLayout), nil
	}

	return "", fmt.Errorf("invalid date specification: %s (use a date like '2024-01-15', RFC3339, or a duration like '720h')", spec)
}

// ParseEndDate parses an explicit end date for retirement. Unlike Parse it
// requires a calendar date.
func ParseEndDate(spec string) (string, error) {
	t, err := time.Parse(DateLayout, spec)
	if err != nil {
		return "", fmt.Errorf("invalid end date: %s (expected YYYY-MM-DD)", spec)
	}
	return t.Format(DateLayout), nil
}
