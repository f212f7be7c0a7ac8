package lint

import (
	"fmt"
	"time"

	"github.com/dyluth/peoplelint/pkg/schema"
)

// DateLayout is the layout of as-of dates and fully specified fuzzy dates.
const DateLayout = "2006-01-02"

// Today returns the current date as an as-of string.
func Today() string {
	return time.Now().Format(DateLayout)
}

// RoleIsActive reports whether a role or party membership covers asOf.
// Missing bounds are open. Fuzzy dates compare lexically, so a role ending
// "2020" is over by "2020-01-01".
func RoleIsActive(role map[string]any, asOf string) bool {
	if asOf == "" {
		asOf = Today()
	}
	if end, ok := dateString(role["end_date"]); ok && end < asOf {
		return false
	}
	if start, ok := dateString(role["start_date"]); ok && start > asOf {
		return false
	}
	return true
}

// activeEntries returns the entries under key that are active as of asOf.
func activeEntries(record map[string]any, key, asOf string) []map[string]any {
	var active []map[string]any
	for _, entry := range entries(record, key) {
		if RoleIsActive(entry, asOf) {
			active = append(active, entry)
		}
	}
	return active
}

// entries returns the map elements of the sequence under key, skipping
// anything malformed (schema validation reports those).
func entries(record map[string]any, key string) []map[string]any {
	items, ok := schema.AsList(record[key])
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := schema.AsMap(item); ok {
			out = append(out, m)
		}
	}
	return out
}

func dateString(v any) (string, bool) {
	switch d := v.(type) {
	case nil:
		return "", false
	case string:
		return d, true
	case time.Time:
		return d.Format(DateLayout), true
	default:
		return fmt.Sprint(d), true
	}
}
