package store

import (
	"fmt"
	"strings"
)

// ResultKey returns the hash key for one batch result.
// Pattern: peoplelint:{run_id}:result:{abbr}
func ResultKey(runID, abbr string) string {
	return fmt.Sprintf("peoplelint:%s:result:%s", runID, abbr)
}

// ResultIndexKey returns the set of abbreviations saved for a run.
// Pattern: peoplelint:{run_id}:results
func ResultIndexKey(runID string) string {
	return fmt.Sprintf("peoplelint:%s:results", runID)
}

// ResultEventsChannel returns the Pub/Sub channel for result events.
// Pattern: peoplelint:{run_id}:result_events
func ResultEventsChannel(runID string) string {
	return fmt.Sprintf("peoplelint:%s:result_events", runID)
}

// runIDFromIndexKey extracts the run id from a ResultIndexKey.
func runIDFromIndexKey(key string) (string, bool) {
	const prefix, suffix = "peoplelint:", ":results"
	if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, suffix) {
		return "", false
	}
	id := key[len(prefix) : len(key)-len(suffix)]
	return id, ValidateRunID(id) == nil
}
