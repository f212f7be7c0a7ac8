package store

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/dyluth/peoplelint/internal/report"
)

// Redis hashes are flat string maps. The result itself is stored as one
// JSON field in the report format, and is schema-checked when read back.

// ResultToHash converts a StoredResult to Redis hash fields.
func ResultToHash(r *StoredResult) (map[string]interface{}, error) {
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, r.Result); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"run_id":        r.RunID,
		"abbr":          r.Abbr,
		"error_count":   r.ErrorCount,
		"created_at_ms": r.CreatedAtMs,
		"report":        buf.String(),
	}, nil
}

// HashToResult converts Redis hash fields back to a StoredResult.
func HashToResult(hash map[string]string) (*StoredResult, error) {
	errorCount, err := strconv.Atoi(hash["error_count"])
	if err != nil {
		return nil, fmt.Errorf("invalid error_count field: %w", err)
	}

	createdAtMs, _ := strconv.ParseInt(hash["created_at_ms"], 10, 64)

	result, err := report.Decode([]byte(hash["report"]))
	if err != nil {
		return nil, fmt.Errorf("invalid report field: %w", err)
	}

	return &StoredResult{
		RunID:       hash["run_id"],
		Abbr:        hash["abbr"],
		ErrorCount:  errorCount,
		CreatedAtMs: createdAtMs,
		Result:      result,
	}, nil
}
