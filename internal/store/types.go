package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dyluth/peoplelint/internal/lint"
)

// StoredResult is one jurisdiction's result as saved in Redis.
type StoredResult struct {
	RunID       string       `json:"run_id"`
	Abbr        string       `json:"abbr"`
	ErrorCount  int          `json:"error_count"`
	CreatedAtMs int64        `json:"created_at_ms"`
	Result      *lint.Result `json:"result"`
}

// ResultEvent is published after every save.
type ResultEvent struct {
	RunID      string `json:"run_id"`
	Abbr       string `json:"abbr"`
	ErrorCount int    `json:"error_count"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// ValidateRunID checks that id is a UUID.
func ValidateRunID(id string) error {
	if id == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("run id %q is not a valid UUID: %w", id, err)
	}
	return nil
}
