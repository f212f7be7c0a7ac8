package resolver

import (
	"context"
	"fmt"
	"strings"
)

// MinShortIDLength is the minimum required length for short run id prefixes.
const MinShortIDLength = 6

// RunScanner finds saved run ids by prefix.
type RunScanner interface {
	ScanRunIDs(ctx context.Context, prefix string) ([]string, error)
}

// ResolveRunID resolves a full or short run id to a saved run.
// Returns *NotFoundError or *AmbiguousError when the prefix does not match
// exactly one run.
func ResolveRunID(ctx context.Context, runs RunScanner, shortID string) (string, error) {
	shortID = strings.ToLower(shortID)
	if len(shortID) < MinShortIDLength {
		return "", fmt.Errorf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(shortID))
	}

	matches, err := runs.ScanRunIDs(ctx, shortID)
	if err != nil {
		return "", fmt.Errorf("failed to search for run: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{ShortID: shortID}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{ShortID: shortID, Matches: matches}
	}
}

// NotFoundError indicates no runs matched the short ID.
type NotFoundError struct {
	ShortID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no runs found matching '%s'", e.ShortID)
}

// AmbiguousError indicates multiple runs matched the short ID.
type AmbiguousError struct {
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d runs", e.ShortID, len(e.Matches))
}

// FormatAmbiguousError lists the matching run ids (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Short ID '%s' matches %d runs:\n", err.ShortID, len(err.Matches))

	displayCount := len(err.Matches)
	if displayCount > 10 {
		displayCount = 10
	}
	for _, id := range err.Matches[:displayCount] {
		fmt.Fprintf(&b, "  %s\n", id)
	}
	if len(err.Matches) > 10 {
		fmt.Fprintf(&b, "  ...and %d more\n", len(err.Matches)-10)
	}

	b.WriteString("\nUse a longer prefix to uniquely identify the run.")
	return b.String()
}
