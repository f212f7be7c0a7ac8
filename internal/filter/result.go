package filter

import (
	"path/filepath"

	"github.com/dyluth/peoplelint/internal/store"
)

// Criteria defines filtering criteria for stored results.
// All filters are ANDed together - a result must match ALL criteria to pass.
type Criteria struct {
	AbbrGlob   string // Glob pattern for the abbreviation, empty = no filter
	FailedOnly bool   // Only results with at least one error
}

// Matches returns true if the result matches all filter criteria.
func (c *Criteria) Matches(r *store.StoredResult) bool {
	if c.AbbrGlob != "" {
		matched, err := filepath.Match(c.AbbrGlob, r.Abbr)
		if err != nil || !matched {
			return false
		}
	}

	if c.FailedOnly && r.ErrorCount == 0 {
		return false
	}

	return true
}

// HasFilters returns true if any filters are active.
func (c *Criteria) HasFilters() bool {
	return c.AbbrGlob != "" || c.FailedOnly
}

// Apply returns the results that match c, preserving order.
func (c *Criteria) Apply(results []*store.StoredResult) []*store.StoredResult {
	var kept []*store.StoredResult
	for _, r := range results {
		if c.Matches(r) {
			kept = append(kept, r)
		}
	}
	return kept
}
