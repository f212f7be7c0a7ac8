package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dyluth/peoplelint/internal/store"
)

func TestCriteria_Matches(t *testing.T) {
	nc := &store.StoredResult{Abbr: "nc", ErrorCount: 2}
	sc := &store.StoredResult{Abbr: "sc"}

	tests := []struct {
		name     string
		criteria Criteria
		result   *store.StoredResult
		want     bool
	}{
		{"no filters", Criteria{}, sc, true},
		{"exact abbr", Criteria{AbbrGlob: "nc"}, nc, true},
		{"glob miss", Criteria{AbbrGlob: "n*"}, sc, false},
		{"glob hit", Criteria{AbbrGlob: "?c"}, sc, true},
		{"bad glob", Criteria{AbbrGlob: "["}, nc, false},
		{"failed only keeps errors", Criteria{FailedOnly: true}, nc, true},
		{"failed only drops clean", Criteria{FailedOnly: true}, sc, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(tt.result))
		})
	}
}

func TestCriteria_HasFilters(t *testing.T) {
	assert.False(t, (&Criteria{}).HasFilters())
	assert.True(t, (&Criteria{AbbrGlob: "n*"}).HasFilters())
	assert.True(t, (&Criteria{FailedOnly: true}).HasFilters())
}

func TestCriteria_Apply(t *testing.T) {
	results := []*store.StoredResult{
		{Abbr: "nc", ErrorCount: 1},
		{Abbr: "nd"},
		{Abbr: "sc", ErrorCount: 3},
	}

	kept := (&Criteria{AbbrGlob: "n*", FailedOnly: true}).Apply(results)
	assert.Len(t, kept, 1)
	assert.Equal(t, "nc", kept[0].Abbr)
}
