package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesConsistent(t *testing.T) {
	tests := []struct {
		name   string
		family string
		full   string
		want   bool
	}{
		{"family in name", "Smith", "John Smith Jr", true},
		{"no match", "Jones", "John Smith", false},
		{"no family name", "", "John Smith", true},
		{"case insensitive", "SMITH", "john smith", true},
		{"name token inside family", "Smithson", "Jane Smith", true},
		{"hyphenated family", "Garcia-Lopez", "Maria Garcia", true},
		{"accent wildcard", "García", "Maria Garcia", true},
		{"apostrophe", "O'Brien", "Pat O'Brien", true},
		{"compound family", "Van Buren", "Martin Buren", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := map[string]any{"name": tt.full}
			if tt.family != "" {
				record["family_name"] = tt.family
			}
			assert.Equal(t, tt.want, NamesConsistent(record))
		})
	}
}

func TestRoleIsActive(t *testing.T) {
	tests := []struct {
		name string
		role map[string]any
		want bool
	}{
		{"open ended", map[string]any{}, true},
		{"started before", map[string]any{"start_date": "2019-01-01"}, true},
		{"starts later", map[string]any{"start_date": "2021-01-01"}, false},
		{"ended before", map[string]any{"end_date": "2019-12-31"}, false},
		{"ends on date", map[string]any{"end_date": "2020-06-01"}, true},
		{"within range", map[string]any{"start_date": "2019", "end_date": "2021"}, true},
		{"fuzzy year ended", map[string]any{"end_date": "2020"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleIsActive(tt.role, "2020-06-01"))
		})
	}
}

func TestValidateRoles(t *testing.T) {
	active := map[string]any{"type": "lower", "start_date": "2019-01-01"}
	ended := map[string]any{"type": "lower", "end_date": "2018-12-31"}

	t.Run("one active role", func(t *testing.T) {
		record := map[string]any{"roles": []any{active, ended}}
		assert.Empty(t, ValidateRoles(record, RolesKey, false, "2020-01-01"))
	})

	t.Run("no active roles", func(t *testing.T) {
		record := map[string]any{"roles": []any{ended}}
		assert.Equal(t, []string{"no active roles"}, ValidateRoles(record, RolesKey, false, "2020-01-01"))
	})

	t.Run("two active roles", func(t *testing.T) {
		record := map[string]any{"roles": []any{active, active}}
		assert.Equal(t, []string{"2 active roles"}, ValidateRoles(record, RolesKey, false, "2020-01-01"))
	})

	t.Run("retired with active role", func(t *testing.T) {
		record := map[string]any{"roles": []any{active}}
		assert.Equal(t, []string{"1 active roles on retired person"}, ValidateRoles(record, RolesKey, true, "2020-01-01"))
	})

	t.Run("retired without active role", func(t *testing.T) {
		record := map[string]any{"roles": []any{ended}}
		assert.Empty(t, ValidateRoles(record, RolesKey, true, "2020-01-01"))
	})

	t.Run("party has no upper bound", func(t *testing.T) {
		record := map[string]any{"party": []any{
			map[string]any{"name": "Democratic"},
			map[string]any{"name": "Working Families"},
		}}
		assert.Empty(t, ValidateRoles(record, PartyKey, false, "2020-01-01"))
	})

	t.Run("no active party", func(t *testing.T) {
		assert.Equal(t, []string{"no active party"}, ValidateRoles(map[string]any{}, PartyKey, false, "2020-01-01"))
	})
}

func TestValidateOffices(t *testing.T) {
	t.Run("shared phone across offices", func(t *testing.T) {
		record := map[string]any{"contact_details": []any{
			map[string]any{"note": "Capitol Office", "voice": "919-555-1234"},
			map[string]any{"note": "District Office", "voice": "919-555-1234"},
		}}
		errs := ValidateOffices(record)
		require.Len(t, errs, 1)
		assert.Equal(t, "Value '919-555-1234' used multiple times: Capitol Office voice and District Office voice", errs[0])
	})

	t.Run("distinct values", func(t *testing.T) {
		record := map[string]any{"contact_details": []any{
			map[string]any{"note": "Capitol Office", "voice": "919-555-1234", "fax": "919-555-0000"},
			map[string]any{"note": "District Office", "voice": "919-555-9999"},
		}}
		assert.Empty(t, ValidateOffices(record))
	})

	t.Run("two capitol offices", func(t *testing.T) {
		record := map[string]any{"contact_details": []any{
			map[string]any{"note": "Capitol Office", "address": "1 Main St"},
			map[string]any{"note": "Capitol Office", "address": "2 Main St"},
		}}
		assert.Equal(t, []string{"Multiple capitol offices, condense to one."}, ValidateOffices(record))
	})
}

func TestValidateParties(t *testing.T) {
	valid := toSet([]string{"Democratic", "Republican", "Green", "Working Families"})
	major := toSet(DefaultMajorParties)

	t.Run("invalid party", func(t *testing.T) {
		record := map[string]any{"party": []any{map[string]any{"name": "Whig"}}}
		errs, warnings := validateParties(record, valid, major, "2020-01-01")
		assert.Equal(t, []string{"invalid party Whig"}, errs)
		assert.Empty(t, warnings)
	})

	t.Run("two major parties", func(t *testing.T) {
		record := map[string]any{"party": []any{
			map[string]any{"name": "Democratic"},
			map[string]any{"name": "Republican"},
		}}
		errs, warnings := validateParties(record, valid, major, "2020-01-01")
		assert.Equal(t, []string{"multiple active major party memberships [Democratic, Republican]"}, errs)
		assert.Empty(t, warnings)
	})

	t.Run("major plus minor", func(t *testing.T) {
		record := map[string]any{"party": []any{
			map[string]any{"name": "Democratic"},
			map[string]any{"name": "Working Families"},
		}}
		errs, warnings := validateParties(record, valid, major, "2020-01-01")
		assert.Empty(t, errs)
		assert.Equal(t, []string{"multiple active party memberships [Democratic, Working Families]"}, warnings)
	})

	t.Run("sequential parties", func(t *testing.T) {
		record := map[string]any{"party": []any{
			map[string]any{"name": "Democratic", "end_date": "2010-01-01"},
			map[string]any{"name": "Republican", "start_date": "2010-01-02"},
		}}
		errs, warnings := validateParties(record, valid, major, "2020-01-01")
		assert.Empty(t, errs)
		assert.Empty(t, warnings)
	})
}

func TestValidateOldDistrictNames(t *testing.T) {
	expected := SeatTable{"lower": {"1": 1, "2": 1}}
	legacy := map[string][]string{"lower": {"10A"}}

	record := map[string]any{"roles": []any{
		map[string]any{"type": "lower", "district": "1"},
		map[string]any{"type": "lower", "district": "10A"},
		map[string]any{"type": "lower", "district": "99"},
		map[string]any{"type": "upper", "district": "1"},
		map[string]any{"type": "governor"},
	}}

	assert.Equal(t, []string{
		"unknown district name: lower 99",
		"unknown district name: upper 1",
	}, validateOldDistrictNames(record, expected, legacy))
}

func TestCheckHTTPS(t *testing.T) {
	record := map[string]any{
		"image":   "http://example.com/photo.jpg",
		"links":   []any{map[string]any{"url": "https://example.com"}, map[string]any{"url": "http://example.com"}},
		"sources": []any{map[string]any{"url": "http://legacy.example.gov/page"}},
	}

	warnings := CheckHTTPS(record, []string{"http://legacy.example.gov"})
	assert.Equal(t, []string{
		"image URL http://example.com/photo.jpg should be HTTPS",
		"links.1 URL http://example.com should be HTTPS",
	}, warnings)
}

func TestIDInFilename(t *testing.T) {
	record := map[string]any{"id": "ocd-person/12345678-abcd-4bcd-8def-1234567890ab"}

	assert.Empty(t, idInFilename(record, "Jane-Doe-12345678-abcd-4bcd-8def-1234567890ab.yml"))
	assert.Equal(t,
		[]string{"id piece 12345678-abcd-4bcd-8def-1234567890ab not in filename"},
		idInFilename(record, "Jane-Doe.yml"))
	assert.Empty(t, idInFilename(map[string]any{}, "Jane-Doe.yml"))
}
