package lint

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUUID     = "12345678-abcd-4bcd-8def-1234567890ab"
	testFilename = "Jane-Doe-" + testUUID + ".yml"
	stateJID     = "ocd-jurisdiction/country:us/state:nc/government"
	placeJID     = "ocd-jurisdiction/country:us/state:nc/place:raleigh/government"
)

type fakeJurisdictions map[string]bool

func (f fakeJurisdictions) HasJurisdiction(id string) bool { return f[id] }

func testOptions() Options {
	return Options{
		Seats:          SeatTable{"lower": {"1": 1, "2": 1}},
		Parties:        []string{"Democratic", "Republican", "Green"},
		Jurisdictions:  fakeJurisdictions{stateJID: true},
		Municipalities: []string{placeJID},
		AsOf:           "2024-01-01",
		Now:            testNow,
	}
}

func newTestValidator(t *testing.T, opts Options) *Validator {
	t.Helper()
	v, err := NewValidator(opts)
	require.NoError(t, err)
	return v
}

func legislator(uuid, district string) map[string]any {
	return map[string]any{
		"id":          "ocd-person/" + uuid,
		"name":        "Jane Doe",
		"family_name": "Doe",
		"party":       []any{map[string]any{"name": "Democratic"}},
		"roles": []any{map[string]any{
			"type":         "lower",
			"district":     district,
			"jurisdiction": stateJID,
			"start_date":   "2021-01-01",
		}},
		"contact_details": []any{map[string]any{
			"note":  "Capitol Office",
			"voice": "919-555-1234",
		}},
		"sources": []any{map[string]any{"url": "https://example.com"}},
	}
}

func TestValidatePerson_Clean(t *testing.T) {
	v := newTestValidator(t, testOptions())
	out := v.ValidatePerson(legislator(testUUID, "1"), testFilename, Legislative)

	assert.Empty(t, out.Errors)
	assert.Empty(t, out.Warnings)
}

func TestValidatePerson_SchemaAndDomainErrorsShareList(t *testing.T) {
	v := newTestValidator(t, testOptions())
	record := legislator(testUUID, "1")
	record["nickname"] = "JD"
	record["family_name"] = "Jones"

	out := v.ValidatePerson(record, "wrong.yml", Legislative)
	assert.Equal(t, []string{
		"extra key: nickname",
		"id piece " + testUUID + " not in filename",
		"inconsistent names: family_name='Jones', name='Jane Doe'",
	}, out.Errors)
	assert.Equal(t, out.Errors, v.Errors("wrong.yml"))
}

func TestValidatePerson_RoleErrorsArePrefixed(t *testing.T) {
	v := newTestValidator(t, testOptions())
	record := legislator(testUUID, "1")
	record["roles"] = []any{
		map[string]any{"type": "lower", "jurisdiction": stateJID, "start_date": "2021-01-01"},
		map[string]any{"type": "senator", "jurisdiction": stateJID, "end_date": "2010-01-01"},
	}

	out := v.ValidatePerson(record, testFilename, Legislative)
	assert.Equal(t, []string{"roles.0: district missing", "roles.1: invalid type"}, out.Errors)
}

func TestValidatePerson_UnknownJurisdiction(t *testing.T) {
	v := newTestValidator(t, testOptions())
	record := legislator(testUUID, "1")
	other := "ocd-jurisdiction/country:us/state:sc/government"
	record["roles"].([]any)[0].(map[string]any)["jurisdiction"] = other

	out := v.ValidatePerson(record, testFilename, Legislative)
	assert.Equal(t, []string{other + " is not a valid jurisdiction_id"}, out.Errors)
}

func TestValidatePerson_MunicipalJurisdiction(t *testing.T) {
	v := newTestValidator(t, testOptions())
	record := legislator(testUUID, "1")
	record["roles"] = []any{map[string]any{
		"type":         "mayor",
		"jurisdiction": placeJID,
		"end_date":     "2026-12-31",
	}}

	out := v.ValidatePerson(record, testFilename, Municipal)
	assert.Empty(t, out.Errors)
}

func TestValidatePerson_ExecutiveNeedsParty(t *testing.T) {
	v := newTestValidator(t, testOptions())
	record := legislator(testUUID, "1")
	delete(record, "party")
	record["roles"] = []any{map[string]any{
		"type":         "governor",
		"jurisdiction": stateJID,
		"end_date":     "2026-12-31",
	}}

	out := v.ValidatePerson(record, testFilename, Executive)
	assert.Equal(t, []string{"no active party"}, out.Errors)
}

func TestValidatePerson_RetiredLegacyDistrict(t *testing.T) {
	opts := testOptions()
	opts.LegacyDistricts = map[string][]string{"lower": {"1A"}}
	v := newTestValidator(t, opts)

	record := legislator(testUUID, "1A")
	role := record["roles"].([]any)[0].(map[string]any)
	role["end_date"] = "2022-12-31"

	out := v.ValidatePerson(record, testFilename, Retired)
	assert.Empty(t, out.Errors)

	role["district"] = "77"
	out = v.ValidatePerson(record, "other-"+testFilename, Retired)
	assert.Equal(t, []string{"unknown district name: lower 77"}, out.Errors)
}

func TestValidatePerson_MinorPartyOverlapIsWarning(t *testing.T) {
	v := newTestValidator(t, testOptions())
	record := legislator(testUUID, "1")
	record["party"] = []any{
		map[string]any{"name": "Democratic"},
		map[string]any{"name": "Green"},
	}

	out := v.ValidatePerson(record, testFilename, Legislative)
	assert.Empty(t, out.Errors)
	assert.Equal(t, []string{"multiple active party memberships [Democratic, Green]"}, out.Warnings)
}

func TestValidatePerson_HTTPSCheckDisabledByDefault(t *testing.T) {
	record := legislator(testUUID, "1")
	record["image"] = "http://example.com/jane.jpg"

	v := newTestValidator(t, testOptions())
	assert.Empty(t, v.ValidatePerson(record, testFilename, Legislative).Warnings)

	opts := testOptions()
	opts.CheckHTTPS = true
	v = newTestValidator(t, opts)
	assert.Equal(t, []string{"image URL http://example.com/jane.jpg should be HTTPS"},
		v.ValidatePerson(record, testFilename, Legislative).Warnings)
}

func TestValidateOrganization(t *testing.T) {
	v := newTestValidator(t, testOptions())
	record := map[string]any{
		"id":             "ocd-organization/" + testUUID,
		"name":           "Committee on Rules",
		"jurisdiction":   stateJID,
		"parent":         "lower",
		"classification": "committee",
		"memberships": []any{
			map[string]any{"name": "Jane Doe", "role": "chair"},
		},
	}

	assert.Empty(t, v.ValidateOrganization(record, "Rules-"+testUUID+".yml").Errors)

	record["parent"] = "senate"
	out := v.ValidateOrganization(record, "Rules-"+testUUID+".yml")
	assert.Equal(t, []string{"parent failed validation is_valid_parent: senate"}, out.Errors)
}

func TestNewValidator_BadVacancy(t *testing.T) {
	opts := testOptions()
	opts.Vacancies = []Vacancy{{Chamber: "lower", District: "1", VacantUntil: testNow.AddDate(0, -1, 0)}}

	v, err := NewValidator(opts)
	assert.Nil(t, v)
	var bad *BadVacancyError
	assert.True(t, errors.As(err, &bad))
}

func TestNewValidator_InvalidMunicipality(t *testing.T) {
	opts := testOptions()
	opts.Municipalities = []string{"ocd-jurisdiction/raleigh"}

	_, err := NewValidator(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid municipality id")
}

func TestReport_ReconcilesBatch(t *testing.T) {
	v := newTestValidator(t, testOptions())

	first := legislator(testUUID, "1")
	first["ids"] = map[string]any{"legacy_openstates": "NCL000001"}
	v.ValidatePerson(first, testFilename, Legislative)

	secondUUID := "87654321-abcd-4bcd-8def-1234567890ab"
	second := legislator(secondUUID, "1")
	second["name"] = "John Doe"
	second["contact_details"] = []any{map[string]any{"note": "Capitol Office", "voice": "919-555-0000"}}
	second["other_identifiers"] = []any{map[string]any{"scheme": "legacy_openstates", "identifier": "NCL000001"}}
	secondFile := "John-Doe-" + secondUUID + ".yml"
	v.ValidatePerson(second, secondFile, Legislative)

	result := v.Report()
	assert.Equal(t, []string{
		`duplicate legacy_openstates: "NCL000001" ` + testFilename + ", " + secondFile,
		"missing legislator for lower 2",
		"extra legislator for lower 1:\n\t" + testFilename + "\n\t" + secondFile,
	}, result.Errors)
	assert.Empty(t, result.ErrorsByFilename)
	assert.Empty(t, result.WarningsByFilename)
	assert.Equal(t, 3, result.ErrorCount())
	assert.Equal(t, []string{testFilename, secondFile}, result.Checked)
}

func TestReport_OnlyNonEmptyLists(t *testing.T) {
	v := newTestValidator(t, testOptions())
	v.ValidatePerson(legislator(testUUID, "1"), testFilename, Legislative)

	bad := legislator(testUUID, "2")
	delete(bad, "name")
	delete(bad, "family_name")
	v.ValidatePerson(bad, "bad-"+testFilename, Legislative)

	result := v.Report()
	assert.NotContains(t, result.ErrorsByFilename, testFilename)
	assert.Equal(t, []string{"name missing"}, result.ErrorsByFilename["bad-"+testFilename])
	assert.Equal(t, 1, result.ErrorCount())
}

func TestDropError(t *testing.T) {
	v := newTestValidator(t, testOptions())
	record := legislator(testUUID, "1")
	record["roles"].([]any)[0].(map[string]any)["end_date"] = "2022-01-01"

	v.ValidatePerson(record, testFilename, Legislative)
	require.Contains(t, v.Errors(testFilename), ErrNoActiveRoles)

	v.DropError(testFilename, ErrNoActiveRoles)
	assert.NotContains(t, v.Report().ErrorsByFilename, testFilename)
}

func TestAddError(t *testing.T) {
	opts := testOptions()
	opts.Seats = nil
	v := newTestValidator(t, opts)
	v.AddError("broken.yml", "yaml: line 3: did not find expected key")

	result := v.Report()
	assert.Equal(t, []string{"yaml: line 3: did not find expected key"}, result.ErrorsByFilename["broken.yml"])
	assert.Equal(t, []string{"broken.yml"}, result.Checked)
	assert.Equal(t, 1, result.ErrorCount())
}

func TestReport_Idempotent(t *testing.T) {
	run := func() []byte {
		v := newTestValidator(t, testOptions())
		for _, d := range []string{"1", "1", "3"} {
			record := legislator(testUUID, d)
			record["nickname"] = "x"
			record["ids"] = map[string]any{"twitter": "dup", "facebook": "dup"}
			v.ValidatePerson(record, d+"-"+testFilename, Legislative)
		}
		data, err := json.Marshal(v.Report())
		require.NoError(t, err)
		return data
	}

	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, string(first), string(run()))
	}
}
