// Package lint implements the person-data consistency rules: schema checks,
// per-record domain rules, and batch-wide reconciliation of identifiers and
// legislative seats.
package lint

import (
	"fmt"
	"sort"
	"time"

	"github.com/dyluth/peoplelint/pkg/schema"
)

// PersonType is the directory a person record was loaded from.
type PersonType int

const (
	Legislative PersonType = iota
	Retired
	Executive
	Municipal
)

func (p PersonType) String() string {
	switch p {
	case Legislative:
		return "legislature"
	case Retired:
		return "retired"
	case Executive:
		return "executive"
	case Municipal:
		return "municipalities"
	}
	return fmt.Sprintf("PersonType(%d)", int(p))
}

// DefaultMajorParties is used when no major parties are configured.
var DefaultMajorParties = []string{"Democratic", "Republican", "Independent"}

// JurisdictionLookup resolves jurisdiction ids against external metadata.
type JurisdictionLookup interface {
	HasJurisdiction(id string) bool
}

// Options configures a Validator for one jurisdiction batch.
type Options struct {
	// Seats is the expected-seats table before vacancies are applied.
	Seats     SeatTable
	Vacancies []Vacancy

	Parties       []string
	MajorParties  []string
	HTTPWhitelist []string
	CheckHTTPS    bool

	// LegacyDistricts lists retired district names per chamber type.
	LegacyDistricts map[string][]string

	Jurisdictions  JurisdictionLookup
	Municipalities []string

	// AsOf overrides the date roles are evaluated on (YYYY-MM-DD).
	AsOf string
	// Now is used for vacancy expiry; zero means time.Now.
	Now time.Time
}

// Outcome holds the messages produced for one record.
type Outcome struct {
	Errors   []string
	Warnings []string
}

// Validator runs all checks for one jurisdiction batch. Records must be fed
// in a stable order to get reproducible aggregate messages. A Validator is
// not safe for concurrent use.
type Validator struct {
	opts           Options
	agg            *Aggregator
	valid          map[string]bool
	major          map[string]bool
	municipalities map[string]bool

	errors   map[string][]string
	warnings map[string][]string
	checked  []string
}

// NewValidator prepares a batch. It returns *BadVacancyError for an expired
// vacancy, and an error for a malformed municipality id.
func NewValidator(opts Options) (*Validator, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	agg, err := NewAggregator(opts.Seats, opts.Vacancies, now)
	if err != nil {
		return nil, err
	}

	municipalities := make(map[string]bool, len(opts.Municipalities))
	for _, id := range opts.Municipalities {
		if !schema.IsJurisdictionID(id) {
			return nil, fmt.Errorf("invalid municipality id %s", id)
		}
		municipalities[id] = true
	}

	major := opts.MajorParties
	if len(major) == 0 {
		major = DefaultMajorParties
	}

	return &Validator{
		opts:           opts,
		agg:            agg,
		valid:          toSet(opts.Parties),
		major:          toSet(major),
		municipalities: municipalities,
		errors:         make(map[string][]string),
		warnings:       make(map[string][]string),
	}, nil
}

// Aggregator exposes the batch aggregator.
func (v *Validator) Aggregator() *Aggregator {
	return v.agg
}

// ValidatePerson runs schema and domain checks on a person record and
// registers its identifiers and seat with the aggregator.
func (v *Validator) ValidatePerson(record map[string]any, filename string, kind PersonType) Outcome {
	var out Outcome
	asOf := v.opts.AsOf

	out.Errors = schema.Validate(record, PersonSchema)
	out.Errors = append(out.Errors, idInFilename(record, filename)...)
	if !NamesConsistent(record) {
		family, _ := record["family_name"].(string)
		name, _ := record["name"].(string)
		out.Errors = append(out.Errors, fmt.Sprintf("inconsistent names: family_name='%s', name='%s'", family, name))
	}
	out.Errors = append(out.Errors, validateJurisdictions(record, v.knownJurisdiction)...)
	out.Errors = append(out.Errors, ValidateRoles(record, RolesKey, kind == Retired, asOf)...)
	if kind == Legislative || kind == Executive {
		out.Errors = append(out.Errors, ValidateRoles(record, PartyKey, false, asOf)...)
	}
	out.Errors = append(out.Errors, ValidateOffices(record)...)

	partyErrs, partyWarnings := validateParties(record, v.valid, v.major, asOf)
	out.Errors = append(out.Errors, partyErrs...)
	out.Warnings = append(out.Warnings, partyWarnings...)

	if v.opts.CheckHTTPS {
		out.Warnings = append(out.Warnings, CheckHTTPS(record, v.opts.HTTPWhitelist)...)
	}
	if kind == Retired {
		out.Errors = append(out.Errors, validateOldDistrictNames(record, v.agg.Expected(), v.opts.LegacyDistricts)...)
	}

	for _, id := range identifiers(record) {
		v.agg.AddIdentifier(id[0], id[1], filename)
	}

	if kind == Legislative {
		if active := activeEntries(record, RolesKey, asOf); len(active) > 0 {
			if chamber, ok := active[0]["type"].(string); ok {
				district := ""
				if d, ok := active[0]["district"]; ok {
					district = fmt.Sprint(d)
				}
				v.agg.AddLegislator(chamber, district, filename)
			}
		}
	}

	v.record(filename, out)
	return out
}

// ValidateOrganization runs schema checks on an organization record.
func (v *Validator) ValidateOrganization(record map[string]any, filename string) Outcome {
	out := Outcome{Errors: schema.Validate(record, OrganizationSchema)}
	out.Errors = append(out.Errors, idInFilename(record, filename)...)
	v.record(filename, out)
	return out
}

// Errors returns the errors recorded so far for filename.
func (v *Validator) Errors(filename string) []string {
	return v.errors[filename]
}

// AddError records an error for filename that did not come from a rule,
// such as a file that could not be decoded.
func (v *Validator) AddError(filename, msg string) {
	v.record(filename, Outcome{Errors: []string{msg}})
}

// DropError removes every occurrence of msg from filename's errors.
func (v *Validator) DropError(filename, msg string) {
	kept := v.errors[filename][:0]
	for _, e := range v.errors[filename] {
		if e != msg {
			kept = append(kept, e)
		}
	}
	v.errors[filename] = kept
}

// Report reconciles the aggregator and returns the batch result.
func (v *Validator) Report() *Result {
	result := NewResult()
	result.Errors = append(result.Errors, v.agg.Reconcile()...)
	for fn, msgs := range v.errors {
		if len(msgs) > 0 {
			result.ErrorsByFilename[fn] = append([]string(nil), msgs...)
		}
	}
	for fn, msgs := range v.warnings {
		if len(msgs) > 0 {
			result.WarningsByFilename[fn] = append([]string(nil), msgs...)
		}
	}
	result.Checked = append([]string(nil), v.checked...)
	sort.Strings(result.Checked)
	return result
}

func (v *Validator) record(filename string, out Outcome) {
	if _, seen := v.errors[filename]; !seen {
		v.checked = append(v.checked, filename)
	}
	v.errors[filename] = append(v.errors[filename], out.Errors...)
	v.warnings[filename] = append(v.warnings[filename], out.Warnings...)
}

func (v *Validator) knownJurisdiction(id string) bool {
	if v.municipalities[id] {
		return true
	}
	return v.opts.Jurisdictions != nil && v.opts.Jurisdictions.HasJurisdiction(id)
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
