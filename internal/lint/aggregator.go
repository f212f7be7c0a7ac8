package lint

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SeatTable maps chamber type -> district name -> seat count.
type SeatTable map[string]map[string]int

// Clone returns a deep copy of the table.
func (t SeatTable) Clone() SeatTable {
	out := make(SeatTable, len(t))
	for chamber, districts := range t {
		out[chamber] = make(map[string]int, len(districts))
		for name, seats := range districts {
			out[chamber][name] = seats
		}
	}
	return out
}

// Vacancy declares a temporarily unfilled seat.
type Vacancy struct {
	Chamber     string
	District    string
	VacantUntil time.Time
}

func (v Vacancy) String() string {
	return fmt.Sprintf("%s-%s (until %s)", v.Chamber, v.District, v.VacantUntil.Format(DateLayout))
}

// BadVacancyError is a fatal configuration error: a vacancy that has expired
// or names a seat that does not exist. The batch cannot run until the
// settings are corrected.
type BadVacancyError struct {
	Vacancy Vacancy
	Reason  string
}

func (e *BadVacancyError) Error() string {
	return fmt.Sprintf("%s-%s %s", e.Vacancy.Chamber, e.Vacancy.District, e.Reason)
}

// Aggregator accumulates batch-wide state for one jurisdiction: external
// identifier registrations and active legislators per seat. It is owned by a
// single goroutine and is not safe for concurrent use.
type Aggregator struct {
	expected SeatTable

	// scheme -> value -> filenames
	duplicates map[string]map[string][]string
	// chamber type -> district -> filenames
	active map[string]map[string][]string
}

// NewAggregator creates an aggregator whose expected seats are base minus one
// per vacancy still open on today. An expired vacancy returns *BadVacancyError.
func NewAggregator(base SeatTable, vacancies []Vacancy, today time.Time) (*Aggregator, error) {
	expected := base.Clone()
	day := today.Format(DateLayout)

	for _, v := range vacancies {
		if day >= v.VacantUntil.Format(DateLayout) {
			return nil, &BadVacancyError{Vacancy: v, Reason: fmt.Sprintf("expired %s remove & re-run", v.VacantUntil.Format(DateLayout))}
		}
		seats, ok := expected[v.Chamber][v.District]
		if !ok {
			return nil, &BadVacancyError{Vacancy: v, Reason: "is not a known seat, remove & re-run"}
		}
		expected[v.Chamber][v.District] = seats - 1
	}

	return &Aggregator{
		expected:   expected,
		duplicates: make(map[string]map[string][]string),
		active:     make(map[string]map[string][]string),
	}, nil
}

// Expected returns the expected seats after vacancies. Callers must not modify it.
func (a *Aggregator) Expected() SeatTable {
	return a.expected
}

// AddIdentifier registers filename as carrying value under scheme.
func (a *Aggregator) AddIdentifier(scheme, value, filename string) {
	if a.duplicates[scheme] == nil {
		a.duplicates[scheme] = make(map[string][]string)
	}
	a.duplicates[scheme][value] = append(a.duplicates[scheme][value], filename)
}

// AddLegislator registers filename as currently holding a seat.
func (a *Aggregator) AddLegislator(chamber, district, filename string) {
	if a.active[chamber] == nil {
		a.active[chamber] = make(map[string][]string)
	}
	a.active[chamber][district] = append(a.active[chamber][district], filename)
}

// CheckDuplicates returns one error per identifier value registered by more
// than one file.
func (a *Aggregator) CheckDuplicates() []string {
	var errs []string
	for _, scheme := range sortedKeys(a.duplicates) {
		values := a.duplicates[scheme]
		for _, value := range sortedKeys(values) {
			files := values[value]
			if len(files) < 2 {
				continue
			}
			var listed string
			if len(files) > 3 {
				listed = strings.Join(files[:3], ", ") + fmt.Sprintf(" and %d more...", len(files)-3)
			} else {
				listed = strings.Join(files, ", ")
			}
			errs = append(errs, fmt.Sprintf("duplicate %s: %q %s", scheme, value, listed))
		}
	}
	return errs
}

// CompareDistricts reconciles active legislators against expected seats.
// A mismatch in chamber types is reported alone.
func (a *Aggregator) CompareDistricts() []string {
	expectedChambers := sortedKeys(a.expected)
	actualChambers := sortedKeys(a.active)
	if strings.Join(expectedChambers, "\x00") != strings.Join(actualChambers, "\x00") {
		return []string{fmt.Sprintf("expected districts for [%s], got [%s]",
			strings.Join(expectedChambers, " "), strings.Join(actualChambers, " "))}
	}

	var errs []string
	for _, chamber := range expectedChambers {
		expected := a.expected[chamber]
		actual := a.active[chamber]

		for _, district := range sortedKeys(expected) {
			if _, ok := actual[district]; !ok && expected[district] > 0 {
				errs = append(errs, fmt.Sprintf("missing legislator for %s %s", chamber, district))
			}
		}
		for _, district := range sortedKeys(actual) {
			if _, ok := expected[district]; !ok {
				errs = append(errs, fmt.Sprintf("extra legislator for unexpected seat %s %s", chamber, district))
			}
		}
		for _, district := range sortedKeys(actual) {
			seats, ok := expected[district]
			if !ok {
				continue
			}
			filed := actual[district]
			if len(filed) < seats {
				errs = append(errs, fmt.Sprintf("missing legislator for %s %s", chamber, district))
			}
			if len(filed) > seats {
				errs = append(errs, fmt.Sprintf("extra legislator for %s %s:\n\t%s", chamber, district, strings.Join(filed, "\n\t")))
			}
		}
	}
	return errs
}

// Reconcile returns all aggregate errors: duplicates first, then seats.
func (a *Aggregator) Reconcile() []string {
	return append(a.CheckDuplicates(), a.CompareDistricts()...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
