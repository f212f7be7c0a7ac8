package schema

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Predicate is a pure check on a single value with a stable display name used
// in error messages.
type Predicate struct {
	Name  string
	Check func(value any) bool
}

// NewPredicate creates a named predicate.
func NewPredicate(name string, check func(value any) bool) Predicate {
	return Predicate{Name: name, Check: check}
}

var (
	suffixPattern       = regexp.MustCompile(`(?i)(iii?)|(i?v)|((ed|ph|m|o)\.?d\.?)|([sj]r\.?)|(esq\.?)`)
	datePattern         = regexp.MustCompile(`^\d{4}(-\d{2}(-\d{2})?)?$`)
	phonePattern        = regexp.MustCompile(`^(1-)?\d{3}-\d{3}-\d{4}( ext\. \d+)?$`)
	ocdIDPattern        = regexp.MustCompile(`^ocd-\w+/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	jurisdictionPattern = regexp.MustCompile(`^ocd-jurisdiction/country:us/(state|district|territory):\w\w/((place|county):[a-z_]+/)?government$`)
	legacyIDPattern     = regexp.MustCompile(`^[A-Z]{2}L\d{6}$`)
)

// Predicate library
var (
	// Map accepts any nested map.
	Map = NewPredicate("is_dict", isMap)

	// String accepts a single-line string.
	String = NewPredicate("is_string", isString)

	// MultilineString accepts any string, newlines included.
	MultilineString = NewPredicate("is_multiline_string", func(v any) bool {
		_, ok := v.(string)
		return ok
	})

	// NoBadComma accepts names with no comma, or a single comma followed by a
	// known suffix (Jr, Sr, III, MD, Esq, ...).
	NoBadComma = NewPredicate("no_bad_comma", func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		pieces := strings.Split(s, ",")
		switch {
		case len(pieces) == 1:
			return true
		case len(pieces) > 2:
			return false
		default:
			return suffixPattern.MatchString(pieces[1])
		}
	})

	// URL accepts http, https and ftp URLs.
	URL = NewPredicate("is_url", func(v any) bool {
		return isString(v) && hasAnyPrefix(v.(string), "http://", "https://", "ftp://")
	})

	// Social accepts a bare handle: no URL scheme and no leading @.
	Social = NewPredicate("is_social", func(v any) bool {
		return isString(v) && !hasAnyPrefix(v.(string), "http://", "https://", "@")
	})

	// FuzzyDate accepts YYYY, YYYY-MM, YYYY-MM-DD or an already decoded date.
	FuzzyDate = NewPredicate("is_fuzzy_date", func(v any) bool {
		if _, ok := v.(time.Time); ok {
			return true
		}
		return isString(v) && datePattern.MatchString(v.(string))
	})

	// Phone accepts [1-]DDD-DDD-DDDD[ ext. D+].
	Phone = NewPredicate("is_phone", func(v any) bool {
		return isString(v) && phonePattern.MatchString(v.(string))
	})

	// Jurisdiction accepts state, district, territory, place and county
	// jurisdiction ids.
	Jurisdiction = NewPredicate("is_ocd_jurisdiction", func(v any) bool {
		return isString(v) && IsJurisdictionID(v.(string))
	})

	// Person accepts ocd-person/<uuid>.
	Person = NewPredicate("is_ocd_person", func(v any) bool {
		return isString(v) && isOCDID(v.(string), "ocd-person/")
	})

	// Organization accepts ocd-organization/<uuid>.
	Organization = NewPredicate("is_ocd_organization", func(v any) bool {
		return isString(v) && isOCDID(v.(string), "ocd-organization/")
	})

	// LegacyOpenStates accepts old-style ids such as NCL000123.
	LegacyOpenStates = NewPredicate("is_legacy_openstates", func(v any) bool {
		return isString(v) && legacyIDPattern.MatchString(v.(string))
	})
)

// Enum accepts strings equal to one of values.
func Enum(values ...string) Predicate {
	name := fmt.Sprintf("Enum(%s)", strings.Join(values, ", "))
	return NewPredicate(name, func(v any) bool {
		s, ok := v.(string)
		if !ok || strings.Contains(s, "\n") {
			return false
		}
		for _, allowed := range values {
			if s == allowed {
				return true
			}
		}
		return false
	})
}

// IsJurisdictionID reports whether id follows the jurisdiction id grammar.
func IsJurisdictionID(id string) bool {
	return jurisdictionPattern.MatchString(id)
}

// isOCDID checks the prefix and that the remainder is a lowercase canonical UUID.
func isOCDID(s, prefix string) bool {
	if !strings.HasPrefix(s, prefix) || !ocdIDPattern.MatchString(s) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(s, prefix))
	return err == nil
}

func isString(v any) bool {
	s, ok := v.(string)
	return ok && !strings.Contains(s, "\n")
}

func isMap(v any) bool {
	_, ok := AsMap(v)
	return ok
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
