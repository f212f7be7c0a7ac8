package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dyluth/peoplelint/pkg/schema"
)

// Role-kind keys understood by ValidateRoles.
const (
	RolesKey = "roles"
	PartyKey = "party"
)

// ErrNoActiveRoles is the message emitted for a serving person without an active role.
const ErrNoActiveRoles = "no active roles"

// idInFilename checks that the UUID segment of the record id appears in filename.
func idInFilename(record map[string]any, filename string) []string {
	id, _ := record["id"].(string)
	_, uid, found := strings.Cut(id, "/")
	if !found || uid == "" {
		return nil
	}
	if !strings.Contains(filename, uid) {
		return []string{fmt.Sprintf("id piece %s not in filename", uid)}
	}
	return nil
}

var nonLetters = regexp.MustCompile(`[^a-zA-Z]+`)

// NamesConsistent is a permissive check that family_name appears in name.
//
// Both are lowercased and split into tokens; runs of characters outside a-z
// become a single wildcard. The names are consistent when any family token
// matches inside any name token, or the other way round. Records without a
// family_name always pass.
func NamesConsistent(record map[string]any) bool {
	family, _ := record["family_name"].(string)
	family = strings.ToLower(family)
	if family == "" {
		return true
	}

	full, _ := record["name"].(string)
	var names []string
	for _, n := range strings.Fields(strings.ToLower(full)) {
		names = append(names, nonLetters.ReplaceAllString(n, "."))
	}

	for _, fn := range strings.Split(family, " ") {
		fn = nonLetters.ReplaceAllString(fn, ".")
		for _, n := range names {
			if tokenMatches(fn, n) || tokenMatches(n, fn) {
				return true
			}
		}
	}
	return false
}

// tokenMatches treats pattern as a regular expression; normalized tokens only
// contain letters and the '.' wildcard.
func tokenMatches(pattern, s string) bool {
	return regexp.MustCompile(pattern).MatchString(s)
}

// validateJurisdictions checks every role's jurisdiction against known ids.
func validateJurisdictions(record map[string]any, known func(id string) bool) []string {
	var errs []string
	for _, role := range entries(record, RolesKey) {
		jid, _ := role["jurisdiction"].(string)
		if jid != "" && !known(jid) {
			errs = append(errs, fmt.Sprintf("%s is not a valid jurisdiction_id", jid))
		}
	}
	return errs
}

// ValidateRoles enforces active-entry cardinality for key ("roles" or "party").
// Serving people need at least one active entry; for roles, exactly one, and
// retired people none.
func ValidateRoles(record map[string]any, key string, retired bool, asOf string) []string {
	active := activeEntries(record, key, asOf)
	switch {
	case len(active) == 0 && !retired:
		return []string{fmt.Sprintf("no active %s", key)}
	case key == RolesKey && retired && len(active) > 0:
		return []string{fmt.Sprintf("%d active roles on retired person", len(active))}
	case key == RolesKey && len(active) > 1:
		return []string{fmt.Sprintf("%d active roles", len(active))}
	}
	return nil
}

// ValidateOffices rejects contact values reused across offices and more than
// one capitol office.
func ValidateOffices(record map[string]any) []string {
	var errs []string
	capitol := 0
	seen := make(map[string]string)

	for _, office := range entries(record, "contact_details") {
		note, _ := office["note"].(string)
		if note == OfficeCapitol {
			capitol++
		}

		keys := make([]string, 0, len(office))
		for key := range office {
			if key != "note" {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)

		for _, key := range keys {
			value := fmt.Sprint(office[key])
			location := fmt.Sprintf("%s %s", note, key)
			if prev, ok := seen[value]; ok {
				errs = append(errs, fmt.Sprintf("Value '%s' used multiple times: %s and %s", value, prev, location))
			}
			seen[value] = location
		}
	}

	if capitol > 1 {
		errs = append(errs, "Multiple capitol offices, condense to one.")
	}
	return errs
}

// validateParties checks party names and overlapping active memberships.
// Overlap between major parties is an error, otherwise a warning.
func validateParties(record map[string]any, valid, major map[string]bool, asOf string) (errs, warnings []string) {
	var active []string
	for _, party := range entries(record, PartyKey) {
		name, ok := party["name"].(string)
		if !ok {
			continue
		}
		if !valid[name] {
			errs = append(errs, fmt.Sprintf("invalid party %s", name))
		}
		if RoleIsActive(party, asOf) {
			active = append(active, name)
		}
	}

	if len(active) > 1 {
		majors := 0
		for _, name := range active {
			if major[name] {
				majors++
			}
		}
		list := "[" + strings.Join(active, ", ") + "]"
		if majors > 1 {
			errs = append(errs, fmt.Sprintf("multiple active major party memberships %s", list))
		} else {
			warnings = append(warnings, fmt.Sprintf("multiple active party memberships %s", list))
		}
	}
	return errs, warnings
}

// validateOldDistrictNames checks retired roles against current and legacy districts.
func validateOldDistrictNames(record map[string]any, expected SeatTable, legacy map[string][]string) []string {
	var errs []string
	for _, role := range entries(record, RolesKey) {
		raw, ok := role["district"]
		if !ok {
			continue
		}
		roleType, _ := role["type"].(string)
		district := fmt.Sprint(raw)
		if _, current := expected[roleType][district]; current {
			continue
		}
		if contains(legacy[roleType], district) {
			continue
		}
		errs = append(errs, fmt.Sprintf("unknown district name: %s %s", roleType, district))
	}
	return errs
}

// CheckHTTPS warns about plain http URLs outside the whitelist.
func CheckHTTPS(record map[string]any, whitelist []string) []string {
	insecure := func(url string) bool {
		if !strings.HasPrefix(url, "http://") {
			return false
		}
		for _, prefix := range whitelist {
			if strings.HasPrefix(url, prefix) {
				return false
			}
		}
		return true
	}

	var warnings []string
	if image, _ := record["image"].(string); insecure(image) {
		warnings = append(warnings, fmt.Sprintf("image URL %s should be HTTPS", image))
	}
	for _, key := range []string{"links", "sources"} {
		for i, link := range entries(record, key) {
			if url, _ := link["url"].(string); insecure(url) {
				warnings = append(warnings, fmt.Sprintf("%s.%d URL %s should be HTTPS", key, i, url))
			}
		}
	}
	return warnings
}

// identifiers returns the (scheme, value) pairs of a record's external ids.
func identifiers(record map[string]any) [][2]string {
	var out [][2]string
	if ids, ok := schema.AsMap(record["ids"]); ok {
		schemes := make([]string, 0, len(ids))
		for scheme := range ids {
			schemes = append(schemes, scheme)
		}
		sort.Strings(schemes)
		for _, scheme := range schemes {
			out = append(out, [2]string{scheme, fmt.Sprint(ids[scheme])})
		}
	}
	for _, other := range entries(record, "other_identifiers") {
		scheme, ok1 := other["scheme"].(string)
		value, ok2 := other["identifier"]
		if ok1 && ok2 {
			out = append(out, [2]string{scheme, fmt.Sprint(value)})
		}
	}
	return out
}
