package lint

import "github.com/dyluth/peoplelint/pkg/schema"

// Office labels accepted in contact_details.note.
const (
	OfficeDistrict = "District Office"
	OfficeCapitol  = "Capitol Office"
	OfficePrimary  = "Primary Office"
)

// Chamber role types; executive role types are listed in executiveRoleTypes.
var legislativeRoleTypes = []string{"upper", "lower", "legislature"}

var executiveRoleTypes = []string{
	"governor",
	"lt_governor",
	"mayor",
	"chief election officer",
	"secretary of state",
}

var urlList = schema.ListOf{Schema: schema.Schema{
	{Name: "note", Node: schema.Optional(schema.String)},
	{Name: "url", Node: schema.Require(schema.URL)},
}}

var contactDetails = schema.ListOf{Schema: schema.Schema{
	{Name: "note", Node: schema.Require(schema.Enum(OfficeDistrict, OfficeCapitol, OfficePrimary))},
	{Name: "address", Node: schema.Optional(schema.String)},
	{Name: "voice", Node: schema.Optional(schema.Phone)},
	{Name: "fax", Node: schema.Optional(schema.Phone)},
}}

// LegislativeRoleSchema validates chamber roles.
var LegislativeRoleSchema = schema.Schema{
	{Name: "type", Node: schema.Require(schema.String)},
	{Name: "district", Node: schema.Require(schema.String)},
	{Name: "jurisdiction", Node: schema.Require(schema.Jurisdiction)},
	{Name: "start_date", Node: schema.Optional(schema.FuzzyDate)},
	{Name: "end_date", Node: schema.Optional(schema.FuzzyDate)},
	{Name: "end_reason", Node: schema.Optional(schema.String)},
	{Name: "contact_details", Node: contactDetails},
}

// ExecutiveRoleSchema validates executive roles, which always carry an end date.
var ExecutiveRoleSchema = schema.Schema{
	{Name: "type", Node: schema.Require(schema.String)},
	{Name: "jurisdiction", Node: schema.Require(schema.Jurisdiction)},
	{Name: "start_date", Node: schema.Optional(schema.FuzzyDate)},
	{Name: "end_date", Node: schema.Require(schema.FuzzyDate)},
	{Name: "contact_details", Node: contactDetails},
}

// validateRole picks the role schema by the role's type.
func validateRole(item any) []string {
	role, ok := schema.AsMap(item)
	if !ok {
		return []string{"is not a dictionary"}
	}
	roleType, _ := role["type"].(string)
	switch {
	case contains(legislativeRoleTypes, roleType):
		return schema.Validate(role, LegislativeRoleSchema)
	case contains(executiveRoleTypes, roleType):
		return schema.Validate(role, ExecutiveRoleSchema)
	default:
		return []string{"invalid type"}
	}
}

var validParent = schema.NewPredicate("is_valid_parent", func(v any) bool {
	s, ok := v.(string)
	return ok && (contains(legislativeRoleTypes, s) || schema.Organization.Check(v))
})

var dated = []schema.Field{
	{Name: "start_date", Node: schema.Optional(schema.FuzzyDate)},
	{Name: "end_date", Node: schema.Optional(schema.FuzzyDate)},
}

// OrganizationSchema validates committee and other organization records.
var OrganizationSchema = schema.Schema{
	{Name: "id", Node: schema.Require(schema.Organization)},
	{Name: "name", Node: schema.Require(schema.String)},
	{Name: "jurisdiction", Node: schema.Require(schema.Jurisdiction)},
	{Name: "parent", Node: schema.Require(validParent)},
	{Name: "classification", Node: schema.Require(schema.String)},
	{Name: "memberships", Node: schema.ListOf{Schema: withDates(
		schema.Field{Name: "id", Node: schema.Optional(schema.Person)},
		schema.Field{Name: "name", Node: schema.Require(schema.String)},
		schema.Field{Name: "role", Node: schema.Optional(schema.String)},
	)}},
	{Name: "sources", Node: urlList},
	{Name: "links", Node: urlList},
}

// PersonSchema validates legislator, executive, municipal and retired person records.
var PersonSchema = schema.Schema{
	{Name: "id", Node: schema.Require(schema.Person)},
	{Name: "name", Node: schema.Require(schema.String, schema.NoBadComma)},
	{Name: "sort_name", Node: schema.Optional(schema.String)},
	{Name: "given_name", Node: schema.Optional(schema.String)},
	{Name: "family_name", Node: schema.Optional(schema.String)},
	{Name: "middle_name", Node: schema.Optional(schema.String)},
	{Name: "email", Node: schema.Optional(schema.String)},
	{Name: "suffix", Node: schema.Optional(schema.String)},
	{Name: "gender", Node: schema.Optional(schema.String)},
	{Name: "biography", Node: schema.Optional(schema.MultilineString)},
	{Name: "birth_date", Node: schema.Optional(schema.FuzzyDate)},
	{Name: "death_date", Node: schema.Optional(schema.FuzzyDate)},
	{Name: "image", Node: schema.Optional(schema.URL)},
	{Name: "contact_details", Node: contactDetails},
	{Name: "links", Node: urlList},
	{Name: "ids", Node: schema.Nested{Schema: schema.Schema{
		{Name: "twitter", Node: schema.Optional(schema.Social)},
		{Name: "youtube", Node: schema.Optional(schema.Social)},
		{Name: "instagram", Node: schema.Optional(schema.Social)},
		{Name: "facebook", Node: schema.Optional(schema.Social)},
		{Name: "legacy_openstates", Node: schema.Optional(schema.LegacyOpenStates)},
	}}},
	{Name: "other_identifiers", Node: schema.ListOf{Schema: withDates(
		schema.Field{Name: "identifier", Node: schema.Require(schema.String)},
		schema.Field{Name: "scheme", Node: schema.Require(schema.String)},
	)}},
	{Name: "other_names", Node: schema.ListOf{Schema: withDates(
		schema.Field{Name: "name", Node: schema.Require(schema.String)},
	)}},
	{Name: "sources", Node: urlList},
	{Name: "party", Node: schema.ListOf{Schema: withDates(
		schema.Field{Name: "name", Node: schema.Require(schema.String)},
	)}},
	{Name: "roles", Node: schema.ListOf{Func: validateRole}},
	{Name: "extras", Node: schema.Optional(schema.Map)},
}

func withDates(fields ...schema.Field) schema.Schema {
	out := make(schema.Schema, 0, len(fields)+len(dated))
	out = append(out, fields...)
	return append(out, dated...)
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
