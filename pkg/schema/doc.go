// Package schema provides a small typed validation DSL for untyped record trees.
//
// # Overview
//
// Records are decoded YAML documents: maps with string keys holding scalars,
// nested maps, or sequences of maps. A Schema describes which keys a record may
// carry and how each value is checked. Each field is described by one of three
// node kinds:
//
//   - Leaf: an ordered list of predicates, optionally Required
//   - Nested: a sub-schema applied to a single nested map
//   - ListOf: a sub-schema (or a list function) applied to every element of a sequence
//
// Validate walks a record against a schema and returns path-qualified error
// strings in a deterministic order: field declaration order, then predicate
// order within a field, then undeclared keys (sorted).
//
// # Usage Example
//
//	urls := schema.ListOf{Schema: schema.Schema{
//		{Name: "note", Node: schema.Optional(schema.String)},
//		{Name: "url", Node: schema.Require(schema.URL)},
//	}}
//
//	person := schema.Schema{
//		{Name: "name", Node: schema.Require(schema.String)},
//		{Name: "links", Node: urls},
//	}
//
//	errs := schema.Validate(record, person)
//	// errs = ["links.0.url missing", "extra key: nickname"]
//
// Schemas are immutable configuration: build them once at process start and
// share them freely.
package schema
