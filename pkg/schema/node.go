package schema

// Node is a schema entry for a single field. The set of implementations is
// closed: Leaf, Nested and ListOf.
type Node interface {
	node()
}

// Field pairs a record key with the node that validates its value.
type Field struct {
	Name string
	Node Node
}

// Schema is an ordered list of fields. Order determines error order.
type Schema []Field

// Has reports whether the schema declares the named field.
func (s Schema) Has(name string) bool {
	for _, f := range s {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Leaf validates a scalar value with an ordered list of predicates.
type Leaf struct {
	Predicates []Predicate
	Required   bool
}

// Nested validates a single nested map against a sub-schema.
type Nested struct {
	Schema Schema
}

// ListFunc validates one element of a sequence and returns error messages
// relative to that element.
type ListFunc func(item any) []string

// ListOf validates every element of a sequence. Exactly one of Schema or Func
// should be set; Func takes precedence when both are.
type ListOf struct {
	Schema Schema
	Func   ListFunc
}

func (Leaf) node()   {}
func (Nested) node() {}
func (ListOf) node() {}

// Require builds a required Leaf from the given predicates.
func Require(preds ...Predicate) Leaf {
	return Leaf{Predicates: preds, Required: true}
}

// Optional builds an optional Leaf from the given predicates.
func Optional(preds ...Predicate) Leaf {
	return Leaf{Predicates: preds}
}
