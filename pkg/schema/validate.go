package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Validate checks record against s and returns path-qualified error messages.
// path is the key path of record inside its parent document and may be empty.
//
// Missing required fields, failed predicates and undeclared keys are reported;
// a value that is not a map where one is expected stops validation of that
// branch only.
func Validate(record any, s Schema, path ...string) []string {
	obj, ok := AsMap(record)
	if !ok {
		return []string{fmt.Sprintf("%s is not a dictionary", displayPath(path))}
	}

	var errs []string
	prefix := joinPath(path)

	for _, field := range s {
		value, present := obj[field.Name]

		switch n := field.Node.(type) {
		case Leaf:
			if !present {
				if n.Required {
					errs = append(errs, fmt.Sprintf("%s%s missing", prefix, field.Name))
				}
				continue
			}
			for _, pred := range n.Predicates {
				if !pred.Check(value) {
					errs = append(errs, fmt.Sprintf("%s%s failed validation %s: %v", prefix, field.Name, pred.Name, value))
				}
			}

		case Nested:
			if !present {
				continue
			}
			errs = append(errs, Validate(value, n.Schema, childPath(path, field.Name)...)...)

		case ListOf:
			if !present {
				continue
			}
			errs = append(errs, validateList(value, n, childPath(path, field.Name))...)

		default:
			panic(fmt.Sprintf("schema: unsupported node %T for field %s", field.Node, field.Name))
		}
	}

	// Undeclared keys, sorted so output is reproducible
	var extra []string
	for key := range obj {
		if !s.Has(key) {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		errs = append(errs, fmt.Sprintf("extra key: %s%s", prefix, key))
	}

	return errs
}

func validateList(value any, n ListOf, path []string) []string {
	items, ok := AsList(value)
	if !ok {
		return []string{fmt.Sprintf("%s is not a list", displayPath(path))}
	}

	var errs []string
	for i, item := range items {
		itemPath := childPath(path, strconv.Itoa(i))
		if n.Func != nil {
			label := strings.Join(itemPath, ".")
			for _, msg := range n.Func(item) {
				errs = append(errs, label+": "+msg)
			}
			continue
		}
		errs = append(errs, Validate(item, n.Schema, itemPath...)...)
	}
	return errs
}

// AsMap returns v as a string-keyed map. Maps with non-string keys, as
// produced by some YAML decoders, are converted.
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// AsList returns v as a sequence.
func AsList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func childPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}

func joinPath(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return strings.Join(path, ".") + "."
}

func displayPath(path []string) string {
	if len(path) == 0 {
		return "record"
	}
	return strings.Join(path, ".")
}
