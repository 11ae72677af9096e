package docstore

// Query is a conjunction of per-field conditions, evaluated with AND
// semantics. There is no OR, NOT, or nesting. An empty Query matches every
// document in the collection.
//
//	q := docstore.Query{
//	    "org_id": docstore.Eq("org-1"),
//	    "name":   docstore.Contains("steel"),
//	}
type Query map[string]Filter

// Filter is one per-field condition. The four constructors below are the
// only implementations, so the evaluator can switch over them exhaustively.
type Filter interface {
	filter()
}

type eqFilter struct{ value any }

type containsFilter struct{ substr string }

type inFilter struct{ values []any }

type gteFilter struct{ bound string }

func (eqFilter) filter()       {}
func (containsFilter) filter() {}
func (inFilter) filter()       {}
func (gteFilter) filter()      {}

// Eq matches documents whose field equals value. Both sides are compared in
// their string form; Eq(5) and Eq("5") are the same condition.
func Eq(value any) Filter {
	return eqFilter{value: value}
}

// Contains matches documents whose field contains substr, case-insensitively.
// This is plain substring containment, not a regular expression.
func Contains(substr string) Filter {
	return containsFilter{substr: substr}
}

// In matches documents whose field equals one of values, compared in string
// form. An empty value set matches nothing.
func In(values ...any) Filter {
	return inFilter{values: values}
}

// Gte matches documents whose field, compared as a string, is
// lexicographically greater than or equal to bound. Intended for RFC 3339
// timestamp cutoffs; a missing field compares as the empty string and fails
// any non-empty bound.
func Gte(bound string) Filter {
	return gteFilter{bound: bound}
}
