package docstore

import "strings"

// matchQuery reports whether doc satisfies every condition in q. It is the
// in-memory twin of the SQL WHERE clause and governs correctness whenever a
// query carries an operator or a field outside the SQL allow-list.
//
// All comparisons happen over canonical string forms (see stringValue). A
// missing field compares as the empty string: it never matches Eq/In/Contains
// against a non-empty operand and fails Gte against a non-empty bound.
// Evaluation short-circuits on the first failing clause.
func matchQuery(doc Document, q Query) bool {
	for field, cond := range q {
		actual := stringValue(doc[field])

		switch f := cond.(type) {
		case eqFilter:
			if stringValue(f.value) != actual {
				return false
			}
		case containsFilter:
			if !strings.Contains(strings.ToLower(actual), strings.ToLower(f.substr)) {
				return false
			}
		case inFilter:
			found := false
			for _, v := range f.values {
				if stringValue(v) == actual {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case gteFilter:
			if actual < f.bound {
				return false
			}
		default:
			// Unreachable while Filter stays a closed set.
			return false
		}
	}
	return true
}
