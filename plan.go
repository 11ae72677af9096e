package docstore

import "sort"

// simpleFields is the allow-list of fields worth filtering inside SQL via a
// JSON path expression. They are the organization, identity and status-like
// fields every collection shares by convention. Membership is a tuning knob:
// a field left off the list still filters correctly, just in memory.
var simpleFields = map[string]struct{}{
	"org_id":                {},
	"id":                    {},
	"status":                {},
	"is_active":             {},
	"source_type":           {},
	"rule_id":               {},
	"supplier_id":           {},
	"rfq_id":                {},
	"normalized_product_id": {},
	"project_id":            {},
	"email":                 {},
	"role":                  {},
}

// equalityClause is one allow-listed field = string-literal condition,
// pushable into a SQL WHERE clause. Only string literals are pushable:
// SQLite's json_extract yields native scalars for booleans and numbers, so
// comparing them against a bound text parameter would silently miss rows
// the predicate evaluator matches.
type equalityClause struct {
	field string
	value string
}

// queryPlan is the result of classifying a Query: the equality clauses SQL
// can evaluate, and whether anything remains that SQL cannot. When complex
// is true the SQL stage fetches a superset and the predicate evaluator
// finishes the job; sorting and pagination then also move in memory.
type queryPlan struct {
	equalities []equalityClause
	complex    bool
}

// planQuery classifies q. It never fails: an empty query plans as simple
// with zero clauses, which matches the whole collection.
func planQuery(q Query) queryPlan {
	plan := queryPlan{}
	if len(q) == 0 {
		return plan
	}

	// Deterministic clause order keeps generated SQL stable across calls.
	fields := make([]string, 0, len(q))
	for field := range q {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		eq, isEq := q[field].(eqFilter)
		if !isEq {
			plan.complex = true
			continue
		}
		literal, isString := eq.value.(string)
		if !isString {
			plan.complex = true
			continue
		}
		if _, allowed := simpleFields[field]; !allowed {
			plan.complex = true
			continue
		}
		plan.equalities = append(plan.equalities, equalityClause{
			field: field,
			value: literal,
		})
	}
	return plan
}
