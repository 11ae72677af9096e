package docstore

import (
	"fmt"
	"strconv"
	"time"
)

// Document is one stored record: a JSON-shaped mapping of field names to
// values. Values are whatever encoding/json produces for an untyped
// unmarshal: string, float64, bool, nil, map[string]any, []any.
//
// Every persisted document must carry an "id" field, unique within its
// collection. Documents that belong to a tenant carry an "org_id" field;
// the store does not enforce tenant isolation beyond equality filtering,
// so callers include org_id in their queries.
type Document map[string]any

// ID returns the document's id field in string form, or "" if absent.
func (d Document) ID() string {
	v, ok := d["id"]
	if !ok || v == nil {
		return ""
	}
	return stringValue(v)
}

// OrgID returns the document's org_id field in string form, or "" if absent.
func (d Document) OrgID() string {
	v, ok := d["org_id"]
	if !ok || v == nil {
		return ""
	}
	return stringValue(v)
}

// Clone returns a shallow copy. Nested maps and slices are shared.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Apply shallow-merges updates into d, overwriting existing fields.
// Partial updates can add or replace fields but never remove them.
func (d Document) Apply(updates Document) {
	for k, v := range updates {
		d[k] = v
	}
}

// stringValue renders a field value in its canonical string form. All query
// comparisons in this package happen over these strings, even for numeric
// fields; ISO-8601 timestamps order correctly under this scheme, numbers do
// not ("9" sorts after "10").
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// NowISO returns the current UTC time in RFC 3339 form, the timestamp
// convention for created_at/updated_at/observed_at fields. RFC 3339 strings
// sort chronologically, which is what makes Gte range queries work.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
