package procurement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/constructiq/docstore"
)

// Collection names shared across the services.
const (
	colProjects    = "projects"
	colSuppliers   = "suppliers"
	colRFQs        = "rfqs"
	colQuotes      = "quotes"
	colPricePoints = "price_points"
	colProducts    = "normalized_products"
	colAlertRules  = "alert_rules"
	colAlertEvents = "alert_events"
)

func asString(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func asFloat(v any, fallback float64) float64 {
	switch t := v.(type) {
	case nil:
		return fallback
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return fallback
		}
		return f
	default:
		return fallback
	}
}

func asList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return []any{}
}

func asDoc(v any) docstore.Document {
	if m, ok := v.(map[string]any); ok {
		return docstore.Document(m)
	}
	if d, ok := v.(docstore.Document); ok {
		return d
	}
	return docstore.Document{}
}

// requireNonBlank validates that data[key] is a non-blank string and
// returns its trimmed value.
func requireNonBlank(data docstore.Document, key, message string) (string, error) {
	value := strings.TrimSpace(asString(data[key], ""))
	if value == "" {
		return "", BadRequest(message)
	}
	return value, nil
}

func requireNonEmptyList(data docstore.Document, key, message string) ([]any, error) {
	values := asList(data[key])
	if len(values) == 0 {
		return nil, BadRequest(message)
	}
	return values, nil
}

// setDefault writes value only when the field is absent.
func setDefault(doc docstore.Document, key string, value any) {
	if _, ok := doc[key]; !ok {
		doc[key] = value
	}
}

// sanitize strips internal fields from an outbound document.
func sanitize(doc docstore.Document) docstore.Document {
	if doc == nil {
		return nil
	}
	out := doc.Clone()
	delete(out, "_id")
	return out
}

func sanitizeAll(docs []docstore.Document) []docstore.Document {
	out := make([]docstore.Document, len(docs))
	for i, d := range docs {
		out[i] = sanitize(d)
	}
	return out
}
