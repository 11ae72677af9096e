package docstore

import (
	"sort"
	"strings"
)

// sortAndPage orders docs by sortField and slices out the requested page.
// It is the in-memory fallback used whenever complex filtering kept the SQL
// stage from pushing ORDER BY / LIMIT down into the database.
//
// The sort is stable. Numeric values order numerically; everything else
// orders by its string form; a missing field sorts as the empty string,
// i.e. first ascending. skip clamps to [0, len]; limit <= 0 means no limit.
func sortAndPage(docs []Document, sortField string, descending bool, skip, limit int) []Document {
	if sortField != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(docs[i][sortField], docs[j][sortField])
			if descending {
				return c > 0
			}
			return c < 0
		})
	}

	from := skip
	if from < 0 {
		from = 0
	}
	if from >= len(docs) {
		return []Document{}
	}
	to := len(docs)
	if limit > 0 && from+limit < to {
		to = from + limit
	}
	out := make([]Document, to-from)
	copy(out, docs[from:to])
	return out
}

// compareValues returns -1, 0, or 1 ordering two field values.
func compareValues(a, b any) int {
	af, aNum := asNumber(a)
	bf, bNum := asNumber(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(stringValue(a), stringValue(b))
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
