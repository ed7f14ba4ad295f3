// Package stats turns preview rows into the counts the chart shows.
package stats

import (
	"encoding/json"
	"fmt"

	"customer-insights/internal/model"
)

// Unknown labels rows whose category is missing or falsy.
const Unknown = "Unknown"

// Aggregate counts rows per distinct value of field. Categories appear in the
// order they are first seen. Missing, null, "", false and zero values are
// counted under Unknown.
func Aggregate(rows []model.Row, field string) []model.CategoryCount {
	out := make([]model.CategoryCount, 0)
	index := make(map[string]int)
	for _, r := range rows {
		cat := Unknown
		if v, ok := r.Get(field); ok && !falsy(v) {
			cat = label(v)
		}
		i, seen := index[cat]
		if !seen {
			i = len(out)
			index[cat] = i
			out = append(out, model.CategoryCount{Category: cat})
		}
		out[i].Count++
	}
	return out
}

// Total is the number of rows a distribution was built from.
func Total(dist []model.CategoryCount) int {
	n := 0
	for _, c := range dist {
		n += c.Count
	}
	return n
}

func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case float64:
		return t == 0
	case int:
		return t == 0
	}
	return false
}

func label(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	switch v.(type) {
	case map[string]any, []any:
		return model.FormatScalar(v)
	}
	return fmt.Sprintf("%v", v)
}
