package service

import (
	"strings"
	"unicode/utf8"
)

// sanitizeUTF8 drops invalid UTF-8 bytes and surrounding whitespace so the
// value can be stored in PostgreSQL text and JSONB columns.
func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.TrimSpace(s)
}

// sanitizeData applies sanitizeUTF8 to every string inside client supplied
// interaction data, recursing into nested objects and arrays.
func sanitizeData(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return sanitizeUTF8(t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[sanitizeUTF8(k)] = sanitizeData(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = sanitizeData(val)
		}
		return out
	default:
		return v
	}
}
