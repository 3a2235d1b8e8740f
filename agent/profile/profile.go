package profile

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// StudentProfile maps attribute names (grade, subjects, learning_style,
// ...) to scalar or list-of-scalar values. It is supplied at session
// start and treated as read-only for the lifetime of the session.
type StudentProfile map[string]any

// Summary renders the profile as one "Title Case Key: value" line per
// non-empty attribute, for injection into persona instructions and the
// selection prompt. List values are joined with ", ". An empty profile
// yields an empty string.
func (p StudentProfile) Summary() string {
	if len(p) == 0 {
		return ""
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		val := renderValue(p[k])
		if val == "" {
			continue
		}
		lines = append(lines, titleCase(k)+": "+val)
	}
	return strings.Join(lines, "\n")
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []string:
		return joinNonEmpty(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, renderValue(item))
		}
		return joinNonEmpty(parts)
	case bool:
		if !val {
			return ""
		}
		return "true"
	default:
		// Zero numbers count as absent, same as empty strings.
		if rv := reflect.ValueOf(v); rv.IsZero() {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, ", ")
}

// titleCase turns "learning_style" into "Learning Style".
func titleCase(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
