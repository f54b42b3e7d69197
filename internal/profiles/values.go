package profiles

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mpopescu/atsmatch/internal/lang"
)

// pickLang resolves bilingual YAML values. A mapping whose keys are locale
// codes ({en: ..., ro: ...}) collapses to the requested locale, falling back
// to the other one when the requested key is absent. Anything else passes
// through unchanged.
func pickLang(v any, locale lang.Locale) any {
	m, ok := asMap(v)
	if !ok {
		return v
	}
	if !isLangMap(m) {
		return v
	}
	if picked, ok := m[string(locale)]; ok {
		return picked
	}
	for _, code := range []string{string(lang.EN), string(lang.RO)} {
		if picked, ok := m[code]; ok {
			return picked
		}
	}
	return nil
}

func isLangMap(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for k := range m {
		if k != string(lang.EN) && k != string(lang.RO) {
			return false
		}
	}
	return true
}

// asMap normalizes the two map shapes the YAML decoder can produce.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// pickedMap returns v as a string-keyed map, or an empty map when v is not
// a mapping.
func pickedMap(v any) (map[string]any, bool) {
	m, ok := asMap(v)
	if !ok {
		return map[string]any{}, false
	}
	return m, true
}

// toList coerces a YAML value into a trimmed string slice. Lists keep their
// order with blank entries dropped; a bare string splits on newlines; scalars
// become a single-element slice.
func toList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, line := range strings.Split(val, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := toString(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

// toString renders a scalar YAML value as a trimmed string.
func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case bool, int, int64, float64:
		return strings.TrimSpace(fmt.Sprint(val))
	default:
		return ""
	}
}

// flattenMetrics accepts metrics either as a flat list or as a mapping of
// category to list, flattening the latter in sorted category order so the
// result is deterministic.
func flattenMetrics(v any, locale lang.Locale) []string {
	v = pickLang(v, locale)
	if m, ok := asMap(v); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, toList(pickLang(m[k], locale))...)
		}
		return out
	}
	return toList(v)
}
