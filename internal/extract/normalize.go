package extract

import "sort"

// ToArray coerces a parsed value into a list. Arrays pass through; an object
// yields its first array-valued field, or itself wrapped when it has none;
// anything else yields an empty list.
func ToArray(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case Object:
		for _, f := range t {
			if arr, ok := f.Value.([]any); ok {
				return arr
			}
		}
		return []any{t}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if arr, ok := t[k].([]any); ok {
				return arr
			}
		}
		return []any{t}
	default:
		return []any{}
	}
}
