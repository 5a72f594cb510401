package gateway

import "strconv"

// Document is a parsed provider response body: an untyped nested mapping.
type Document map[string]any

// Dig walks nested maps and returns the value at the given key path, or nil.
func (d Document) Dig(keys ...string) any {
	var cur any = map[string]any(d)
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[k]
		if !ok {
			return nil
		}
	}
	return cur
}

// String returns the string at the key path. Numeric values are formatted,
// since processors flip-flop between string and number encodings of ids.
// Anything else yields "".
func (d Document) String(keys ...string) string {
	switch v := d.Dig(keys...).(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Descriptions resolves the error-detail field under key into a flat list of
// description strings. The field is observed as either a single object or an
// array of objects, each carrying "description"; both shapes normalize here
// so call sites never sniff the encoding themselves.
func (d Document) Descriptions(key string) []string {
	var out []string
	collect := func(v any) {
		if m, ok := v.(map[string]any); ok {
			if desc, ok := m["description"].(string); ok && desc != "" {
				out = append(out, desc)
			}
		}
	}
	switch v := d.Dig(key).(type) {
	case map[string]any:
		collect(v)
	case []any:
		for _, e := range v {
			collect(e)
		}
	}
	return out
}
