package normalize

import "strings"

// LookupAny: safe nested lookup with dot paths on maps.
func LookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// LookupStr returns string at path or "".
func LookupStr(m map[string]any, path string) string {
	if v := LookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
