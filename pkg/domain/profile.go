package domain

import (
	"fmt"
	"sort"
)

// Profile is a role profile as returned by the backend. Its shape differs per
// role and per backend version, so it stays a free-form map.
type Profile map[string]any

// CompletionPercentage returns completion_percentage, or 0 when absent.
func (p Profile) CompletionPercentage() int {
	switch v := p["completion_percentage"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// String returns the field as display text, "" when absent or null.
func (p Profile) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

// Keys returns the populated keys in sorted order.
func (p Profile) Keys() []string {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		if v == nil || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
