package dataset

import (
	"sort"
	"strings"

	"spazi/pkg/spotlight"
)

// Attribute is one line of the info panel.
type Attribute struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// IsExcluded reports whether field matches one of excluded, ignoring case.
func IsExcluded(field string, excluded []string) bool {
	for _, e := range excluded {
		if strings.EqualFold(e, field) {
			return true
		}
	}
	return false
}

// DisplayAttributes lists a candidate's attributes sorted by key, without
// the excluded fields and without empty values.
func DisplayAttributes(c spotlight.Candidate, excluded []string) []Attribute {
	out := make([]Attribute, 0, len(c.Attributes))
	for k, v := range c.Attributes {
		if v == nil || IsExcluded(k, excluded) {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, Attribute{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
