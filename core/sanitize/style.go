package sanitize

import (
	"strings"
)

// Declaration is one property: value pair from an inline style attribute.
type Declaration struct {
	Property string
	Value    string
}

// ParseStyle splits an inline style into declarations. Properties are
// lowercased and both sides trimmed; entries without a colon or with an
// empty side are skipped. The value is everything after the first colon,
// so URLs and times survive.
func ParseStyle(style string) []Declaration {
	var out []Declaration
	for _, chunk := range strings.Split(style, ";") {
		prop, val, found := strings.Cut(chunk, ":")
		if !found {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" || val == "" {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: val})
	}
	return out
}

// FormatStyle joins declarations back into an attribute value.
func FormatStyle(decls []Declaration) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(d.Value)
	}
	return b.String()
}

// filterStyle keeps only allowed properties, in their original order.
// An empty result means the attribute should be removed.
func (s *Sanitizer) filterStyle(style string) string {
	decls := ParseStyle(style)
	kept := decls[:0]
	for _, d := range decls {
		if s.allow.AllowsStyle(d.Property) {
			kept = append(kept, d)
		}
	}
	return FormatStyle(kept)
}
