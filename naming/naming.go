// Package naming converts field names between the snake_case wire
// convention and the camelCase attribute convention, and holds the
// per-model override tables for names the conversion cannot derive.
package naming

import "strings"

// ToAttributeName converts a snake_case wire name to its camelCase
// attribute form. Names that carry no underscore pass through unchanged,
// so the function is the identity on names already in attribute form.
func ToAttributeName(wire string) string {
	if !strings.Contains(wire, "_") {
		return wire
	}

	var b strings.Builder
	b.Grow(len(wire))

	first := true
	for _, part := range strings.Split(wire, "_") {
		if part == "" {
			continue
		}

		if first {
			b.WriteString(part)
			first = false
			continue
		}

		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}

	return b.String()
}

// ToWireName converts a camelCase attribute name to its snake_case wire
// form. Names without uppercase letters pass through unchanged.
func ToWireName(attr string) string {
	var b strings.Builder
	b.Grow(len(attr) + 4)

	for i, r := range attr {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// Overrides maps a mechanically derived wire name to the wire key the
// API actually uses for that field. Entries exist only for names the
// casing conversion cannot produce (abbreviations, reserved words,
// irregular pluralization).
type Overrides map[string]string

// Flip returns the decode-direction table, mapping the actual wire key
// back to the derived wire name.
func (o Overrides) Flip() Overrides {
	flipped := make(Overrides, len(o))
	for derived, actual := range o {
		flipped[actual] = derived
	}

	return flipped
}
