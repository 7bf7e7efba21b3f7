// Package code parses dotted chart-of-accounts codes such as "1.02.03.04".
package code

import (
	"strings"
)

// Segments is the number of dot-separated segments in a full account code.
const Segments = 4

// Empty is the segment value marking an unused hierarchy level.
const Empty = "00"

// Code is a parsed account code.
type Code struct {
	raw   string
	parts []string
	valid bool
}

// Parse trims s, pads it to four segments with "00" and reports whether
// the result is well formed (non-empty numeric segments). Segments past
// the fourth are kept in the code but ignored for the hierarchy.
func Parse(s string) Code {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	for len(parts) < Segments {
		parts = append(parts, Empty)
	}

	valid := true
	for _, p := range parts {
		if !numeric(p) {
			valid = false
		}
	}

	return Code{raw: strings.Join(parts, "."), parts: parts, valid: valid}
}

// Normalize returns the padded form of s. "1.02" -> "1.02.00.00"
func Normalize(s string) string {
	return Parse(s).String()
}

// String returns the padded code.
func (c Code) String() string { return c.raw }

// Valid reports whether every segment is numeric.
func (c Code) Valid() bool { return c.valid }

// Segment returns the i-th segment (0-based), or "" if out of range.
func (c Code) Segment(i int) string {
	if i < 0 || i >= len(c.parts) {
		return ""
	}
	return c.parts[i]
}

// Synthetic reports whether the code is a grouping node, i.e. its fourth
// segment is "00".
func (c Code) Synthetic() bool {
	return c.parts[Segments-1] == Empty
}

// Inflow reports whether the code belongs to the inbound branch of the
// chart: its first segment is exactly "1".
func (c Code) Inflow() bool {
	return c.Segment(0) == "1"
}

// Ancestors returns the candidate parent codes in decreasing specificity.
// For "a.b.c.d" that is "a.b.c.00" (when d != 00), "a.b.00.00" (when
// c != 00) and "a.00.00.00" (when b != 00), taken from the first four
// segments only. Malformed codes have none.
func (c Code) Ancestors() []string {
	if !c.valid {
		return nil
	}
	a, b, cc, d := c.parts[0], c.parts[1], c.parts[2], c.parts[3]

	var out []string
	if d != Empty {
		out = append(out, join(a, b, cc, Empty))
	}
	if cc != Empty {
		out = append(out, join(a, b, Empty, Empty))
	}
	if b != Empty {
		out = append(out, join(a, Empty, Empty, Empty))
	}
	return out
}

// Depth returns the number of leading non-"00" segments, which is the
// natural indentation level of the code in a printed chart.
func (c Code) Depth() int {
	n := 0
	for _, p := range c.parts {
		if p == Empty {
			break
		}
		n++
	}
	return n
}

func join(parts ...string) string {
	return strings.Join(parts, ".")
}

func numeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
