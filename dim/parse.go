package dim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// remPixels is the pixel size of 1rem (and, approximately, 1em).
const remPixels = 16.0

// Parse parses a dimension string and never fails: anything it cannot read
// is treated as automatic.
//
//	"120px" → Px(120)
//	"120"   → Px(120)
//	"25%"   → Pct(25)
//	"[2rem]"→ Px(32)
//	""      → Auto
func Parse(value string) Spec {
	s, err := ParseStrict(value)
	if err != nil {
		return Spec{}
	}
	return s
}

// ParseStrict is like Parse but reports values it cannot read.
// Empty strings, "auto", "null" and "*" are valid automatic values.
func ParseStrict(value string) (Spec, error) {
	value = strings.TrimSpace(value)

	// Arbitrary value brackets: [120px]
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		value = strings.TrimSpace(value[1 : len(value)-1])
	}

	switch strings.ToLower(value) {
	case "", "auto", "null", "*":
		return Spec{}, nil
	}

	var numStr string
	mode := Pixels
	multiplier := 1.0

	// Handle different units by stripping suffix and applying multiplier
	switch {
	case strings.HasSuffix(value, "px"):
		numStr = strings.TrimSuffix(value, "px")
	case strings.HasSuffix(value, "%"):
		numStr = strings.TrimSuffix(value, "%")
		mode = Percent
	case strings.HasSuffix(value, "rem"):
		numStr = strings.TrimSuffix(value, "rem")
		multiplier = remPixels
	case strings.HasSuffix(value, "em"):
		numStr = strings.TrimSuffix(value, "em")
		multiplier = remPixels
	default:
		numStr = value
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(numStr), 64)
	if err != nil {
		return Spec{}, fmt.Errorf("invalid dimension %q", value)
	}
	if math.IsNaN(num) || math.IsInf(num, 0) || num < 0 {
		return Spec{}, fmt.Errorf("invalid dimension %q: must be a finite, non-negative number", value)
	}

	return Spec{Mode: mode, Value: num * multiplier}, nil
}

// MarshalText implements encoding.TextMarshaler so specs round-trip through
// TOML, YAML and JSON as strings.
func (s Spec) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Spec) UnmarshalText(text []byte) error {
	parsed, err := ParseStrict(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
