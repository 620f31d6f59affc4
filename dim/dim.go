// Package dim describes declared sizes of grid parts: a fixed pixel value,
// a percentage of the containing size, or nothing at all (automatic).
package dim

import "strconv"

// Mode specifies how a declared dimension is resolved.
type Mode int

const (
	// Auto means no size was declared; the layout decides.
	Auto Mode = iota

	// Pixels uses an explicit pixel value.
	Pixels

	// Percent uses a percentage of the containing size.
	Percent
)

// String returns the mode name as used in grid definition files.
func (m Mode) String() string {
	switch m {
	case Pixels:
		return "px"
	case Percent:
		return "percent"
	default:
		return "auto"
	}
}

// Spec is a declared width or height.
// The zero value is an automatic (unspecified) dimension.
type Spec struct {
	Mode  Mode
	Value float64
}

// Px returns a fixed pixel dimension.
func Px(v float64) Spec {
	return Spec{Mode: Pixels, Value: v}
}

// Pct returns a percentage dimension.
func Pct(v float64) Spec {
	return Spec{Mode: Percent, Value: v}
}

// IsAuto reports whether no size was declared.
func (s Spec) IsAuto() bool {
	return s.Mode == Auto
}

// IsPercent reports whether the size is relative to its container.
func (s Spec) IsPercent() bool {
	return s.Mode == Percent
}

// Resolve converts the spec into pixels against base.
// Returns (0, false) for automatic specs.
func (s Spec) Resolve(base float64) (float64, bool) {
	switch s.Mode {
	case Pixels:
		return s.Value, true
	case Percent:
		return s.Value / 100 * base, true
	default:
		return 0, false
	}
}

// String formats the spec the way Parse accepts it.
func (s Spec) String() string {
	switch s.Mode {
	case Pixels:
		return strconv.FormatFloat(s.Value, 'f', -1, 64) + "px"
	case Percent:
		return strconv.FormatFloat(s.Value, 'f', -1, 64) + "%"
	default:
		return "auto"
	}
}
