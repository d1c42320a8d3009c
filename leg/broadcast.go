package leg

import "fmt"

// Resolve picks the value for period i from a per-period slice: an empty slice
// yields def, a short slice repeats its last element, otherwise values[i].
func Resolve[T any](values []T, i int, def T) T {
	switch {
	case len(values) == 0:
		return def
	case i < len(values):
		return values[i]
	default:
		return values[len(values)-1]
	}
}

// Optional is a rate that may be absent (no cap, no floor, no mean reversion).
type Optional struct {
	value float64
	set   bool
}

// Some returns a set Optional.
func Some(v float64) Optional { return Optional{value: v, set: true} }

// None returns an unset Optional.
func None() Optional { return Optional{} }

// Get returns the value and whether it is set.
func (o Optional) Get() (float64, bool) { return o.value, o.set }

func (o Optional) IsSet() bool { return o.set }

// OrElse returns the value, or def when unset.
func (o Optional) OrElse(def float64) float64 {
	if !o.set {
		return def
	}
	return o.value
}

func (o Optional) String() string {
	if !o.set {
		return "none"
	}
	return fmt.Sprintf("%g", o.value)
}

// ResolveOptional broadcasts like Resolve but reports "unset" for an empty slice.
func ResolveOptional(values []float64, i int) Optional {
	if len(values) == 0 {
		return None()
	}
	return Some(Resolve(values, i, 0))
}
