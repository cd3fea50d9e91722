package viewport

import "math"

// Point is one projected sample.
type Point struct {
	X, Y float64
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min, Max float64
}

// Valid reports whether both bounds are finite numbers and Min <= Max.
func (r Range) Valid() bool {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return false
	}
	return r.Min <= r.Max
}

func (r Range) Span() float64 { return r.Max - r.Min }

func (r Range) Mid() float64 { return (r.Max + r.Min) / 2 }

func (r Range) Contains(x float64) bool {
	return x >= r.Min && x <= r.Max
}

// Pad widens the range by fraction*|span| on each side.
func (r Range) Pad(fraction float64) Range {
	shift := math.Abs(r.Span()) * fraction
	return Range{Min: r.Min - shift, Max: r.Max + shift}
}

// Zoom scales the range about its midpoint. A factor below 1 zooms in.
func (r Range) Zoom(factor float64) Range {
	mid := r.Mid()
	half := r.Span() * factor / 2
	return Range{Min: mid - half, Max: mid + half}
}

// Pan shifts the range by fraction of its span; positive moves right.
func (r Range) Pan(fraction float64) Range {
	d := r.Span() * fraction
	return Range{Min: r.Min + d, Max: r.Max + d}
}

// Union returns the overall min and max of all valid ranges. ok is false if
// none of the ranges are valid.
func Union(ranges ...Range) (Range, bool) {
	out := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	ok := false
	for _, r := range ranges {
		if !r.Valid() {
			continue
		}
		ok = true
		out.Min = math.Min(out.Min, r.Min)
		out.Max = math.Max(out.Max, r.Max)
	}
	if !ok {
		return Range{}, false
	}
	return out, true
}
