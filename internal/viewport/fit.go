package viewport

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyDataSet   = errors.New("viewport: no points to fit")
	ErrInvalidPadding = errors.New("viewport: padding fraction must be a non-negative number")
)

// ZeroSpan replaces a zero-width dimension before padding so a single point
// still yields a drawable box.
const ZeroSpan = 1.0

// Box is a two-dimensional viewport.
type Box struct {
	X, Y Range
}

func (b Box) Valid() bool { return b.X.Valid() && b.Y.Valid() }

// Fit returns the padded bounding box of every finite point in series.
func Fit(series [][]Point, padding float64) (Box, error) {
	if math.IsNaN(padding) || padding < 0 {
		return Box{}, fmt.Errorf("%w: %v", ErrInvalidPadding, padding)
	}

	x := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	y := x
	found := false

	for _, s := range series {
		for _, p := range s {
			if !finite(p.X) || !finite(p.Y) {
				continue
			}
			found = true
			x.Min = math.Min(x.Min, p.X)
			x.Max = math.Max(x.Max, p.X)
			y.Min = math.Min(y.Min, p.Y)
			y.Max = math.Max(y.Max, p.Y)
		}
	}

	if !found {
		return Box{}, ErrEmptyDataSet
	}

	return Box{X: padSpan(x, padding), Y: padSpan(y, padding)}, nil
}

func padSpan(r Range, padding float64) Range {
	if r.Span() == 0 {
		// unpadded single value: still widen to a drawable span
		shift := ZeroSpan * padding
		if shift == 0 {
			shift = ZeroSpan / 2
		}
		return Range{Min: r.Min - shift, Max: r.Max + shift}
	}
	return r.Pad(padding)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
