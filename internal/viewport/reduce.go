package viewport

import (
	"errors"
	"fmt"
)

var ErrInvalidBudget = errors.New("viewport: point budget must be positive")

// Clip keeps the points with r.Min <= X <= r.Max, preserving order.
func Clip(points []Point, r Range) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if r.Contains(p.X) {
			out = append(out, p)
		}
	}
	return out
}

// Downsample returns at most budget points using a fixed stride. When the
// budget is not binding the input is returned unchanged.
func Downsample(points []Point, budget int) ([]Point, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBudget, budget)
	}

	n := len(points)
	if n <= budget {
		return points, nil
	}

	stride := float64(n) / float64(budget)
	out := make([]Point, budget)
	for i := 0; i < budget; i++ {
		out[i] = points[int(float64(i)*stride)]
	}
	return out, nil
}

// Reduce clips points to r and downsamples the result to budget. Padding, if
// any, must already be applied to r.
func Reduce(points []Point, r Range, budget int) ([]Point, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBudget, budget)
	}
	return Downsample(Clip(points, r), budget)
}
