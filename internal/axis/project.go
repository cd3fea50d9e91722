// Package axis resolves named X/Y axes against stored results.
package axis

import (
	"fmt"
	"strings"

	"github.com/san-kum/odeview/internal/result"
	"github.com/san-kum/odeview/internal/viewport"
)

// Source is the read side of a result store.
type Source interface {
	Names() []string
	Get(name string) (*result.Columnar, error)
}

// Projection is one result resolved against an axis pair.
type Projection struct {
	Name   string
	Result *result.Columnar
	XIndex int
	YIndex int
}

// Points returns the (x, y) sequence of the projected columns.
func (p Projection) Points() []viewport.Point {
	n := p.Result.Len()
	pts := make([]viewport.Point, n)
	for i := 0; i < n; i++ {
		pts[i] = viewport.Point{X: p.Result.Value(i, p.XIndex), Y: p.Result.Value(i, p.YIndex)}
	}
	return pts
}

// Warning records a result skipped because it lacks a requested axis.
type Warning struct {
	Result  string
	XAxis   string
	YAxis   string
	Missing []string
}

func (w Warning) String() string {
	return fmt.Sprintf("no data for axes X: %s and Y: %s in result %q (missing %s)",
		w.XAxis, w.YAxis, w.Result, strings.Join(w.Missing, ", "))
}

// Project resolves x and y for every result in src, in src.Names() order.
// Results missing either axis are skipped and reported as warnings.
func Project(src Source, x, y string) ([]Projection, []Warning) {
	var (
		out      []Projection
		warnings []Warning
	)

	for _, name := range src.Names() {
		r, err := src.Get(name)
		if err != nil {
			// removed between Names and Get
			continue
		}

		xi, yi := r.AxisIndex(x), r.AxisIndex(y)
		if xi < 0 || yi < 0 {
			w := Warning{Result: name, XAxis: x, YAxis: y}
			if xi < 0 {
				w.Missing = append(w.Missing, x)
			}
			if yi < 0 && y != x {
				w.Missing = append(w.Missing, y)
			}
			warnings = append(warnings, w)
			continue
		}

		out = append(out, Projection{Name: name, Result: r, XIndex: xi, YIndex: yi})
	}

	return out, warnings
}

// Series extracts the point sequences of all projections.
func Series(projections []Projection) [][]viewport.Point {
	out := make([][]viewport.Point, len(projections))
	for i, p := range projections {
		out[i] = p.Points()
	}
	return out
}
