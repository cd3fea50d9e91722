package result

import (
	"encoding/json"
	"fmt"
	"io"
)

// IndependentAxis names the first column of every result.
const IndependentAxis = "t"

// Sample is one record of a solver response: the independent value and the
// dependent values at that point.
type Sample struct {
	T      float64   `json:"t"`
	Values []float64 `json:"values"`
}

// Payload is the body returned by the solver server.
type Payload struct {
	Status  string   `json:"status,omitempty"`
	Message string   `json:"message,omitempty"`
	Results []Sample `json:"results"`
}

// Columnar is an immutable named-axis point table. Every row has exactly
// len(Axes()) entries, positionally aligned with the axes.
type Columnar struct {
	axes   []string
	index  map[string]int
	points [][]float64
}

// FromSamples builds a table from solver samples. The dependent-value count
// is taken from the first sample; any later sample of a different width is
// rejected.
func FromSamples(samples []Sample) (*Columnar, error) {
	if len(samples) == 0 {
		return newColumnar([]string{IndependentAxis}, nil), nil
	}

	k := len(samples[0].Values)
	axes := make([]string, 0, k+1)
	axes = append(axes, IndependentAxis)
	for i := 0; i < k; i++ {
		axes = append(axes, fmt.Sprintf("y%d", i))
	}

	points := make([][]float64, len(samples))
	for i, s := range samples {
		if len(s.Values) != k {
			return nil, &PayloadError{Sample: i, Expected: k, Got: len(s.Values), Wrapped: ErrMalformedPayload}
		}
		row := make([]float64, 0, k+1)
		row = append(row, s.T)
		row = append(row, s.Values...)
		points[i] = row
	}

	return newColumnar(axes, points), nil
}

// FromRows builds a table from already tabular data such as an archived CSV.
func FromRows(axes []string, rows [][]float64) (*Columnar, error) {
	if len(axes) == 0 {
		return nil, fmt.Errorf("%w: no axes", ErrMalformedPayload)
	}

	points := make([][]float64, len(rows))
	for i, r := range rows {
		if len(r) != len(axes) {
			return nil, &PayloadError{Sample: i, Expected: len(axes), Got: len(r), Wrapped: ErrMalformedPayload}
		}
		points[i] = append([]float64(nil), r...)
	}

	return newColumnar(append([]string(nil), axes...), points), nil
}

// Decode reads a JSON solver payload.
func Decode(r io.Reader) (*Columnar, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if p.Status != "" && p.Status != "success" {
		if p.Message != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrPayloadStatus, p.Status, p.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrPayloadStatus, p.Status)
	}
	return FromSamples(p.Results)
}

func newColumnar(axes []string, points [][]float64) *Columnar {
	index := make(map[string]int, len(axes))
	for i, a := range axes {
		if _, dup := index[a]; !dup {
			index[a] = i
		}
	}
	return &Columnar{axes: axes, index: index, points: points}
}

// Axes returns a copy of the column names.
func (c *Columnar) Axes() []string {
	return append([]string(nil), c.axes...)
}

// Len returns the number of rows.
func (c *Columnar) Len() int { return len(c.points) }

// Row returns a copy of row i.
func (c *Columnar) Row(i int) []float64 {
	return append([]float64(nil), c.points[i]...)
}

// Value returns a single cell without copying the row.
func (c *Columnar) Value(row, col int) float64 {
	return c.points[row][col]
}

// AxisIndex returns the column position of name, or -1 if absent.
func (c *Columnar) AxisIndex(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	return -1
}

func (c *Columnar) HasAxis(name string) bool {
	_, ok := c.index[name]
	return ok
}
