package viewport

import (
	"errors"
	"math"
	"testing"
)

func ramp(n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: float64(i), Y: float64(i * i)}
	}
	return pts
}

func equalPoints(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDownsample_Stride(t *testing.T) {
	in := []Point{{0, 0}, {1, 1}, {2, 4}, {3, 9}}

	out, err := Downsample(in, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []Point{{0, 0}, {2, 4}}
	if !equalPoints(out, expected) {
		t.Errorf("expected %v, got %v", expected, out)
	}
}

func TestDownsample_FloatStride(t *testing.T) {
	n, budget := 30, 22
	in := ramp(n)

	out, err := Downsample(in, budget)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != budget {
		t.Fatalf("expected %d points, got %d", budget, len(out))
	}

	stride := float64(n) / float64(budget)
	for i, p := range out {
		want := math.Floor(float64(i) * stride)
		if p.X != want {
			t.Errorf("point %d: expected index %v, got %v", i, want, p.X)
		}
	}
}

func TestDownsample_NonBinding(t *testing.T) {
	in := ramp(5)
	for _, budget := range []int{5, 6, 100} {
		out, err := Downsample(in, budget)
		if err != nil {
			t.Fatalf("budget %d: unexpected error: %v", budget, err)
		}
		if !equalPoints(out, in) {
			t.Errorf("budget %d: expected input unchanged, got %v", budget, out)
		}
	}
}

func TestDownsample_InvalidBudget(t *testing.T) {
	for _, budget := range []int{0, -1} {
		if _, err := Downsample(ramp(3), budget); !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("budget %d: expected ErrInvalidBudget, got %v", budget, err)
		}
		if _, err := Reduce(nil, Range{0, 1}, budget); !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("budget %d: Reduce expected ErrInvalidBudget, got %v", budget, err)
		}
	}
}

func TestReduce_Count(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		r        Range
		budget   int
		expected int
	}{
		{"all visible, binding", 1000, Range{0, 1000}, 200, 200},
		{"all visible, non-binding", 50, Range{0, 100}, 200, 50},
		{"half visible", 1000, Range{0, 499}, 100, 100},
		{"few visible", 1000, Range{10, 14}, 100, 5},
		{"none visible", 10, Range{20, 30}, 5, 0},
		{"budget one", 10, Range{0, 10}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Reduce(ramp(tt.n), tt.r, tt.budget)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out) != tt.expected {
				t.Errorf("expected %d points, got %d", tt.expected, len(out))
			}
			for _, p := range out {
				if !tt.r.Contains(p.X) {
					t.Errorf("point %v outside %v", p, tt.r)
				}
			}
		})
	}
}

func TestReduce_KeepsFirstClipped(t *testing.T) {
	out, err := Reduce(ramp(1000), Range{100, 900}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].X != 100 {
		t.Errorf("expected first point x=100, got %v", out[0].X)
	}
	for i := 1; i < len(out); i++ {
		if out[i].X <= out[i-1].X {
			t.Errorf("output not order preserving at %d: %v", i, out)
		}
	}
}

func TestReduce_Deterministic(t *testing.T) {
	in := ramp(777)
	r := Range{3.5, 612.25}

	a, _ := Reduce(in, r, 64)
	b, _ := Reduce(in, r, 64)
	if !equalPoints(a, b) {
		t.Error("Reduce is not deterministic")
	}
}

func TestReduce_Empty(t *testing.T) {
	out, err := Reduce(nil, Range{0, 1}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
}

func TestClip_Inclusive(t *testing.T) {
	out := Clip(ramp(5), Range{1, 3})
	if len(out) != 3 || out[0].X != 1 || out[2].X != 3 {
		t.Errorf("expected x in [1,3] inclusive, got %v", out)
	}
}

func TestRange_Ops(t *testing.T) {
	r := Range{0, 10}

	if p := r.Pad(0.1); p.Min != -1 || p.Max != 11 {
		t.Errorf("Pad: got %v", p)
	}
	if z := r.Zoom(0.8); math.Abs(z.Min-1) > 1e-12 || math.Abs(z.Max-9) > 1e-12 {
		t.Errorf("Zoom: got %v", z)
	}
	if p := r.Pan(0.5); p.Min != 5 || p.Max != 15 {
		t.Errorf("Pan: got %v", p)
	}
	if !r.Valid() {
		t.Error("expected valid range")
	}
	if (Range{math.NaN(), 1}).Valid() || (Range{2, 1}).Valid() {
		t.Error("expected invalid range")
	}
}

func TestUnion(t *testing.T) {
	u, ok := Union(Range{0, 5}, Range{-2, 3}, Range{math.NaN(), math.NaN()}, Range{4, 9})
	if !ok {
		t.Fatal("expected ok")
	}
	if u.Min != -2 || u.Max != 9 {
		t.Errorf("expected [-2, 9], got %v", u)
	}

	if _, ok := Union(); ok {
		t.Error("expected no union for zero ranges")
	}
	if _, ok := Union(Range{math.NaN(), 0}); ok {
		t.Error("expected no union for invalid ranges")
	}
}
