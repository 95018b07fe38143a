package path

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestFitCurveInsufficientPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []r2.Vec
	}{
		{"no points", nil},
		{"one point", []r2.Vec{{X: 1, Y: 1}}},
		{"two points", []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}},
		{"duplicates collapse below three", []r2.Vec{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 1}}},
		{"all identical", []r2.Vec{{X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FitCurve(tt.points)
			if !errors.Is(err, ErrInsufficientPoints) {
				t.Fatalf("err = %v, want ErrInsufficientPoints", err)
			}
			if c != nil {
				t.Error("expected nil curve on failure")
			}
		})
	}
}

func TestFitCurvePassesThroughFittedPoints(t *testing.T) {
	pts := []r2.Vec{
		{X: 0, Y: 0},
		{X: 1, Y: 0.2},
		{X: 2, Y: 0.5},
		{X: 3, Y: 0.4},
		{X: 4, Y: 0},
	}
	c, err := FitCurve(pts)
	if err != nil {
		t.Fatalf("FitCurve: %v", err)
	}

	knots := c.Knots()
	if len(knots) != len(pts) {
		t.Fatalf("got %d knots, want %d", len(knots), len(pts))
	}
	for i, s := range knots {
		got := c.At(s)
		if math.Abs(got.X-pts[i].X) > 1e-9 || math.Abs(got.Y-pts[i].Y) > 1e-9 {
			t.Errorf("At(%f) = %v, want %v", s, got, pts[i])
		}
	}
}

func TestFitCurveLengthMatchesPolyline(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 6, Y: 0}, {X: 10, Y: 3}}
	c, err := FitCurve(pts)
	if err != nil {
		t.Fatalf("FitCurve: %v", err)
	}
	cum := CumulativeLengths(pts)
	want := cum[len(cum)-1] // 5 + 5 + 5
	if math.Abs(c.Length()-want) > 1e-12 {
		t.Errorf("Length() = %f, want %f", c.Length(), want)
	}
}

func TestFitCurveVerticalPath(t *testing.T) {
	// Constant x would break a fit parameterized on x itself; arc length
	// keeps the knots strictly increasing.
	pts := []r2.Vec{{X: 5, Y: 0}, {X: 5, Y: 1}, {X: 5, Y: 2}, {X: 5, Y: 3}}
	c, err := FitCurve(pts)
	if err != nil {
		t.Fatalf("FitCurve: %v", err)
	}
	got := c.At(1.5)
	if math.Abs(got.X-5) > 1e-9 || math.Abs(got.Y-1.5) > 1e-9 {
		t.Errorf("At(1.5) = %v, want (5, 1.5)", got)
	}
}

func TestFitCurveCollapsesDuplicates(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	c, err := FitCurve(pts)
	if err != nil {
		t.Fatalf("FitCurve: %v", err)
	}
	if got := len(c.Knots()); got != 4 {
		t.Errorf("got %d knots, want 4 after collapsing the duplicate", got)
	}
	if math.Abs(c.Length()-3) > 1e-12 {
		t.Errorf("Length() = %f, want 3", c.Length())
	}
	got := c.At(2)
	if math.Abs(got.X-2) > 1e-9 || math.Abs(got.Y) > 1e-9 {
		t.Errorf("At(2) = %v, want (2, 0)", got)
	}
}

func TestCurveAtClampsParameter(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	c, err := FitCurve(pts)
	if err != nil {
		t.Fatalf("FitCurve: %v", err)
	}
	if got, want := c.At(-5), c.At(0); got != want {
		t.Errorf("At(-5) = %v, want At(0) = %v", got, want)
	}
	if got, want := c.At(c.Length()+5), c.At(c.Length()); got != want {
		t.Errorf("At(beyond) = %v, want At(Length) = %v", got, want)
	}
}

func TestCurveTangentStraightLine(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	c, err := FitCurve(pts)
	if err != nil {
		t.Fatalf("FitCurve: %v", err)
	}
	tan := c.Tangent(1.5)
	if math.Abs(tan.X-1) > 1e-9 || math.Abs(tan.Y) > 1e-9 {
		t.Errorf("Tangent(1.5) = %v, want (1, 0)", tan)
	}
}

func TestCurveSample(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	c, err := FitCurve(pts)
	if err != nil {
		t.Fatalf("FitCurve: %v", err)
	}

	t.Run("exact spacing", func(t *testing.T) {
		got := c.Sample(1)
		if len(got) != 4 {
			t.Fatalf("got %d samples, want 4", len(got))
		}
		for i, p := range got {
			if math.Abs(p.X-float64(i)) > 1e-9 || math.Abs(p.Y) > 1e-9 {
				t.Errorf("sample %d = %v, want (%d, 0)", i, p, i)
			}
		}
	})

	t.Run("spacing is an upper bound", func(t *testing.T) {
		spacing := 0.8
		got := c.Sample(spacing)
		if len(got) < 2 {
			t.Fatalf("got %d samples, want at least endpoints", len(got))
		}
		first, last := got[0], got[len(got)-1]
		if math.Abs(first.X) > 1e-9 || math.Abs(last.X-3) > 1e-9 {
			t.Errorf("endpoints = %v, %v; want (0,0) and (3,0)", first, last)
		}
		for i := 1; i < len(got); i++ {
			if gap := r2.Norm(r2.Sub(got[i], got[i-1])); gap > spacing+1e-9 {
				t.Errorf("gap %d = %f exceeds requested spacing %f", i, gap, spacing)
			}
		}
	})

	t.Run("spacing beyond length keeps endpoints", func(t *testing.T) {
		got := c.Sample(50)
		if len(got) != 2 {
			t.Fatalf("got %d samples, want 2", len(got))
		}
	})

	t.Run("non-positive spacing", func(t *testing.T) {
		if got := c.Sample(0); got != nil {
			t.Errorf("Sample(0) = %v, want nil", got)
		}
		if got := c.Sample(-1); got != nil {
			t.Errorf("Sample(-1) = %v, want nil", got)
		}
	})
}
