package path

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r2"
)

// Curve is a smooth parametric fit through an ordered point sequence. The
// parameter is chord arc length in metres: s=0 at the first knot, s=Length()
// at the last. X and Y are fitted independently as natural cubic splines
// over s, so routes that double back in x or run parallel to the y axis stay
// single-valued.
type Curve struct {
	knots []float64
	x     interp.NaturalCubic
	y     interp.NaturalCubic
}

// FitCurve fits a Curve through points, in order. Consecutive points that do
// not advance the arc length are collapsed before fitting; fewer than three
// surviving points cannot support a cubic fit and return
// ErrInsufficientPoints.
func FitCurve(points []r2.Vec) (*Curve, error) {
	kept := make([]r2.Vec, 0, len(points))
	knots := make([]float64, 0, len(points))
	for _, p := range points {
		if len(kept) == 0 {
			kept = append(kept, p)
			knots = append(knots, 0)
			continue
		}
		s := knots[len(knots)-1] + r2.Norm(r2.Sub(p, kept[len(kept)-1]))
		if s <= knots[len(knots)-1] {
			// Duplicate or below float resolution; knots must strictly increase.
			continue
		}
		kept = append(kept, p)
		knots = append(knots, s)
	}
	if len(kept) < 3 {
		return nil, fmt.Errorf("have %d distinct points, need 3: %w", len(kept), ErrInsufficientPoints)
	}

	xs := make([]float64, len(kept))
	ys := make([]float64, len(kept))
	for i, p := range kept {
		xs[i] = p.X
		ys[i] = p.Y
	}

	c := &Curve{knots: knots}
	if err := c.x.Fit(knots, xs); err != nil {
		return nil, fmt.Errorf("fit x spline: %w", err)
	}
	if err := c.y.Fit(knots, ys); err != nil {
		return nil, fmt.Errorf("fit y spline: %w", err)
	}
	return c, nil
}

// Length returns the curve parameter span in metres.
func (c *Curve) Length() float64 {
	return c.knots[len(c.knots)-1]
}

// Knots returns a copy of the arc-length parameters of the fitted points.
// The curve passes through the original point at each knot.
func (c *Curve) Knots() []float64 {
	out := make([]float64, len(c.knots))
	copy(out, c.knots)
	return out
}

// At evaluates the curve position at arc-length parameter s. The parameter
// is clamped to [0, Length()]; the fit is never extrapolated.
func (c *Curve) At(s float64) r2.Vec {
	s = c.clamp(s)
	return r2.Vec{X: c.x.Predict(s), Y: c.y.Predict(s)}
}

// Tangent evaluates (dx/ds, dy/ds) at s, clamped like At.
func (c *Curve) Tangent(s float64) r2.Vec {
	s = c.clamp(s)
	return r2.Vec{X: c.x.PredictDerivative(s), Y: c.y.PredictDerivative(s)}
}

func (c *Curve) clamp(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > c.Length():
		return c.Length()
	}
	return s
}

// Sample evaluates the curve at a uniform parameter spacing. Both endpoints
// are always included, so the effective spacing never exceeds the requested
// one. Non-positive spacing returns nil.
func (c *Curve) Sample(spacing float64) []r2.Vec {
	if spacing <= 0 {
		return nil
	}
	n := int(math.Ceil(c.Length()/spacing)) + 1
	if n < 2 {
		n = 2
	}
	params := floats.Span(make([]float64, n), 0, c.Length())
	out := make([]r2.Vec, n)
	for i, s := range params {
		out[i] = c.At(s)
	}
	return out
}
