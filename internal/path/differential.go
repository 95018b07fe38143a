package path

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// MaxCurvature caps reported curvature magnitudes in 1/m. Finite-difference
// estimates blow up across tiny chords; downstream consumers need a bounded
// value.
const MaxCurvature = 100000

// YawSequence estimates heading at each sampling point as the direction of
// the chord to the next point, in radians from the +x axis. The final
// element duplicates its predecessor so the output length matches the input.
// A single point has no chord and yields heading 0.
func YawSequence(samples []r2.Vec) []float64 {
	if len(samples) == 0 {
		return nil
	}
	out := make([]float64, len(samples))
	for i := 0; i+1 < len(samples); i++ {
		d := r2.Sub(samples[i+1], samples[i])
		out[i] = math.Atan2(d.Y, d.X)
	}
	if len(out) > 1 {
		out[len(out)-1] = out[len(out)-2]
	}
	return out
}

// CurvatureSequence estimates unsigned curvature in 1/m at each sampling
// point from the chord to the next point: the chord subtends its heading
// angle on a circle of radius 0.5*d/sin(yaw), and the reported value is the
// magnitude of that circle's inverse radius, capped at MaxCurvature. The
// estimate is heading-sensitive: the same geometry rotated off the +x axis
// reports a different value. Zero-length chords contribute zero. The final
// element duplicates its predecessor so the output length matches the input.
// Every value is finite and within [0, MaxCurvature].
func CurvatureSequence(samples []r2.Vec) []float64 {
	if len(samples) == 0 {
		return nil
	}
	out := make([]float64, len(samples))
	for i := 0; i+1 < len(samples); i++ {
		out[i] = chordCurvature(samples[i], samples[i+1])
	}
	if len(out) > 1 {
		out[len(out)-1] = out[len(out)-2]
	}
	return out
}

// chordCurvature applies the circumscribed-circle chord law to the segment
// cur->next. With d > 0 the radius is at least d/2, so the inverse stays
// finite; a heading with sin(yaw)=0 drives the radius to infinity and the
// curvature cleanly to zero.
func chordCurvature(cur, next r2.Vec) float64 {
	chord := r2.Sub(next, cur)
	d := r2.Norm(chord)
	if d == 0 {
		// No chord, no circle. Treat coincident samples as straight travel.
		return 0
	}
	yaw := math.Atan2(chord.Y, chord.X)
	r := 0.5 * d / math.Sin(yaw)
	return math.Min(math.Abs(1/r), MaxCurvature)
}
