// Package path implements the lane-following path core: converting routed
// maneuvers into a speed-annotated centerline, downsampling it, localizing
// the vehicle against it, fitting a smooth curve through it, and estimating
// yaw and curvature along the result.
//
// All positions are in the planning frame in metres; speeds are in m/s.
// Functions here are pure: they hold no state and report degraded inputs
// through sentinel errors rather than logging.
package path

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// PointSpeed pairs a centerline position with the speed the vehicle should
// hold when passing it.
type PointSpeed struct {
	Pos   r2.Vec
	Speed float64
}

// SplitPointSpeeds unzips pairs into parallel position and speed slices.
func SplitPointSpeeds(points []PointSpeed) ([]r2.Vec, []float64) {
	positions := make([]r2.Vec, len(points))
	speeds := make([]float64, len(points))
	for i, p := range points {
		positions[i] = p.Pos
		speeds[i] = p.Speed
	}
	return positions, speeds
}

// Positions extracts only the positions from pairs.
func Positions(points []PointSpeed) []r2.Vec {
	positions := make([]r2.Vec, len(points))
	for i, p := range points {
		positions[i] = p.Pos
	}
	return positions
}

// TrimBehind drops the points strictly before index nearest, so the nearest
// point becomes the new head. Out-of-range indices are clamped. The result
// is a fresh slice.
func TrimBehind(points []PointSpeed, nearest int) []PointSpeed {
	if nearest < 0 {
		nearest = 0
	}
	if nearest > len(points) {
		nearest = len(points)
	}
	out := make([]PointSpeed, len(points)-nearest)
	copy(out, points[nearest:])
	return out
}

// CumulativeLengths returns the running polyline arc length along positions:
// element i is the distance from positions[0] to positions[i] walked along
// the sequence. The first element is 0. Empty input returns nil.
func CumulativeLengths(positions []r2.Vec) []float64 {
	if len(positions) == 0 {
		return nil
	}
	segs := make([]float64, len(positions))
	for i := 1; i < len(positions); i++ {
		segs[i] = r2.Norm(r2.Sub(positions[i], positions[i-1]))
	}
	return floats.CumSum(make([]float64, len(positions)), segs)
}
