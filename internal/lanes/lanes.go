// Package lanes models the route network consumed by the lane-following
// planner: ordered lanelets with 2D centerlines, addressed by downtrack
// distance along the route.
package lanes

import (
	"context"

	"gonum.org/v1/gonum/spatial/r2"
)

// Lanelet is a single routed lane segment. Centerline points are ordered in
// the direction of travel and expressed in the planning frame, in metres.
type Lanelet struct {
	ID         int64
	Centerline []r2.Vec
}

// Length returns the polyline length of the lanelet centerline in metres.
func (l Lanelet) Length() float64 {
	var total float64
	for i := 1; i < len(l.Centerline); i++ {
		total += r2.Norm(r2.Sub(l.Centerline[i], l.Centerline[i-1]))
	}
	return total
}

// Model is the narrow route-network surface the planner consumes. Production
// deployments back it with a live map service; tests and tools use
// StaticNetwork.
type Model interface {
	// LaneletsBetween returns the lanelets whose downtrack span intersects
	// [startDowntrack, endDowntrack], ordered in the direction of travel.
	LaneletsBetween(ctx context.Context, startDowntrack, endDowntrack float64) ([]Lanelet, error)
}

// ConcatenateCenterlines flattens ordered lanelets into a single centerline.
// Points are kept verbatim, including any duplicates where adjacent lanelets
// share a boundary point.
func ConcatenateCenterlines(lanelets []Lanelet) []r2.Vec {
	var n int
	for _, l := range lanelets {
		n += len(l.Centerline)
	}
	out := make([]r2.Vec, 0, n)
	for _, l := range lanelets {
		out = append(out, l.Centerline...)
	}
	return out
}
