package path

import "gonum.org/v1/gonum/spatial/r2"

// NearestPointIndex returns the index of the point closest to query by
// straight-line distance, comparing squared distances to avoid the sqrt.
// Ties keep the earliest index. An empty path cannot be localized against
// and returns ErrEmptyPath.
//
// The comparison is against the stored points only, with no projection onto
// the segments between them: on a path that doubles back, the nearest point
// can belong to a different leg than the nearest position along the path.
func NearestPointIndex(points []PointSpeed, query r2.Vec) (int, error) {
	if len(points) == 0 {
		return 0, ErrEmptyPath
	}
	best := 0
	bestDist := r2.Norm2(r2.Sub(points[0].Pos, query))
	for i := 1; i < len(points); i++ {
		if d := r2.Norm2(r2.Sub(points[i].Pos, query)); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, nil
}
