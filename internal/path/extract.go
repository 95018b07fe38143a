package path

import (
	"context"
	"fmt"

	"github.com/banshee-data/lanecruise/internal/lanes"
)

// ManeuversToPoints converts routed lane-following maneuvers into a single
// speed-annotated centerline. Every centerline point a maneuver contributes
// is paired with that maneuver's end speed, so speeds change stepwise at
// maneuver boundaries. Points are kept verbatim, including duplicates where
// adjacent maneuvers touch the same lanelet boundary.
//
// A maneuver of any other type fails the whole conversion with
// ErrUnsupportedManeuver: a plan with a gap in it is worse than no plan.
func ManeuversToPoints(ctx context.Context, maneuvers []Maneuver, model lanes.Model) ([]PointSpeed, error) {
	var out []PointSpeed
	for i, m := range maneuvers {
		if m.Type != ManeuverLaneFollowing {
			return nil, fmt.Errorf("maneuver %d is %s: %w", i, m.Type, ErrUnsupportedManeuver)
		}
		lf := m.LaneFollowing
		lanelets, err := model.LaneletsBetween(ctx, lf.StartDowntrack, lf.EndDowntrack)
		if err != nil {
			return nil, fmt.Errorf("maneuver %d downtrack [%.2f, %.2f]: %w", i, lf.StartDowntrack, lf.EndDowntrack, err)
		}
		for _, p := range lanes.ConcatenateCenterlines(lanelets) {
			out = append(out, PointSpeed{Pos: p, Speed: lf.EndSpeed})
		}
	}
	return out, nil
}
