package planner

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/lanecruise/internal/diag"
	"github.com/banshee-data/lanecruise/internal/path"
)

// VehicleState is the pose snapshot a planning cycle starts from. Heading
// and speed ride along for recording; only the position feeds localization.
type VehicleState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Speed   float64 `json:"speed"`
}

// Position returns the planar position of the state.
func (s VehicleState) Position() r2.Vec {
	return r2.Vec{X: s.X, Y: s.Y}
}

// Plan is the output of one planning cycle: the trimmed centerline the curve
// was fitted to, the sampled geometry with per-sample heading, curvature,
// and target speed, and the diagnostics the cycle emitted.
type Plan struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Points is the downsampled, trimmed centerline ahead of the vehicle.
	Points []path.PointSpeed `json:"points"`

	// Samples, Yaws, Curvatures, and Speeds are parallel: one entry per
	// sampling point.
	Samples    []r2.Vec  `json:"samples"`
	Yaws       []float64 `json:"yaws"`
	Curvatures []float64 `json:"curvatures"`
	Speeds     []float64 `json:"speeds"`

	Diagnostics []diag.Event  `json:"diagnostics,omitempty"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// Stats summarizes a plan for display and storage.
type Stats struct {
	PlanPoints   int     `json:"plan_points"`
	SampleCount  int     `json:"sample_count"`
	PathLength   float64 `json:"path_length_m"`
	MaxCurvature float64 `json:"max_curvature"`
	MinSpeed     float64 `json:"min_speed_mps"`
	MaxSpeed     float64 `json:"max_speed_mps"`
}

// Stats computes summary numbers from the plan's sequences.
func (p *Plan) Stats() Stats {
	s := Stats{
		PlanPoints:  len(p.Points),
		SampleCount: len(p.Samples),
	}
	if lengths := path.CumulativeLengths(p.Samples); len(lengths) > 0 {
		s.PathLength = lengths[len(lengths)-1]
	}
	for _, k := range p.Curvatures {
		if k > s.MaxCurvature {
			s.MaxCurvature = k
		}
	}
	for i, v := range p.Speeds {
		if i == 0 || v < s.MinSpeed {
			s.MinSpeed = v
		}
		if v > s.MaxSpeed {
			s.MaxSpeed = v
		}
	}
	return s
}
