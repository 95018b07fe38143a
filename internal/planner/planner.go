// Package planner wires the path core into planning cycles: it resolves
// maneuvers against a route network, shapes the centerline, and records the
// outcome as a Plan.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/lanecruise/internal/config"
	"github.com/banshee-data/lanecruise/internal/diag"
	"github.com/banshee-data/lanecruise/internal/lanes"
	"github.com/banshee-data/lanecruise/internal/path"
	"github.com/banshee-data/lanecruise/internal/timeutil"
)

// Diagnostic event codes emitted by planning cycles.
const (
	EventPointsTrimmed = "points_trimmed"
	EventFitSkipped    = "fit_skipped"
)

// Planner runs lane-following planning cycles against a route network.
type Planner struct {
	cfg   *config.PlannerConfig
	model lanes.Model
	clock timeutil.Clock
}

// New builds a Planner. A nil cfg uses compiled defaults.
func New(cfg *config.PlannerConfig, model lanes.Model) *Planner {
	return NewWithClock(cfg, model, timeutil.RealClock{})
}

// NewWithClock builds a Planner with an explicit clock for plan timestamps
// and cycle timing.
func NewWithClock(cfg *config.PlannerConfig, model lanes.Model, clock timeutil.Clock) *Planner {
	if cfg == nil {
		cfg = config.EmptyPlannerConfig()
	}
	return &Planner{cfg: cfg, model: model, clock: clock}
}

// Plan runs one planning cycle: convert maneuvers to a speed-annotated
// centerline, downsample it, drop what lies behind the vehicle, fit a curve,
// and estimate yaw and curvature along the sampled result. Degraded but
// recoverable conditions surface as diagnostics on the plan; contract
// violations fail the cycle with a sentinel error from the path package.
func (p *Planner) Plan(ctx context.Context, maneuvers []path.Maneuver, state VehicleState) (*Plan, error) {
	start := p.clock.Now()

	pts, err := path.ManeuversToPoints(ctx, maneuvers, p.model)
	if err != nil {
		return nil, fmt.Errorf("extract centerline: %w", err)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("maneuvers produced no centerline points: %w", path.ErrEmptyPath)
	}

	var events []diag.Event

	downsampled, err := path.Downsample(pts, p.cfg.GetDownsampleStride())
	if err != nil {
		return nil, fmt.Errorf("downsample: %w", err)
	}

	planPts := downsampled
	if p.cfg.GetTrimBehindVehicle() {
		nearest, err := path.NearestPointIndex(downsampled, state.Position())
		if err != nil {
			return nil, fmt.Errorf("localize: %w", err)
		}
		planPts = path.TrimBehind(downsampled, nearest)
		if nearest > 0 {
			events = append(events, diag.Eventf(diag.StageLocalize, EventPointsTrimmed,
				"dropped %d points behind vehicle at (%.2f, %.2f)", nearest, state.X, state.Y))
		}
	}

	positions, speeds := path.SplitPointSpeeds(planPts)
	samples, sampleSpeeds := positions, speeds

	curve, err := path.FitCurve(positions)
	switch {
	case errors.Is(err, path.ErrInsufficientPoints):
		events = append(events, diag.Eventf(diag.StageFit, EventFitSkipped,
			"curve fit needs 3 distinct points, have %d; keeping raw points", len(positions)))
	case err != nil:
		return nil, fmt.Errorf("fit curve: %w", err)
	default:
		if p.cfg.GetResampleCurve() {
			samples = curve.Sample(p.cfg.GetSampleSpacingM())
			sampleSpeeds = speedsAlong(planPts, curve, len(samples))
		}
	}

	plan := &Plan{
		ID:          uuid.NewString(),
		CreatedAt:   start.UTC(),
		Points:      planPts,
		Samples:     samples,
		Yaws:        path.YawSequence(samples),
		Curvatures:  path.CurvatureSequence(samples),
		Speeds:      sampleSpeeds,
		Diagnostics: events,
		Elapsed:     p.clock.Since(start),
	}

	if p.cfg.GetLogDiagnostics() {
		for _, e := range plan.Diagnostics {
			diag.Logf("plan %s: %s", plan.ID, e)
		}
	}

	return plan, nil
}

// speedsAlong maps each of n uniform curve samples to a target speed. Speeds
// form a step function of arc length: a sample takes the speed of the last
// original point at or before its parameter.
func speedsAlong(planPts []path.PointSpeed, curve *path.Curve, n int) []float64 {
	knots := path.CumulativeLengths(path.Positions(planPts))
	params := floats.Span(make([]float64, n), 0, curve.Length())

	out := make([]float64, n)
	for i, s := range params {
		out[i] = planPts[searchStep(knots, s)].Speed
	}
	return out
}

// searchStep returns the index of the last knot at or before s. Knots start
// at 0 and s is never negative, so the result is always in range. Knots
// repeat where adjacent maneuvers share a boundary point; the last of the
// repeats wins, so a boundary sample takes the newer maneuver's speed.
func searchStep(knots []float64, s float64) int {
	idx := sort.SearchFloat64s(knots, s)
	if idx == len(knots) || knots[idx] > s {
		idx--
	}
	for idx+1 < len(knots) && knots[idx+1] <= s {
		idx++
	}
	return idx
}
