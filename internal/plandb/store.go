package plandb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/lanecruise/internal/planner"
)

// ErrPlanNotFound is returned when a plan ID does not exist in the store.
var ErrPlanNotFound = errors.New("plan not found")

// PlanRecord is one row of the plans table. The sequence columns hold JSON
// arrays so a recorded plan can be re-charted without re-running the cycle;
// Sequences decodes them.
type PlanRecord struct {
	PlanID          string    `json:"plan_id"`
	Scenario        string    `json:"scenario"`
	CreatedAt       time.Time `json:"created_at"`
	ElapsedUs       int64     `json:"elapsed_us"`
	PointCount      int       `json:"point_count"`
	SampleCount     int       `json:"sample_count"`
	PathLengthM     float64   `json:"path_length_m"`
	MaxCurvature    float64   `json:"max_curvature"`
	MinSpeedMps     float64   `json:"min_speed_mps"`
	MaxSpeedMps     float64   `json:"max_speed_mps"`
	SamplesJSON     string    `json:"-"`
	YawsJSON        string    `json:"-"`
	CurvaturesJSON  string    `json:"-"`
	SpeedsJSON      string    `json:"-"`
	DiagnosticsJSON string    `json:"-"`
}

// PlanSummary is the list-view projection of a plan row, without the
// sequence payloads.
type PlanSummary struct {
	PlanID       string    `json:"plan_id"`
	Scenario     string    `json:"scenario"`
	CreatedAt    time.Time `json:"created_at"`
	ElapsedUs    int64     `json:"elapsed_us"`
	PointCount   int       `json:"point_count"`
	SampleCount  int       `json:"sample_count"`
	PathLengthM  float64   `json:"path_length_m"`
	MaxCurvature float64   `json:"max_curvature"`
	MinSpeedMps  float64   `json:"min_speed_mps"`
	MaxSpeedMps  float64   `json:"max_speed_mps"`
}

// PlanSequences are the decoded per-sample series of a recorded plan.
// Samples hold [x, y] pairs; the other slices are parallel to it.
type PlanSequences struct {
	Samples    [][2]float64 `json:"samples"`
	Yaws       []float64    `json:"yaws"`
	Curvatures []float64    `json:"curvatures"`
	Speeds     []float64    `json:"speeds"`
}

// StoreSummary holds aggregate statistics over all recorded plans.
type StoreSummary struct {
	TotalPlans   int            `json:"total_plans"`
	ByScenario   map[string]int `json:"by_scenario"`
	AvgElapsedUs float64        `json:"avg_elapsed_us"`
	MaxPathM     float64        `json:"max_path_m"`
}

// RecordFromPlan flattens a planning cycle result into a storable row.
func RecordFromPlan(p *planner.Plan, scenario string) (*PlanRecord, error) {
	samples := make([][2]float64, len(p.Samples))
	for i, v := range p.Samples {
		samples[i] = [2]float64{v.X, v.Y}
	}

	samplesJSON, err := json.Marshal(samples)
	if err != nil {
		return nil, fmt.Errorf("failed to encode samples: %w", err)
	}
	yawsJSON, err := json.Marshal(p.Yaws)
	if err != nil {
		return nil, fmt.Errorf("failed to encode yaws: %w", err)
	}
	curvaturesJSON, err := json.Marshal(p.Curvatures)
	if err != nil {
		return nil, fmt.Errorf("failed to encode curvatures: %w", err)
	}
	speedsJSON, err := json.Marshal(p.Speeds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode speeds: %w", err)
	}
	diagnosticsJSON, err := json.Marshal(p.Diagnostics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	stats := p.Stats()

	return &PlanRecord{
		PlanID:          p.ID,
		Scenario:        scenario,
		CreatedAt:       p.CreatedAt,
		ElapsedUs:       p.Elapsed.Microseconds(),
		PointCount:      stats.PlanPoints,
		SampleCount:     stats.SampleCount,
		PathLengthM:     stats.PathLength,
		MaxCurvature:    stats.MaxCurvature,
		MinSpeedMps:     stats.MinSpeed,
		MaxSpeedMps:     stats.MaxSpeed,
		SamplesJSON:     string(samplesJSON),
		YawsJSON:        string(yawsJSON),
		CurvaturesJSON:  string(curvaturesJSON),
		SpeedsJSON:      string(speedsJSON),
		DiagnosticsJSON: string(diagnosticsJSON),
	}, nil
}

// Sequences decodes the JSON sequence columns of the record.
func (r *PlanRecord) Sequences() (*PlanSequences, error) {
	seq := &PlanSequences{}
	if err := json.Unmarshal([]byte(r.SamplesJSON), &seq.Samples); err != nil {
		return nil, fmt.Errorf("failed to decode samples: %w", err)
	}
	if err := json.Unmarshal([]byte(r.YawsJSON), &seq.Yaws); err != nil {
		return nil, fmt.Errorf("failed to decode yaws: %w", err)
	}
	if err := json.Unmarshal([]byte(r.CurvaturesJSON), &seq.Curvatures); err != nil {
		return nil, fmt.Errorf("failed to decode curvatures: %w", err)
	}
	if err := json.Unmarshal([]byte(r.SpeedsJSON), &seq.Speeds); err != nil {
		return nil, fmt.Errorf("failed to decode speeds: %w", err)
	}
	return seq, nil
}

// InsertPlan inserts a plan record.
func (db *PlanDB) InsertPlan(r *PlanRecord) error {
	query := `
		INSERT INTO plans (
			plan_id, scenario, created_at, elapsed_us,
			point_count, sample_count, path_length_m, max_curvature,
			min_speed_mps, max_speed_mps,
			samples_json, yaws_json, curvatures_json, speeds_json, diagnostics_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		r.PlanID, r.Scenario, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.ElapsedUs,
		r.PointCount, r.SampleCount, r.PathLengthM, r.MaxCurvature,
		r.MinSpeedMps, r.MaxSpeedMps,
		r.SamplesJSON, r.YawsJSON, r.CurvaturesJSON, r.SpeedsJSON, r.DiagnosticsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	return nil
}

// GetPlan retrieves a full plan record by ID.
func (db *PlanDB) GetPlan(planID string) (*PlanRecord, error) {
	query := `
		SELECT
			plan_id, scenario, created_at, elapsed_us,
			point_count, sample_count, path_length_m, max_curvature,
			min_speed_mps, max_speed_mps,
			samples_json, yaws_json, curvatures_json, speeds_json, diagnostics_json
		FROM plans
		WHERE plan_id = ?
	`

	r := &PlanRecord{}
	var createdAt string
	err := db.QueryRow(query, planID).Scan(
		&r.PlanID, &r.Scenario, &createdAt, &r.ElapsedUs,
		&r.PointCount, &r.SampleCount, &r.PathLengthM, &r.MaxCurvature,
		&r.MinSpeedMps, &r.MaxSpeedMps,
		&r.SamplesJSON, &r.YawsJSON, &r.CurvaturesJSON, &r.SpeedsJSON, &r.DiagnosticsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan timestamp: %w", err)
	}

	return r, nil
}

// ListPlans retrieves plan summaries, newest first, with optional filters.
func (db *PlanDB) ListPlans(scenario string, limit int) ([]*PlanSummary, error) {
	query := `
		SELECT
			plan_id, scenario, created_at, elapsed_us,
			point_count, sample_count, path_length_m, max_curvature,
			min_speed_mps, max_speed_mps
		FROM plans
		WHERE 1=1
	`

	args := []interface{}{}

	if scenario != "" {
		query += " AND scenario = ?"
		args = append(args, scenario)
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	plans := []*PlanSummary{}
	for rows.Next() {
		s := &PlanSummary{}
		var createdAt string

		err := rows.Scan(
			&s.PlanID, &s.Scenario, &createdAt, &s.ElapsedUs,
			&s.PointCount, &s.SampleCount, &s.PathLengthM, &s.MaxCurvature,
			&s.MinSpeedMps, &s.MaxSpeedMps,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}

		s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse plan timestamp: %w", err)
		}

		plans = append(plans, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan rows: %w", err)
	}

	return plans, nil
}

// SummarizePlans computes aggregate statistics over all recorded plans.
func (db *PlanDB) SummarizePlans() (*StoreSummary, error) {
	rows, err := db.Query(`SELECT scenario, elapsed_us, path_length_m FROM plans`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans for summary: %w", err)
	}
	defer rows.Close()

	summary := &StoreSummary{
		ByScenario: make(map[string]int),
	}

	var elapsedSum int64
	for rows.Next() {
		var scenario string
		var elapsedUs int64
		var pathM float64

		if err := rows.Scan(&scenario, &elapsedUs, &pathM); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}

		summary.TotalPlans++
		if scenario == "" {
			scenario = "unknown"
		}
		summary.ByScenario[scenario]++
		elapsedSum += elapsedUs

		if pathM > summary.MaxPathM {
			summary.MaxPathM = pathM
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary rows: %w", err)
	}

	if summary.TotalPlans > 0 {
		summary.AvgElapsedUs = float64(elapsedSum) / float64(summary.TotalPlans)
	}

	return summary, nil
}

// DeletePlan removes a plan record by ID.
func (db *PlanDB) DeletePlan(planID string) error {
	result, err := db.Exec(`DELETE FROM plans WHERE plan_id = ?`, planID)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrPlanNotFound
	}

	return nil
}
