package planview

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/lanecruise/internal/httputil"
	"github.com/banshee-data/lanecruise/internal/plandb"
)

// handlePlanChart renders one recorded plan as an HTML page: the sampled
// path colored by target speed, plus yaw, curvature, and speed profiles
// over arc length.
// Query params:
//   - id (required): plan ID to render
func (s *Server) handlePlanChart(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httputil.BadRequest(w, "missing 'id' parameter")
		return
	}

	rec, err := s.db.GetPlan(id)
	if errors.Is(err, plandb.ErrPlanNotFound) {
		httputil.NotFound(w, fmt.Sprintf("no plan %q", id))
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to get plan: %v", err))
		return
	}
	seqs, err := rec.Sequences()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to decode sequences: %v", err))
		return
	}
	if len(seqs.Samples) == 0 {
		httputil.NotFound(w, fmt.Sprintf("plan %q has no samples", id))
		return
	}

	arcs := arcLengths(seqs.Samples)

	page := components.NewPage()
	page.AddCharts(
		pathScatter(rec, seqs),
		profileLine("Yaw (rad)", arcs, seqs.Yaws),
		profileLine("Curvature (1/m)", arcs, seqs.Curvatures),
		profileLine("Speed (m/s)", arcs, seqs.Speeds),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleSummaryChart renders a bar chart of recorded plan counts per
// scenario.
func (s *Server) handleSummaryChart(w http.ResponseWriter, r *http.Request) {
	summary, err := s.db.SummarizePlans()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to summarize plans: %v", err))
		return
	}

	scenarios := make([]string, 0, len(summary.ByScenario))
	for name := range summary.ByScenario {
		scenarios = append(scenarios, name)
	}
	sort.Strings(scenarios)

	y := make([]opts.BarData, len(scenarios))
	for i, name := range scenarios {
		y[i] = opts.BarData{Value: summary.ByScenario[name]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Recorded Plans by Scenario",
			Subtitle: fmt.Sprintf("total=%d avg_elapsed_us=%.0f max_path_m=%.1f", summary.TotalPlans, summary.AvgElapsedUs, summary.MaxPathM),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(scenarios).
		AddSeries("plans", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// pathScatter builds the XY view of the sampled path, colored by target
// speed.
func pathScatter(rec *plandb.PlanRecord, seqs *plandb.PlanSequences) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(seqs.Samples))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range seqs.Samples {
		speed := 0.0
		if i < len(seqs.Speeds) {
			speed = seqs.Speeds[i]
		}
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		data = append(data, opts.ScatterData{Value: []interface{}{p[0], p[1], speed}})
	}

	maxSpeed := rec.MaxSpeedMps
	if maxSpeed == 0 {
		maxSpeed = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Planned Path", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Plan %s", rec.PlanID),
			Subtitle: fmt.Sprintf("scenario=%s samples=%d length=%.1fm", rec.Scenario, rec.SampleCount, rec.PathLengthM),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: minX - axisPad(minX, maxX), Max: maxX + axisPad(minX, maxX), Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: minY - axisPad(minY, maxY), Max: maxY + axisPad(minY, maxY), Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxSpeed),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("samples", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	return scatter
}

// profileLine builds one per-sample series plotted against arc length.
func profileLine(name string, arcs, values []float64) *charts.Line {
	n := len(values)
	if len(arcs) < n {
		n = len(arcs)
	}

	labels := make([]string, n)
	data := make([]opts.LineData, n)
	for i := 0; i < n; i++ {
		labels[i] = fmt.Sprintf("%.1f", arcs[i])
		data[i] = opts.LineData{Value: values[i]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: name, Subtitle: "over arc length (m)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	line.SetXAxis(labels).
		AddSeries(name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	return line
}

// arcLengths accumulates chord distances along the sampled path.
func arcLengths(samples [][2]float64) []float64 {
	out := make([]float64, len(samples))
	for i := 1; i < len(samples); i++ {
		dx := samples[i][0] - samples[i-1][0]
		dy := samples[i][1] - samples[i-1][1]
		out[i] = out[i-1] + math.Hypot(dx, dy)
	}
	return out
}

// axisPad widens an axis range so edge samples stay visible.
func axisPad(lo, hi float64) float64 {
	pad := (hi - lo) * 0.05
	if pad < 1.0 {
		pad = 1.0
	}
	return pad
}
