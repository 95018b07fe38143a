// Package main renders planned paths as PNG plots and an optional HTML
// chart report. It either runs a fresh planning cycle from a scenario file
// or loads a recorded plan from a plans database.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/lanecruise/internal/config"
	"github.com/banshee-data/lanecruise/internal/path"
	"github.com/banshee-data/lanecruise/internal/plandb"
	"github.com/banshee-data/lanecruise/internal/planner"
	"github.com/banshee-data/lanecruise/internal/security"
)

// Config holds configuration for the plot tool.
type Config struct {
	ScenarioFile string
	ConfigFile   string
	DBFile       string
	PlanID       string
	OutputDir    string
	HTML         bool
}

// planSeries is the plottable view of a plan: sampled positions plus the
// per-sample profiles over arc length. Centerline carries the pre-fit knots
// when the plan was produced live; recorded plans only keep the samples.
type planSeries struct {
	Title      string
	Centerline []path.PointSpeed
	Samples    []r2.Vec
	ArcLengths []float64
	Yaws       []float64
	Curvatures []float64
	Speeds     []float64
}

const timestampLayout = "20060102_150405"

var (
	pathLineColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}
	knotColor     = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255}
	profileColor  = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 255}
	visualMapRamp = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}
)

func main() {
	cfg := parseFlags()

	series, err := loadSeries(cfg)
	if err != nil {
		log.Fatalf("Failed to load plan: %v", err)
	}
	if len(series.Samples) == 0 {
		log.Fatal("Plan has no samples to plot")
	}

	outDir, err := makePlotOutputDir(cfg.OutputDir, series.Title)
	if err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	written, err := generatePlots(series, outDir)
	if err != nil {
		log.Fatalf("Plot generation failed: %v", err)
	}

	if cfg.HTML {
		htmlFile := filepath.Join(outDir, "report.html")
		if err := renderHTMLReport(series, htmlFile); err != nil {
			log.Fatalf("Failed to render HTML report: %v", err)
		}
		written = append(written, htmlFile)
	}

	for _, f := range written {
		log.Printf("Wrote %s", f)
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.ScenarioFile, "scenario", "", "Scenario JSON file to plan and plot")
	flag.StringVar(&cfg.ConfigFile, "config", "", "Planner tuning JSON file (scenario mode)")
	flag.StringVar(&cfg.DBFile, "db", "", "Plans database file (with -plan)")
	flag.StringVar(&cfg.PlanID, "plan", "", "Recorded plan ID to plot")
	flag.StringVar(&cfg.OutputDir, "out", "plots", "Base output directory")
	flag.BoolVar(&cfg.HTML, "html", false, "Also write an interactive HTML report")

	flag.Parse()

	return cfg
}

func loadSeries(cfg Config) (*planSeries, error) {
	switch {
	case cfg.ScenarioFile != "" && cfg.PlanID != "":
		return nil, fmt.Errorf("-scenario and -plan are mutually exclusive")
	case cfg.ScenarioFile != "":
		return seriesFromScenario(cfg)
	case cfg.PlanID != "":
		return seriesFromRecord(cfg)
	default:
		return nil, fmt.Errorf("either -scenario or -plan is required")
	}
}

// seriesFromScenario runs one planning cycle and plots its output.
func seriesFromScenario(cfg Config) (*planSeries, error) {
	scenario, err := planner.LoadScenario(cfg.ScenarioFile)
	if err != nil {
		return nil, err
	}

	tuning := config.EmptyPlannerConfig()
	if cfg.ConfigFile != "" {
		tuning, err = config.LoadPlannerConfig(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), tuning.GetPlanTimeout())
	defer cancel()

	plan, err := planner.New(tuning, scenario.Network).Plan(ctx, scenario.Maneuvers, scenario.Vehicle)
	if err != nil {
		return nil, fmt.Errorf("planning cycle failed: %w", err)
	}

	title := scenario.Name
	if title == "" {
		title = plan.ID
	}
	series := newPlanSeries(title, plan.Samples, plan.Yaws, plan.Curvatures, plan.Speeds)
	series.Centerline = plan.Points
	return series, nil
}

// seriesFromRecord loads a previously recorded plan from the database.
func seriesFromRecord(cfg Config) (*planSeries, error) {
	if cfg.DBFile == "" {
		return nil, fmt.Errorf("-db is required with -plan")
	}

	db, err := plandb.Open(cfg.DBFile)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rec, err := db.GetPlan(cfg.PlanID)
	if err != nil {
		return nil, err
	}
	seqs, err := rec.Sequences()
	if err != nil {
		return nil, err
	}

	samples := make([]r2.Vec, len(seqs.Samples))
	for i, p := range seqs.Samples {
		samples[i] = r2.Vec{X: p[0], Y: p[1]}
	}
	return newPlanSeries(rec.PlanID, samples, seqs.Yaws, seqs.Curvatures, seqs.Speeds), nil
}

func newPlanSeries(title string, samples []r2.Vec, yaws, curvatures, speeds []float64) *planSeries {
	return &planSeries{
		Title:      title,
		Samples:    samples,
		ArcLengths: path.CumulativeLengths(samples),
		Yaws:       yaws,
		Curvatures: curvatures,
		Speeds:     speeds,
	}
}

// pathLength returns the total arc length of the sampled path.
func (ps *planSeries) pathLength() float64 {
	if len(ps.ArcLengths) == 0 {
		return 0
	}
	return ps.ArcLengths[len(ps.ArcLengths)-1]
}

// generatePlots writes the XY path plot and the three arc-length profiles
// as PNG files under outDir, returning the paths written.
func generatePlots(series *planSeries, outDir string) ([]string, error) {
	written := make([]string, 0, 4)

	pathFile := filepath.Join(outDir, "path_xy.png")
	if err := savePathPlot(series, pathFile); err != nil {
		return written, fmt.Errorf("path plot: %w", err)
	}
	written = append(written, pathFile)

	profiles := []struct {
		name   string
		yLabel string
		values []float64
	}{
		{"yaw", "Yaw (rad)", series.Yaws},
		{"curvature", "Curvature (1/m)", series.Curvatures},
		{"speed", "Speed (m/s)", series.Speeds},
	}
	for _, pr := range profiles {
		file := filepath.Join(outDir, pr.name+".png")
		if err := saveProfilePlot(series, pr.yLabel, pr.values, file); err != nil {
			return written, fmt.Errorf("%s plot: %w", pr.name, err)
		}
		written = append(written, file)
	}

	return written, nil
}

// savePathPlot draws the sampled path in plan-frame XY, overlaying the
// pre-fit centerline knots when available.
func savePathPlot(series *planSeries, file string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Path (%.1f m)", series.Title, series.pathLength())
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	pts := make(plotter.XYs, len(series.Samples))
	for i, s := range series.Samples {
		pts[i] = plotter.XY{X: s.X, Y: s.Y}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = pathLineColor
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("fitted samples", line)

	if len(series.Centerline) > 0 {
		knots := make(plotter.XYs, len(series.Centerline))
		for i, c := range series.Centerline {
			knots[i] = plotter.XY{X: c.Pos.X, Y: c.Pos.Y}
		}
		scatter, err := plotter.NewScatter(knots)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = knotColor
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add("centerline", scatter)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	return p.Save(10*vg.Inch, 10*vg.Inch, file)
}

// saveProfilePlot draws one per-sample metric against arc length.
func saveProfilePlot(series *planSeries, yLabel string, values []float64, file string) error {
	p := plot.New()
	p.Title.Text = series.Title
	p.X.Label.Text = "Arc length (m)"
	p.Y.Label.Text = yLabel

	n := len(values)
	if len(series.ArcLengths) < n {
		n = len(series.ArcLengths)
	}
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i] = plotter.XY{X: series.ArcLengths[i], Y: values[i]}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = profileColor
	line.Width = vg.Points(1.5)
	p.Add(line)

	return p.Save(14*vg.Inch, 6*vg.Inch, file)
}

// renderHTMLReport writes an interactive page with the path scatter and the
// three arc-length profiles.
func renderHTMLReport(series *planSeries, file string) error {
	page := components.NewPage()
	page.AddCharts(
		pathChart(series),
		profileChart(series, "Yaw", "rad", series.Yaws),
		profileChart(series, "Curvature", "1/m", series.Curvatures),
		profileChart(series, "Speed", "m/s", series.Speeds),
	)

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return page.Render(f)
}

// pathChart renders the sampled path as an XY scatter colored by target
// speed, with the pre-fit centerline overlaid when present.
func pathChart(series *planSeries) *charts.Scatter {
	minX, maxX := series.Samples[0].X, series.Samples[0].X
	minY, maxY := series.Samples[0].Y, series.Samples[0].Y
	maxSpeed := 0.0

	data := make([]opts.ScatterData, 0, len(series.Samples))
	for i, s := range series.Samples {
		minX, maxX = min(minX, s.X), max(maxX, s.X)
		minY, maxY = min(minY, s.Y), max(maxY, s.Y)
		speed := 0.0
		if i < len(series.Speeds) {
			speed = series.Speeds[i]
		}
		if speed > maxSpeed {
			maxSpeed = speed
		}
		data = append(data, opts.ScatterData{Value: []interface{}{s.X, s.Y, speed}})
	}

	knots := make([]opts.ScatterData, 0, len(series.Centerline))
	for _, c := range series.Centerline {
		minX, maxX = min(minX, c.Pos.X), max(maxX, c.Pos.X)
		minY, maxY = min(minY, c.Pos.Y), max(maxY, c.Pos.Y)
		if c.Speed > maxSpeed {
			maxSpeed = c.Speed
		}
		knots = append(knots, opts.ScatterData{Value: []interface{}{c.Pos.X, c.Pos.Y, c.Speed}})
	}

	padX := pad(minX, maxX)
	padY := pad(minY, maxY)
	if maxSpeed == 0 {
		maxSpeed = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Plan Path", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: series.Title, Subtitle: fmt.Sprintf("samples=%d length=%.1fm", len(series.Samples), series.pathLength())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: minX - padX, Max: maxX + padX, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: minY - padY, Max: maxY + padY, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxSpeed),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: visualMapRamp},
		}),
	)

	if len(knots) > 0 {
		scatter.AddSeries("centerline", knots, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	}
	scatter.AddSeries("samples", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))

	return scatter
}

// profileChart renders one per-sample metric as a line over arc length.
func profileChart(series *planSeries, name, unit string, values []float64) *charts.Line {
	n := len(values)
	if len(series.ArcLengths) < n {
		n = len(series.ArcLengths)
	}

	x := make([]string, n)
	data := make([]opts.LineData, n)
	for i := 0; i < n; i++ {
		x[i] = fmt.Sprintf("%.1f", series.ArcLengths[i])
		data[i] = opts.LineData{Value: values[i]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s (%s)", name, unit), Subtitle: "vs arc length (m)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "s (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: unit}),
	)
	line.SetXAxis(x).AddSeries(strings.ToLower(name), data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
	)

	return line
}

// makePlotOutputDir creates a per-run directory <baseDir>/<name>/<timestamp>,
// sanitizing the name component and refusing anything that resolves outside
// baseDir.
func makePlotOutputDir(baseDir, name string) (string, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return "", err
	}

	ts := time.Now().Format(timestampLayout)
	dir := filepath.Join(baseDir, security.SanitizeFilename(name), ts)
	if err := security.ValidatePathWithinDirectory(dir, baseDir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// pad returns a 5% axis margin for the given value range, with a floor so
// degenerate ranges still render.
func pad(lo, hi float64) float64 {
	p := (hi - lo) * 0.05
	if p == 0 {
		p = 1.0
	}
	return p
}
