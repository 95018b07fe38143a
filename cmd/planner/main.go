// Package main runs lane-following planning cycles from scenario files: it
// loads a route network, maneuvers, and vehicle pose, produces a plan, and
// optionally records it to a plans database, submits it to a plan server,
// or exports it as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/lanecruise/internal/config"
	"github.com/banshee-data/lanecruise/internal/plandb"
	"github.com/banshee-data/lanecruise/internal/planner"
	"github.com/banshee-data/lanecruise/internal/planview"
	"github.com/banshee-data/lanecruise/internal/units"
	"github.com/banshee-data/lanecruise/internal/version"
)

// Config holds the planner CLI configuration.
type Config struct {
	ScenarioFile string
	ConfigFile   string
	DBFile       string
	OutputJSON   string
	ServerURL    string
	SpeedUnits   string
	ShowVersion  bool
}

func main() {
	// The migrate subcommand manages the plans database schema and takes
	// its own arguments: planner migrate [-db path] <action> [N]
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		fs := flag.NewFlagSet("migrate", flag.ExitOnError)
		dbPath := fs.String("db", "plans.db", "Path to plans database file")
		fs.Parse(os.Args[2:])
		plandb.RunMigrateCommand(fs.Args(), *dbPath)
		return
	}

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if cfg.ShowVersion {
		fmt.Printf("planner %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if cfg.ScenarioFile == "" {
		log.Fatal("Scenario file is required (-scenario)")
	}

	tuning, err := loadTuning(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load planner config: %v", err)
	}

	speedUnits := tuning.GetSpeedUnits()
	if cfg.SpeedUnits != "" {
		if !units.IsValid(cfg.SpeedUnits) {
			log.Fatalf("Invalid speed units %q, valid units are: %s", cfg.SpeedUnits, units.ValidUnitsString())
		}
		speedUnits = cfg.SpeedUnits
	}

	scenario, err := planner.LoadScenario(cfg.ScenarioFile)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), tuning.GetPlanTimeout())
	defer cancel()

	p := planner.New(tuning, scenario.Network)
	plan, err := p.Plan(ctx, scenario.Maneuvers, scenario.Vehicle)
	if err != nil {
		log.Fatalf("Planning cycle failed: %v", err)
	}

	printSummary(plan, scenario, speedUnits)

	if cfg.DBFile != "" {
		if err := recordPlan(plan, scenario.Name, cfg.DBFile); err != nil {
			log.Fatalf("Failed to record plan: %v", err)
		}
		log.Printf("Plan %s recorded to %s", plan.ID, cfg.DBFile)
	}

	if cfg.ServerURL != "" {
		client := planview.NewClient(nil, cfg.ServerURL)
		id, err := client.SubmitPlan(plan, scenario.Name)
		if err != nil {
			log.Fatalf("Failed to submit plan: %v", err)
		}
		log.Printf("Plan %s submitted to %s", id, cfg.ServerURL)
	}

	if cfg.OutputJSON != "" {
		if err := exportJSON(plan, cfg.OutputJSON); err != nil {
			log.Printf("Warning: failed to export JSON: %v", err)
		} else {
			log.Printf("Plan exported to: %s", cfg.OutputJSON)
		}
	}
}

func parseFlags(args []string) (Config, error) {
	cfg := Config{}

	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	fs.StringVar(&cfg.ScenarioFile, "scenario", "", "Path to scenario JSON file (network + maneuvers + vehicle)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Path to planner tuning JSON file (default: compiled defaults)")
	fs.StringVar(&cfg.DBFile, "db", "", "Record the plan to this plans database file")
	fs.StringVar(&cfg.OutputJSON, "json", "", "Export the full plan to this JSON file")
	fs.StringVar(&cfg.ServerURL, "server", "", "Submit the plan to this plan server URL")
	fs.StringVar(&cfg.SpeedUnits, "units", "", "Speed display units: "+units.ValidUnitsString()+" (default: from config)")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// loadTuning loads the tuning file, or the compiled defaults when no file is
// given.
func loadTuning(path string) (*config.PlannerConfig, error) {
	if path == "" {
		return config.EmptyPlannerConfig(), nil
	}
	return config.LoadPlannerConfig(path)
}

func printSummary(plan *planner.Plan, scenario *planner.Scenario, speedUnits string) {
	stats := plan.Stats()

	fmt.Println("\n=== Planning Cycle Results ===")
	fmt.Printf("Plan ID: %s\n", plan.ID)
	fmt.Printf("Scenario: %s\n", scenario.Name)
	fmt.Printf("Route Length: %.1f m\n", scenario.Network.Length())
	fmt.Printf("Plan Points: %d\n", stats.PlanPoints)
	fmt.Printf("Samples: %d\n", stats.SampleCount)
	fmt.Printf("Path Length: %.1f m\n", stats.PathLength)
	fmt.Printf("Max Curvature: %.4f 1/m\n", stats.MaxCurvature)
	fmt.Printf("Speed Range: %s - %s\n",
		units.FormatSpeed(stats.MinSpeed, speedUnits),
		units.FormatSpeed(stats.MaxSpeed, speedUnits))
	fmt.Printf("Elapsed: %s\n", plan.Elapsed)

	if len(plan.Diagnostics) > 0 {
		fmt.Println("\n--- Diagnostics ---")
		for _, e := range plan.Diagnostics {
			fmt.Printf("  %s\n", e)
		}
	}
}

// recordPlan opens (and migrates) the plans database and stores the plan.
func recordPlan(plan *planner.Plan, scenario, dbFile string) error {
	db, err := plandb.New(dbFile)
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := plandb.RecordFromPlan(plan, scenario)
	if err != nil {
		return err
	}

	return db.InsertPlan(rec)
}

func exportJSON(plan *planner.Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(plan)
}
