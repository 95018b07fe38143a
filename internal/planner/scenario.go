package planner

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/lanecruise/internal/lanes"
	"github.com/banshee-data/lanecruise/internal/path"
)

// Scenario is the on-disk description of a planning problem: a route
// network, the routed maneuvers, and the vehicle pose. Tools and tests load
// scenarios instead of talking to a live map service.
type Scenario struct {
	Name      string
	Network   *lanes.StaticNetwork
	Maneuvers []path.Maneuver
	Vehicle   VehicleState
}

// scenarioFile is the JSON wire shape of a Scenario. Centerline points are
// [x, y] pairs in metres.
type scenarioFile struct {
	Name     string `json:"name"`
	Lanelets []struct {
		ID         int64        `json:"id"`
		Centerline [][2]float64 `json:"centerline"`
	} `json:"lanelets"`
	Maneuvers []struct {
		Type           string  `json:"type"`
		StartDowntrack float64 `json:"start_downtrack"`
		EndDowntrack   float64 `json:"end_downtrack"`
		StartSpeed     float64 `json:"start_speed"`
		EndSpeed       float64 `json:"end_speed"`
	} `json:"maneuvers"`
	Vehicle VehicleState `json:"vehicle"`
}

// LoadScenario reads and parses a scenario JSON file.
func LoadScenario(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a scenario from JSON bytes and builds its network.
func ParseScenario(data []byte) (*Scenario, error) {
	var sf scenarioFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scenario JSON: %w", err)
	}

	lanelets := make([]lanes.Lanelet, len(sf.Lanelets))
	for i, l := range sf.Lanelets {
		centerline := make([]r2.Vec, len(l.Centerline))
		for j, p := range l.Centerline {
			centerline[j] = r2.Vec{X: p[0], Y: p[1]}
		}
		lanelets[i] = lanes.Lanelet{ID: l.ID, Centerline: centerline}
	}
	network, err := lanes.NewStaticNetwork(lanelets)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}

	maneuvers := make([]path.Maneuver, len(sf.Maneuvers))
	for i, m := range sf.Maneuvers {
		typ, err := path.ParseManeuverType(m.Type)
		if err != nil {
			return nil, fmt.Errorf("maneuver %d: %w", i, err)
		}
		maneuvers[i] = path.Maneuver{
			Type: typ,
			LaneFollowing: path.LaneFollowing{
				StartDowntrack: m.StartDowntrack,
				EndDowntrack:   m.EndDowntrack,
				StartSpeed:     m.StartSpeed,
				EndSpeed:       m.EndSpeed,
			},
		}
	}

	return &Scenario{
		Name:      sf.Name,
		Network:   network,
		Maneuvers: maneuvers,
		Vehicle:   sf.Vehicle,
	}, nil
}
