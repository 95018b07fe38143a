package path

import "fmt"

// ManeuverType identifies the routing maneuver kind.
type ManeuverType int

const (
	ManeuverUnknown ManeuverType = iota
	ManeuverLaneFollowing
	ManeuverLaneChange
	ManeuverStopAndWait
)

var maneuverTypeNames = map[ManeuverType]string{
	ManeuverUnknown:       "unknown",
	ManeuverLaneFollowing: "lane_following",
	ManeuverLaneChange:    "lane_change",
	ManeuverStopAndWait:   "stop_and_wait",
}

func (t ManeuverType) String() string {
	if name, ok := maneuverTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("maneuver(%d)", int(t))
}

// ParseManeuverType maps a scenario-file identifier to a ManeuverType.
func ParseManeuverType(s string) (ManeuverType, error) {
	for t, name := range maneuverTypeNames {
		if name == s {
			return t, nil
		}
	}
	return ManeuverUnknown, fmt.Errorf("unknown maneuver type %q", s)
}

// LaneFollowing is the payload of a lane-following maneuver: a downtrack
// window on the route and the speeds the route planner assigned across it.
type LaneFollowing struct {
	StartDowntrack float64
	EndDowntrack   float64
	StartSpeed     float64
	EndSpeed       float64
}

// Maneuver is one routed maneuver. Only lane-following maneuvers carry a
// payload this package consumes.
type Maneuver struct {
	Type          ManeuverType
	LaneFollowing LaneFollowing
}
