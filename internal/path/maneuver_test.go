package path

import "testing"

func TestParseManeuverType(t *testing.T) {
	tests := []struct {
		in      string
		want    ManeuverType
		wantErr bool
	}{
		{"lane_following", ManeuverLaneFollowing, false},
		{"lane_change", ManeuverLaneChange, false},
		{"stop_and_wait", ManeuverStopAndWait, false},
		{"merge", ManeuverUnknown, true},
		{"", ManeuverUnknown, true},
		{"LANE_FOLLOWING", ManeuverUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseManeuverType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseManeuverType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseManeuverType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestManeuverTypeString(t *testing.T) {
	if got := ManeuverLaneFollowing.String(); got != "lane_following" {
		t.Errorf("String() = %q, want lane_following", got)
	}
	if got := ManeuverType(42).String(); got != "maneuver(42)" {
		t.Errorf("String() = %q, want maneuver(42)", got)
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	for _, typ := range []ManeuverType{ManeuverLaneFollowing, ManeuverLaneChange, ManeuverStopAndWait} {
		got, err := ParseManeuverType(typ.String())
		if err != nil {
			t.Fatalf("ParseManeuverType(%q): %v", typ.String(), err)
		}
		if got != typ {
			t.Errorf("round trip %v = %v", typ, got)
		}
	}
}
