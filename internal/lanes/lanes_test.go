package lanes

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// straightLanelet builds a lanelet of n points spaced 1m apart along +x,
// starting at x0.
func straightLanelet(id int64, x0 float64, n int) Lanelet {
	pts := make([]r2.Vec, n)
	for i := range pts {
		pts[i] = r2.Vec{X: x0 + float64(i), Y: 0}
	}
	return Lanelet{ID: id, Centerline: pts}
}

func TestLaneletLength(t *testing.T) {
	tests := []struct {
		name     string
		lanelet  Lanelet
		expected float64
	}{
		{"straight 4 points", straightLanelet(1, 0, 4), 3.0},
		{"single point", Lanelet{ID: 2, Centerline: []r2.Vec{{X: 1, Y: 1}}}, 0},
		{"empty", Lanelet{ID: 3}, 0},
		{"diagonal", Lanelet{ID: 4, Centerline: []r2.Vec{{X: 0, Y: 0}, {X: 3, Y: 4}}}, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.lanelet.Length()
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Length() = %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestConcatenateCenterlines(t *testing.T) {
	a := Lanelet{ID: 1, Centerline: []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}}
	b := Lanelet{ID: 2, Centerline: []r2.Vec{{X: 1, Y: 0}, {X: 2, Y: 0}}}

	got := ConcatenateCenterlines([]Lanelet{a, b})
	want := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestConcatenateCenterlinesEmpty(t *testing.T) {
	if got := ConcatenateCenterlines(nil); len(got) != 0 {
		t.Errorf("expected no points, got %d", len(got))
	}
}

func TestNewStaticNetworkRejectsShortCenterline(t *testing.T) {
	_, err := NewStaticNetwork([]Lanelet{
		straightLanelet(1, 0, 4),
		{ID: 2, Centerline: []r2.Vec{{X: 3, Y: 0}}},
	})
	if err == nil {
		t.Fatal("expected error for 1-point centerline")
	}
}

func TestStaticNetworkLength(t *testing.T) {
	network, err := NewStaticNetwork([]Lanelet{
		straightLanelet(1, 0, 4),
		straightLanelet(2, 3, 4),
		straightLanelet(3, 6, 4),
	})
	if err != nil {
		t.Fatalf("NewStaticNetwork: %v", err)
	}
	if got := network.Length(); math.Abs(got-9.0) > 1e-9 {
		t.Errorf("Length() = %f, want 9", got)
	}

	empty, err := NewStaticNetwork(nil)
	if err != nil {
		t.Fatalf("NewStaticNetwork(nil): %v", err)
	}
	if got := empty.Length(); got != 0 {
		t.Errorf("empty network Length() = %f, want 0", got)
	}
}

func TestStaticNetworkLaneletsBetween(t *testing.T) {
	// Three 3m lanelets covering downtrack spans [0,3], [3,6], [6,9].
	network, err := NewStaticNetwork([]Lanelet{
		straightLanelet(1, 0, 4),
		straightLanelet(2, 3, 4),
		straightLanelet(3, 6, 4),
	})
	if err != nil {
		t.Fatalf("NewStaticNetwork: %v", err)
	}

	tests := []struct {
		name       string
		start, end float64
		wantIDs    []int64
	}{
		{"full route", 0, 9, []int64{1, 2, 3}},
		{"middle only", 3.5, 4.5, []int64{2}},
		{"boundary touch includes both neighbours", 3, 3, []int64{1, 2}},
		{"past the end", 10, 12, nil},
		{"first lanelet", 0, 2.9, []int64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := network.LaneletsBetween(context.Background(), tt.start, tt.end)
			if err != nil {
				t.Fatalf("LaneletsBetween(%f, %f): %v", tt.start, tt.end, err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d lanelets, want %d", len(got), len(tt.wantIDs))
			}
			for i, l := range got {
				if l.ID != tt.wantIDs[i] {
					t.Errorf("lanelet %d ID = %d, want %d", i, l.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestStaticNetworkLaneletsBetweenInvertedRange(t *testing.T) {
	network, err := NewStaticNetwork([]Lanelet{straightLanelet(1, 0, 4)})
	if err != nil {
		t.Fatalf("NewStaticNetwork: %v", err)
	}
	if _, err := network.LaneletsBetween(context.Background(), 5, 2); err == nil {
		t.Fatal("expected error for inverted downtrack range")
	}
}

func TestStaticNetworkLaneletsBetweenCancelledContext(t *testing.T) {
	network, err := NewStaticNetwork([]Lanelet{straightLanelet(1, 0, 4)})
	if err != nil {
		t.Fatalf("NewStaticNetwork: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := network.LaneletsBetween(ctx, 0, 3); err == nil {
		t.Fatal("expected context error")
	}
}
