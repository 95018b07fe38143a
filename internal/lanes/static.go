package lanes

import (
	"context"
	"fmt"
)

// span is the downtrack interval a lanelet occupies along the route.
type span struct {
	start, end float64
}

// StaticNetwork is an in-memory Model: a fixed sequence of lanelets indexed
// by cumulative downtrack distance. It backs scenario files, replay tooling,
// and tests.
type StaticNetwork struct {
	lanelets []Lanelet
	spans    []span
}

// NewStaticNetwork builds a StaticNetwork from lanelets already ordered in
// the direction of travel. Every lanelet needs at least two centerline
// points so it occupies a non-degenerate downtrack span.
func NewStaticNetwork(lanelets []Lanelet) (*StaticNetwork, error) {
	n := &StaticNetwork{
		lanelets: make([]Lanelet, len(lanelets)),
		spans:    make([]span, len(lanelets)),
	}
	copy(n.lanelets, lanelets)
	var downtrack float64
	for i, l := range n.lanelets {
		if len(l.Centerline) < 2 {
			return nil, fmt.Errorf("lanelet %d: centerline needs at least 2 points, got %d", l.ID, len(l.Centerline))
		}
		length := l.Length()
		n.spans[i] = span{start: downtrack, end: downtrack + length}
		downtrack += length
	}
	return n, nil
}

// Length returns the total downtrack length of the network in metres.
func (n *StaticNetwork) Length() float64 {
	if len(n.spans) == 0 {
		return 0
	}
	return n.spans[len(n.spans)-1].end
}

// LaneletsBetween implements Model. A lanelet is included when its downtrack
// span intersects [startDowntrack, endDowntrack]; boundary touches count.
func (n *StaticNetwork) LaneletsBetween(ctx context.Context, startDowntrack, endDowntrack float64) ([]Lanelet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if endDowntrack < startDowntrack {
		return nil, fmt.Errorf("downtrack range inverted: start %.2f > end %.2f", startDowntrack, endDowntrack)
	}
	var out []Lanelet
	for i, l := range n.lanelets {
		s := n.spans[i]
		if s.end >= startDowntrack && s.start <= endDowntrack {
			out = append(out, l)
		}
	}
	return out, nil
}
