package guidance

import (
	"math"
	"testing"

	"github.com/marisim/marisim/internal/model/core"
)

func TestPlanner_HeadingToWaypoint(t *testing.T) {
	p := NewPlanner([]core.Waypoint{{X: 1000, Y: 0}}, 100)
	h := p.Update(0, 0)
	if math.Abs(h) > 1e-12 {
		t.Errorf("expected heading 0 toward waypoint due east, got %f", h)
	}

	p = NewPlanner([]core.Waypoint{{X: 0, Y: 1000}}, 100)
	h = p.Update(0, 0)
	if math.Abs(h-math.Pi/2) > 1e-12 {
		t.Errorf("expected heading pi/2, got %f", h)
	}
}

// Starting at the first of two waypoints, the index must advance from 0
// to 1 exactly once and never decrease.
func TestPlanner_IndexAdvancesOnce(t *testing.T) {
	route := []core.Waypoint{{X: 0, Y: 0}, {X: 74080, Y: 0}}
	p := NewPlanner(route, 500)

	if p.ActiveIndex() != 0 {
		t.Fatalf("expected initial index 0, got %d", p.ActiveIndex())
	}

	transitions := 0
	prev := p.ActiveIndex()
	// walk east along the route
	for x := 0.0; x < 80000; x += 100 {
		p.Update(x, 0)
		idx := p.ActiveIndex()
		if idx < prev {
			t.Fatalf("active index decreased from %d to %d", prev, idx)
		}
		if idx != prev {
			transitions++
		}
		prev = idx
	}
	if transitions != 1 {
		t.Errorf("expected exactly one index transition, got %d", transitions)
	}
	if p.ActiveIndex() != 1 {
		t.Errorf("expected final index 1, got %d", p.ActiveIndex())
	}
}

func TestPlanner_ClampsAtLastWaypoint(t *testing.T) {
	route := []core.Waypoint{{X: 0, Y: 0}, {X: 100, Y: 0}}
	p := NewPlanner(route, 500)
	for i := 0; i < 10; i++ {
		p.Update(100, 0) // sitting on the last waypoint
	}
	if p.ActiveIndex() != 1 {
		t.Errorf("expected index clamped at 1, got %d", p.ActiveIndex())
	}
}

func TestPlanner_EmptyRoute(t *testing.T) {
	p := NewPlanner(nil, 0)
	if h := p.Update(10, 20); h != 0 {
		t.Errorf("expected heading 0 for empty route, got %f", h)
	}
}

func TestPlanner_NoAdvanceOutsideRadius(t *testing.T) {
	route := []core.Waypoint{{X: 0, Y: 0}, {X: 10000, Y: 0}}
	p := NewPlanner(route, 500)
	p.Update(501, 0) // just outside the arrival radius of waypoint 0
	if p.ActiveIndex() != 0 {
		t.Errorf("expected index 0 outside the arrival radius, got %d", p.ActiveIndex())
	}
	p.Update(499, 0)
	if p.ActiveIndex() != 1 {
		t.Errorf("expected index 1 inside the arrival radius, got %d", p.ActiveIndex())
	}
}
