// Package guidance selects the active waypoint and turns it into a
// heading command.
package guidance

import (
	"math"

	"github.com/marisim/marisim/internal/model/core"
)

// DefaultArrivalRadius is the distance in meters at which a waypoint
// counts as reached.
const DefaultArrivalRadius = 500.0

// Planner tracks the active waypoint over an ordered route. The active
// index is monotonically non-decreasing and clamps at the last
// waypoint.
type Planner struct {
	route         []core.Waypoint
	arrivalRadius float64
	active        int
}

// NewPlanner builds a planner over the given route. An arrivalRadius of
// zero or less selects DefaultArrivalRadius.
func NewPlanner(route []core.Waypoint, arrivalRadius float64) *Planner {
	if arrivalRadius <= 0 {
		arrivalRadius = DefaultArrivalRadius
	}
	return &Planner{route: route, arrivalRadius: arrivalRadius}
}

// ActiveIndex returns the current target waypoint index.
func (p *Planner) ActiveIndex() int {
	return p.active
}

// Update advances the active waypoint when the vessel is within the
// arrival radius of the current target, then returns the bearing from
// (x, y) to the active waypoint as the desired heading. With an empty
// route the heading is 0.
func (p *Planner) Update(x, y float64) float64 {
	if len(p.route) == 0 {
		return 0
	}
	if p.active < len(p.route)-1 && p.route[p.active].DistanceTo(x, y) <= p.arrivalRadius {
		p.active++
	}
	wpt := p.route[p.active]
	return math.Atan2(wpt.Y-y, wpt.X-x)
}
