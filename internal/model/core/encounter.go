// internal/model/core/encounter.go
package core

import "math"

// Approach describes the closing geometry between own-ship and one
// obstacle at one step. Two variants are produced each step: one from
// finite-difference relative velocity and one from instantaneous
// velocity components.
//
// When the relative speed is effectively zero the pair is not closing:
// Closing is false, TCPA is +Inf and DCPA falls back to the current
// distance. That is a defined sentinel, not an error.
type Approach struct {
	Distance  float64 `json:"distance"`  // current range, m
	Bearing   float64 `json:"bearing"`   // relative bearing, signed rad, 0 = dead ahead
	DCPA      float64 `json:"dcpa"`      // distance at closest point of approach, m, >= 0
	TCPA      float64 `json:"tcpa"`      // time to closest point of approach, s, signed
	RelSpeed  float64 `json:"relSpeed"`  // |relative velocity|, m/s
	RelCourse float64 `json:"relCourse"` // heading of the relative velocity, rad
	Closing   bool    `json:"closing"`
}

// NoApproach returns the sentinel geometry for a pair with no usable
// relative motion (step zero of the finite-difference variant, or zero
// relative speed).
func NoApproach(distance, bearing float64) Approach {
	return Approach{
		Distance: distance,
		Bearing:  bearing,
		DCPA:     distance,
		TCPA:     math.Inf(1),
		Closing:  false,
	}
}

// ObstacleState is an obstacle's kinematic snapshot at one step.
type ObstacleState struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// StepRecord is the full reporting row for one simulation step. It is
// sufficient for downstream plotting and comparison without re-deriving
// any geometry. Slices are indexed by obstacle; the obstacle order is
// fixed for the whole run.
type StepRecord struct {
	Step int     `json:"step"`
	Time float64 `json:"time"` // s

	Vessel VesselState `json:"vessel"`
	VelX   float64     `json:"velX"` // own inertial velocity, m/s
	VelY   float64     `json:"velY"`

	WaypointIndex  int     `json:"waypointIndex"`
	HeadingWpt     float64 `json:"headingWpt"`     // guidance heading, rad
	AvoidanceBias  float64 `json:"avoidanceBias"`  // field bias, rad
	RealizedSign   float64 `json:"realizedSign"`   // decision directive applied to the bias
	HeadingDesired float64 `json:"headingDesired"` // combined heading command, rad
	MomentCmd      float64 `json:"momentCmd"`      // controller output
	MomentApplied  float64 `json:"momentApplied"`  // after actuator saturation

	Obstacles  []ObstacleState `json:"obstacles"`
	Encounters []Approach      `json:"encounters"`     // finite-difference variant
	Instant    []Approach      `json:"encountersInst"` // instantaneous-velocity variant
	Risks      []float64       `json:"risks"`          // in [0, 1], from the finite-difference variant
}

// MaxRisk returns the highest per-obstacle risk of the step, zero when
// there are no obstacles.
func (s *StepRecord) MaxRisk() float64 {
	max := 0.0
	for _, r := range s.Risks {
		if r > max {
			max = r
		}
	}
	return max
}
