// internal/model/core/types.go
package core

import "math"

// VesselState is the own-ship rigid-body state. Units are SI throughout:
// meters, radians, seconds. B is the sway velocity state, U the surge speed.
type VesselState struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Psi float64 `json:"psi"` // heading, radians
	R   float64 `json:"r"`   // yaw rate, rad/s
	B   float64 `json:"b"`   // sway velocity, m/s
	U   float64 `json:"u"`   // surge speed, m/s
}

// Input is the commanded input to the vessel dynamics: the applied yaw
// moment (post-actuator) and the velocity command from the controller.
type Input struct {
	Moment float64 `json:"moment"`
	VelCmd float64 `json:"velCmd"`
}

// Derivative is the time-derivative of a VesselState, in the same field
// order. DX and DY are the inertial velocity components.
type Derivative struct {
	DX   float64
	DY   float64
	DPsi float64
	DR   float64
	DB   float64
	DU   float64
}

// Obstacle is a tracked target vessel under a straight-line motion model:
// constant speed and heading, never maneuvering.
type Obstacle struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Speed   float64 `json:"speed"`   // m/s
	Heading float64 `json:"heading"` // radians
}

// VelocityXY resolves the obstacle speed along its constant heading.
func (o Obstacle) VelocityXY() (vx, vy float64) {
	return o.Speed * math.Cos(o.Heading), o.Speed * math.Sin(o.Heading)
}

// Waypoint is a guidance target in the local meters plane.
type Waypoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance from the waypoint to (x, y).
func (w Waypoint) DistanceTo(x, y float64) float64 {
	return math.Hypot(w.X-x, w.Y-y)
}
