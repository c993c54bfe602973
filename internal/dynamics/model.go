// Package dynamics implements the own-ship rigid-body model, the
// fixed-step integrator, the heading controller and the actuator
// saturation. All angles are radians, all lengths meters, all times
// seconds.
package dynamics

import (
	"math"

	"github.com/marisim/marisim/internal/model/core"
)

// Params are the vessel model constants. The yaw axis is a first-order
// Nomoto response, sway is yaw-coupled with a first-order lag, and
// surge tracks the commanded transit speed with a first-order lag.
type Params struct {
	InertiaZ  float64 `json:"inertiaZ"`  // effective yaw inertia
	YawDamp   float64 `json:"yawDamp"`   // linear yaw damping
	SwayTime  float64 `json:"swayTime"`  // sway lag time constant, s
	SwayCoup  float64 `json:"swayCoup"`  // yaw-rate to sway coupling
	SurgeTime float64 `json:"surgeTime"` // surge lag time constant, s
}

// DefaultParams returns the vessel constants used for the scenario
// studies. Stable under forward Euler at dt = 0.1 s: every first-order
// pole is well below 1/dt.
func DefaultParams() Params {
	return Params{
		InertiaZ:  100.0,
		YawDamp:   20.0,
		SwayTime:  5.0,
		SwayCoup:  0.35,
		SurgeTime: 10.0,
	}
}

// Derivative evaluates the state derivative for the given state and
// commanded input. Pure function: no stored state, no side effects.
func (p Params) Derivative(s core.VesselState, in core.Input) core.Derivative {
	sinPsi, cosPsi := math.Sincos(s.Psi)
	return core.Derivative{
		DX:   s.U*cosPsi - s.B*sinPsi,
		DY:   s.U*sinPsi + s.B*cosPsi,
		DPsi: s.R,
		DR:   (in.Moment - p.YawDamp*s.R) / p.InertiaZ,
		DB:   (p.SwayCoup*s.R*s.U - s.B) / p.SwayTime,
		DU:   (in.VelCmd - s.U) / p.SurgeTime,
	}
}

// WrapAngle wraps an angle to (-pi, pi]. Both +pi and -pi map to +pi so
// that a heading error at the branch cut never flips sign between
// consecutive steps.
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
