// internal/dynamics/integrator.go
package dynamics

import "github.com/marisim/marisim/internal/model/core"

// Integrate advances a vessel state by one forward-Euler step of size
// dt. Deterministic, stateless, pure arithmetic.
func Integrate(s core.VesselState, d core.Derivative, dt float64) core.VesselState {
	return core.VesselState{
		X:   s.X + d.DX*dt,
		Y:   s.Y + d.DY*dt,
		Psi: s.Psi + d.DPsi*dt,
		R:   s.R + d.DR*dt,
		B:   s.B + d.DB*dt,
		U:   s.U + d.DU*dt,
	}
}
