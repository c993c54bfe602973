// Package risk assesses the closing geometry between own-ship and each
// obstacle (DCPA/TCPA, two formulations) and maps it to a bounded
// scalar risk.
package risk

import (
	"math"

	"github.com/marisim/marisim/internal/dynamics"
	"github.com/marisim/marisim/internal/model/core"
)

// minRelSpeed is the relative speed below which a pair is treated as
// not closing. Below it TCPA is meaningless and the sentinel geometry
// is returned instead of dividing by ~0.
const minRelSpeed = 1e-9

// cpaFromRelative derives the closing geometry from a relative position
// and a relative velocity, with psi the own-ship heading. Shared by
// both formulations.
//
// Bearing is relative to the own heading, wrapped to (-pi, pi]: zero is
// dead ahead, positive to starboard. TCPA is the signed time at which
// the relative position projected on the relative velocity reaches its
// minimum; negative means closest approach already passed. DCPA is the
// perpendicular distance from the relative-velocity ray, which is
// non-negative by construction.
func cpaFromRelative(psi, relX, relY, relVX, relVY float64) core.Approach {
	dist := math.Hypot(relX, relY)
	relSpeed := math.Hypot(relVX, relVY)
	bearing := dynamics.WrapAngle(psi - math.Atan2(relY, relX))

	if relSpeed < minRelSpeed {
		return core.NoApproach(dist, bearing)
	}

	tcpa := -(relX*relVX + relY*relVY) / (relSpeed * relSpeed)
	dcpa := math.Abs(relX*relVY-relY*relVX) / relSpeed

	return core.Approach{
		Distance:  dist,
		Bearing:   bearing,
		DCPA:      dcpa,
		TCPA:      tcpa,
		RelSpeed:  relSpeed,
		RelCourse: math.Atan2(relVY, relVX),
		Closing:   true,
	}
}

// FiniteDifference computes the closing geometry from own and obstacle
// positions at the current and previous step, ts apart. It estimates
// the relative velocity by first differences, so it is undefined at
// step zero; callers must use NoApproach there instead.
func FiniteDifference(psi, x, y, xPrev, yPrev, obX, obY, obXPrev, obYPrev, ts float64) core.Approach {
	relVX := ((obX - obXPrev) - (x - xPrev)) / ts
	relVY := ((obY - obYPrev) - (y - yPrev)) / ts
	return cpaFromRelative(psi, obX-x, obY-y, relVX, relVY)
}

// Instantaneous computes the closing geometry from the directly
// available velocity components of both vessels. Valid from step zero.
// At ~zero relative speed it degrades to the non-closing sentinel
// rather than dividing by zero.
func Instantaneous(psi, x, y, vx, vy, obX, obY, obVX, obVY float64) core.Approach {
	return cpaFromRelative(psi, obX-x, obY-y, obVX-vx, obVY-vy)
}
