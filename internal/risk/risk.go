// internal/risk/risk.go
package risk

import (
	"math"

	"github.com/marisim/marisim/internal/avoidance"
	"github.com/marisim/marisim/internal/model/core"
)

// Thresholds are the Z-membership breakpoints of the three risk
// components. Full risk at or below the near value, zero at or beyond
// the far value.
type Thresholds struct {
	DCPANear float64 `json:"dcpaNear"` // m
	DCPAFar  float64 `json:"dcpaFar"`  // m
	TCPANear float64 `json:"tcpaNear"` // s
	TCPAFar  float64 `json:"tcpaFar"`  // s
	DistNear float64 `json:"distNear"` // m
	DistFar  float64 `json:"distFar"`  // m
}

// DefaultThresholds returns the breakpoints used for the scenario
// studies: DCPA 443/926 m, TCPA 180/360 s, range 148.16/463 m.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DCPANear: 443, DCPAFar: 926,
		TCPANear: 180, TCPAFar: 360,
		DistNear: 148.16, DistFar: 463,
	}
}

// Score maps a closing geometry to a risk in [0, 1]: the mean of three
// Z-memberships over |DCPA|, |TCPA| and the current range. Monotone
// non-increasing in each of DCPA, |TCPA| and range, and finite at every
// boundary value: TCPA <= 0, distance 0 and the +Inf sentinel all
// produce a defined result (Zmf of +Inf is 0).
func (th Thresholds) Score(a core.Approach) float64 {
	riskDCPA := avoidance.Zmf(math.Abs(a.DCPA), th.DCPANear, th.DCPAFar)
	riskTCPA := avoidance.Zmf(math.Abs(a.TCPA), th.TCPANear, th.TCPAFar)
	riskDist := avoidance.Zmf(a.Distance, th.DistNear, th.DistFar)
	return (riskDCPA + riskTCPA + riskDist) / 3
}
