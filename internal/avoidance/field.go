// Package avoidance computes the reactive collision-avoidance heading
// bias: a superposition of per-obstacle range and bearing weights,
// evaluated fresh from the instantaneous obstacle configuration with no
// memory across steps.
package avoidance

import (
	"math"

	"github.com/marisim/marisim/internal/model/core"
)

// Config holds the field shape: the near/far influence radii of the
// Z-shaped range weight and the angular spread of the Gaussian bearing
// weight.
type Config struct {
	NearRadius float64 `json:"nearRadius"` // m, full influence at or below
	FarRadius  float64 `json:"farRadius"`  // m, no influence at or beyond
	Sigma      float64 `json:"sigma"`      // rad, bearing spread
}

// DefaultConfig returns the field shape used in the scenario studies:
// 600 m / 1200 m influence radii and an 80 degree bearing spread.
func DefaultConfig() Config {
	return Config{
		NearRadius: 600,
		FarRadius:  1200,
		Sigma:      80 * math.Pi / 180,
	}
}

// Result carries the bias plus the per-obstacle intermediates, indexed
// by obstacle, for reporting.
type Result struct {
	Bias      float64   // signed heading bias, radians
	Distances []float64 // m
	Bearings  []float64 // relative bearing, signed rad, 0 = dead ahead
	RangeW    []float64 // range weights, in [0, 1]
	BearingW  []float64 // bearing weights, in [-1, 0]
}

// Evaluate computes the avoidance bias for own position (x, y) and
// heading psi against the current obstacle set.
//
// The relative bearing is beta = psi - atan2(oy-y, ox-x): zero dead
// ahead, positive for an obstacle to starboard of the current course.
// The bearing weight -exp(-beta^2/2sigma^2) is always <= 0, so the
// summed bias is <= 0 and a single near, dead-ahead obstacle pushes the
// heading command to port. The decision directive may flip that sign.
//
// A coincident obstacle (distance 0) gets full range weight and, by the
// Go atan2(0,0)=0 convention, a dead-ahead bearing of psi; real
// trajectories are not expected to reach this.
func (c Config) Evaluate(obs []core.Obstacle, x, y, psi float64) Result {
	res := Result{
		Distances: make([]float64, len(obs)),
		Bearings:  make([]float64, len(obs)),
		RangeW:    make([]float64, len(obs)),
		BearingW:  make([]float64, len(obs)),
	}
	for i, o := range obs {
		dx, dy := o.X-x, o.Y-y
		dist := math.Hypot(dx, dy)
		bearing := psi - math.Atan2(dy, dx)

		wr := Zmf(dist, c.NearRadius, c.FarRadius)
		wb := -math.Exp(-(bearing * bearing) / (2 * c.Sigma * c.Sigma))

		res.Distances[i] = dist
		res.Bearings[i] = bearing
		res.RangeW[i] = wr
		res.BearingW[i] = wb
		res.Bias += wr * wb
	}
	res.Bias *= 2
	return res
}
