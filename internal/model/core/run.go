// internal/model/core/run.go
package core

import "time"

// Run identifies one simulation run: the scenario case, discretization
// and the decision backend in effect. It is created once at setup and
// immutable afterwards.
type Run struct {
	ID        uint      `json:"id"`
	Case      int       `json:"case"`
	Dt        float64   `json:"dt"`      // s
	SimTime   float64   `json:"simTime"` // s
	Steps     int       `json:"steps"`
	Obstacles int       `json:"obstacles"`
	Provider  string    `json:"provider"` // decision backend name, "" = none
	StartedAt time.Time `json:"startedAt"`
}

// RunSummary aggregates a completed run for reporting and comparison.
type RunSummary struct {
	Run           Run     `json:"run"`
	MaxRisk       float64 `json:"maxRisk"`
	AvgRisk       float64 `json:"avgRisk"` // mean over non-zero step maxima
	TurnSteps     int     `json:"turnSteps"`
	FinalDistance float64 `json:"finalDistance"` // from origin, m
}
