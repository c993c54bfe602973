// Package decision is the external decision-override boundary: a
// capability interface over pluggable COLREGS-interpreter backends. The
// simulation calls Decide at a coarse cadence; the returned directive
// sets the sign applied to the avoidance-field bias for the following
// interval. Backend failure never fails the run; the caller falls back
// to the unmodified field sign.
package decision

import (
	"context"
	"errors"

	"github.com/marisim/marisim/internal/model/core"
)

// Directive is the discrete avoidance order from the decision boundary.
type Directive int

const (
	// StandOn suppresses the avoidance bias for the interval.
	StandOn Directive = 0
	// Starboard keeps the field bias sign unmodified (+1).
	Starboard Directive = 1
	// Port flips the field bias sign (-1).
	Port Directive = -1
	// Continue keeps whatever sign the previous interval realized.
	Continue Directive = 2
)

// ErrUnrecognized is returned when a backend reply cannot be mapped to
// a directive. The caller treats it like any other backend failure.
var ErrUnrecognized = errors.New("unrecognized decision response")

// Sign resolves the directive to the multiplier applied to the
// avoidance bias. prev is the sign realized in the previous interval,
// used by Continue.
func (d Directive) Sign(prev float64) float64 {
	switch d {
	case Port:
		return -1
	case StandOn:
		return 0
	case Continue:
		return prev
	default:
		return 1
	}
}

func (d Directive) String() string {
	switch d {
	case Port:
		return "port"
	case StandOn:
		return "stand-on"
	case Continue:
		return "continue"
	case Starboard:
		return "starboard"
	default:
		return "unknown"
	}
}

// VesselSituation is the per-obstacle view handed to a backend.
type VesselSituation struct {
	Risk     float64 // [0, 1]
	Distance float64 // m
	Bearing  float64 // rad, signed relative bearing
	DCPA     float64 // m
	TCPA     float64 // s
}

// Situation is the full input to one decision call.
type Situation struct {
	Step    int
	Vessels []VesselSituation
}

// HighestRisk returns the vessel with the largest risk and true, or a
// zero value and false when the situation is empty.
func (s Situation) HighestRisk() (VesselSituation, bool) {
	if len(s.Vessels) == 0 {
		return VesselSituation{}, false
	}
	best := s.Vessels[0]
	for _, v := range s.Vessels[1:] {
		if v.Risk > best.Risk {
			best = v
		}
	}
	return best, true
}

// SituationFrom builds the decision input from a completed step record.
func SituationFrom(rec *core.StepRecord) Situation {
	s := Situation{Step: rec.Step, Vessels: make([]VesselSituation, len(rec.Encounters))}
	for i, a := range rec.Encounters {
		s.Vessels[i] = VesselSituation{
			Risk:     rec.Risks[i],
			Distance: a.Distance,
			Bearing:  a.Bearing,
			DCPA:     a.DCPA,
			TCPA:     a.TCPA,
		}
	}
	return s
}

// Provider is the capability interface a decision backend implements.
// Decide must honor ctx cancellation; the simulation bounds every call
// with a timeout.
type Provider interface {
	Name() string
	Decide(ctx context.Context, s Situation) (Directive, error)
}

// Static is a Provider that always answers with a fixed directive. It
// is the default backend when no interpreter is configured: a Static
// Starboard (+1) leaves the field-computed bias untouched.
type Static struct {
	Directive Directive
}

// NewStatic returns a Static provider for the given directive.
func NewStatic(d Directive) Static {
	return Static{Directive: d}
}

// Name implements Provider.
func (Static) Name() string { return "static" }

// Decide implements Provider.
func (p Static) Decide(ctx context.Context, _ Situation) (Directive, error) {
	return p.Directive, ctx.Err()
}
