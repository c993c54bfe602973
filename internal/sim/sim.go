// Package sim drives the fixed-timestep scenario loop: guidance,
// avoidance, control, integration, obstacle kinematics and risk, with
// an external decision boundary refreshed at a coarse cadence. The loop
// is single-threaded; the decision call is the only blocking operation
// and is bounded by a context timeout.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/marisim/marisim/internal/avoidance"
	"github.com/marisim/marisim/internal/decision"
	"github.com/marisim/marisim/internal/dynamics"
	"github.com/marisim/marisim/internal/guidance"
	"github.com/marisim/marisim/internal/model/core"
	"github.com/marisim/marisim/internal/risk"
)

// Config holds the per-run loop settings. Zero values select the
// defaults used in the scenario studies.
type Config struct {
	Case    int     `json:"case"`
	Dt      float64 `json:"dt"`      // s, default 0.1
	SimTime float64 `json:"simTime"` // s, default 450

	SpeedCommand  float64 `json:"speedCommand"`  // m/s, default 43.3
	SatAmp        float64 `json:"satAmp"`        // actuator limit, default 20
	ArrivalRadius float64 `json:"arrivalRadius"` // m, 0 = guidance default

	DecisionEvery   int           `json:"decisionEvery"`   // steps, default 200
	DecisionTimeout time.Duration `json:"decisionTimeout"` // default 10s
}

// DefaultConfig returns the loop settings for the standard scenario
// runs: dt 0.1 s over a 450 s horizon, transit speed order 43.3 m/s,
// actuator limit 20, decision refresh every 200 steps.
func DefaultConfig() Config {
	return Config{
		Dt:              0.1,
		SimTime:         450,
		SpeedCommand:    43.3,
		SatAmp:          20,
		DecisionEvery:   200,
		DecisionTimeout: 10 * time.Second,
	}
}

func (c *Config) applyDefaults() {
	if c.Dt <= 0 {
		c.Dt = 0.1
	}
	if c.SimTime <= 0 {
		c.SimTime = 450
	}
	if c.SpeedCommand == 0 {
		c.SpeedCommand = 43.3
	}
	if c.SatAmp <= 0 {
		c.SatAmp = 20
	}
	if c.DecisionEvery <= 0 {
		c.DecisionEvery = 200
	}
	if c.DecisionTimeout <= 0 {
		c.DecisionTimeout = 10 * time.Second
	}
}

// Steps returns the fixed step count N = round(SimTime/Dt).
func (c Config) Steps() int {
	return int(math.Round(c.SimTime / c.Dt))
}

// Observer receives run lifecycle events. OnStep is called once per
// completed step with the finished record; the record must not be
// retained past the call unless copied.
type Observer interface {
	OnStart(run core.Run)
	OnStep(rec *core.StepRecord)
	OnFinish(sum core.RunSummary)
}

// StepFunc adapts a bare step callback to the Observer interface.
type StepFunc func(rec *core.StepRecord)

func (f StepFunc) OnStart(core.Run)           {}
func (f StepFunc) OnStep(rec *core.StepRecord) { f(rec) }
func (f StepFunc) OnFinish(core.RunSummary)   {}

// Result is one completed run: its summary plus the full step history.
type Result struct {
	Summary core.RunSummary
	Records []core.StepRecord
}

// Runner owns all mutable per-run state: the live vessel state, the
// controller integral, the active waypoint, the obstacle set and the
// realized avoidance sign. A Runner is single-use; build a fresh one
// per run.
type Runner struct {
	cfg        Config
	params     dynamics.Params
	controller *dynamics.HeadingController
	planner    *guidance.Planner
	field      avoidance.Config
	thresholds risk.Thresholds

	obstacles []core.Obstacle
	provider  decision.Provider
	observers []Observer
	log       *slog.Logger
}

// NewRunner builds a runner over the given obstacle snapshot with the
// default vessel model, controller gains, field shape, thresholds and a
// single waypoint 40 nmi due east. The obstacle slice is copied; the
// caller's snapshot is never mutated.
func NewRunner(cfg Config, obstacles []core.Obstacle) *Runner {
	cfg.applyDefaults()
	obs := make([]core.Obstacle, len(obstacles))
	copy(obs, obstacles)
	return &Runner{
		cfg:        cfg,
		params:     dynamics.DefaultParams(),
		controller: dynamics.NewHeadingController(dynamics.DefaultControllerConfig()),
		planner:    guidance.NewPlanner([]core.Waypoint{{X: 40 * 1852, Y: 0}}, cfg.ArrivalRadius),
		field:      avoidance.DefaultConfig(),
		thresholds: risk.DefaultThresholds(),
		obstacles:  obs,
		log:        slog.Default(),
	}
}

// SetVessel replaces the vessel model constants.
func (r *Runner) SetVessel(p dynamics.Params) { r.params = p }

// SetController replaces the heading loop gains, resetting the
// integral state.
func (r *Runner) SetController(cfg dynamics.ControllerConfig) {
	r.controller = dynamics.NewHeadingController(cfg)
}

// SetRoute replaces the waypoint route.
func (r *Runner) SetRoute(route []core.Waypoint) {
	r.planner = guidance.NewPlanner(route, r.cfg.ArrivalRadius)
}

// SetField replaces the avoidance field shape.
func (r *Runner) SetField(cfg avoidance.Config) { r.field = cfg }

// SetThresholds replaces the risk breakpoints.
func (r *Runner) SetThresholds(th risk.Thresholds) { r.thresholds = th }

// SetProvider installs the decision backend. With no provider the
// avoidance sign stays at its field default for the whole run.
func (r *Runner) SetProvider(p decision.Provider) { r.provider = p }

// SetLogger replaces the run logger.
func (r *Runner) SetLogger(l *slog.Logger) {
	if l != nil {
		r.log = l
	}
}

// AddObserver registers a lifecycle observer. Observers run in
// registration order on the loop goroutine.
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run executes the full loop: exactly Steps() iterations, no early
// termination. ctx cancellation between steps aborts the run with the
// context error; a decision backend failure never does.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	n := r.cfg.Steps()
	run := core.Run{
		Case:      r.cfg.Case,
		Dt:        r.cfg.Dt,
		SimTime:   r.cfg.SimTime,
		Steps:     n,
		Obstacles: len(r.obstacles),
		StartedAt: time.Now(),
	}
	if r.provider != nil {
		run.Provider = r.provider.Name()
	}
	for _, o := range r.observers {
		o.OnStart(run)
	}

	var (
		state    core.VesselState
		t        float64
		prevX    float64
		prevY    float64
		prevObs  = make([]core.ObstacleState, len(r.obstacles))
		heldSign = 1.0 // realized avoidance sign, refreshed by the decision boundary
		records  = make([]core.StepRecord, 0, n)
	)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run aborted at step %d: %w", i, err)
		}

		rec := core.StepRecord{
			Step:         i,
			Time:         t,
			Vessel:       state,
			RealizedSign: heldSign,
		}

		headingWpt := r.planner.Update(state.X, state.Y)
		rec.WaypointIndex = r.planner.ActiveIndex()
		rec.HeadingWpt = headingWpt

		fieldRes := r.field.Evaluate(r.obstacles, state.X, state.Y, state.Psi)
		rec.AvoidanceBias = fieldRes.Bias

		rec.HeadingDesired = headingWpt + heldSign*fieldRes.Bias

		moment, velCmd := r.controller.Step(rec.HeadingDesired, state.Psi, state.R, r.cfg.SpeedCommand, r.cfg.Dt)
		applied := dynamics.Saturate(moment, r.cfg.SatAmp)
		rec.MomentCmd = moment
		rec.MomentApplied = applied

		deriv := r.params.Derivative(state, core.Input{Moment: applied, VelCmd: velCmd})
		rec.VelX = deriv.DX
		rec.VelY = deriv.DY
		next := dynamics.Integrate(state, deriv, r.cfg.Dt)

		// Obstacles advance before the closing geometry, which pairs
		// this step's recorded own position with the advanced obstacle
		// positions and the previous step's pair for the
		// finite-difference variant.
		obsStates := dynamics.AdvanceObstacles(r.obstacles, r.cfg.Dt)
		rec.Obstacles = obsStates

		rec.Encounters = make([]core.Approach, len(obsStates))
		rec.Instant = make([]core.Approach, len(obsStates))
		rec.Risks = make([]float64, len(obsStates))
		for j, ob := range obsStates {
			if i == 0 {
				dist := math.Hypot(ob.X-state.X, ob.Y-state.Y)
				bearing := dynamics.WrapAngle(state.Psi - math.Atan2(ob.Y-state.Y, ob.X-state.X))
				rec.Encounters[j] = core.NoApproach(dist, bearing)
			} else {
				rec.Encounters[j] = risk.FiniteDifference(
					state.Psi, state.X, state.Y, prevX, prevY,
					ob.X, ob.Y, prevObs[j].X, prevObs[j].Y, r.cfg.Dt)
			}
			rec.Instant[j] = risk.Instantaneous(
				state.Psi, state.X, state.Y, deriv.DX, deriv.DY,
				ob.X, ob.Y, ob.VX, ob.VY)
			rec.Risks[j] = r.thresholds.Score(rec.Encounters[j])
		}

		if r.provider != nil && i%r.cfg.DecisionEvery == 0 {
			heldSign = r.decide(ctx, &rec, heldSign)
		}

		for _, o := range r.observers {
			o.OnStep(&rec)
		}
		records = append(records, rec)

		prevX, prevY = state.X, state.Y
		copy(prevObs, obsStates)
		state = next
		t += r.cfg.Dt
	}

	sum := summarize(run, records, state)
	for _, o := range r.observers {
		o.OnFinish(sum)
	}
	return &Result{Summary: sum, Records: records}, nil
}

// decide refreshes the realized avoidance sign from the decision
// backend. Any failure keeps the unmodified field sign (+1) for the
// interval and logs one warning; the run continues.
func (r *Runner) decide(ctx context.Context, rec *core.StepRecord, prev float64) float64 {
	dctx, cancel := context.WithTimeout(ctx, r.cfg.DecisionTimeout)
	defer cancel()

	d, err := r.provider.Decide(dctx, decision.SituationFrom(rec))
	if err != nil {
		r.log.Warn("decision backend failed, keeping field sign",
			"provider", r.provider.Name(), "step", rec.Step, "error", err)
		return 1
	}
	sign := d.Sign(prev)
	r.log.Info("decision directive applied",
		"provider", r.provider.Name(), "step", rec.Step,
		"directive", d.String(), "sign", sign, "maxRisk", rec.MaxRisk())
	return sign
}

func summarize(run core.Run, records []core.StepRecord, final core.VesselState) core.RunSummary {
	sum := core.RunSummary{Run: run}
	var riskSum float64
	var riskSteps int
	for i := range records {
		m := records[i].MaxRisk()
		if m > sum.MaxRisk {
			sum.MaxRisk = m
		}
		if m > 0 {
			riskSum += m
			riskSteps++
		}
		if records[i].RealizedSign*records[i].AvoidanceBias != 0 {
			sum.TurnSteps++
		}
	}
	if riskSteps > 0 {
		sum.AvgRisk = riskSum / float64(riskSteps)
	}
	sum.FinalDistance = math.Hypot(final.X, final.Y)
	return sum
}
