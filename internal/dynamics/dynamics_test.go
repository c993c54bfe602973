package dynamics

import (
	"math"
	"testing"

	"github.com/marisim/marisim/internal/model/core"
)

func TestWrapAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{-math.Pi / 2, -math.Pi / 2},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-2 * math.Pi, 0},
		{5, 5 - 2*math.Pi},
	}
	for _, tc := range cases {
		got := WrapAngle(tc.in)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("WrapAngle(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}

// A heading error at exactly the branch cut must keep the same sign on
// consecutive steps, otherwise the controller chatters between hard
// port and hard starboard.
func TestWrapAngle_BranchCutConsistent(t *testing.T) {
	a := WrapAngle(math.Pi)
	b := WrapAngle(-math.Pi)
	if a != b {
		t.Errorf("pi wrapped to %f but -pi wrapped to %f", a, b)
	}
	if a != math.Pi {
		t.Errorf("expected branch cut to map to +pi, got %f", a)
	}
}

func TestIntegrate_StraightLine(t *testing.T) {
	p := DefaultParams()
	s := core.VesselState{U: 10} // heading 0, 10 m/s
	dt := 0.1
	for i := 0; i < 100; i++ {
		d := p.Derivative(s, core.Input{VelCmd: 10})
		s = Integrate(s, d, dt)
	}
	if math.Abs(s.X-100) > 1e-9 {
		t.Errorf("expected X=100 after 10 s at 10 m/s, got %f", s.X)
	}
	if math.Abs(s.Y) > 1e-9 {
		t.Errorf("expected Y=0, got %f", s.Y)
	}
}

func TestDerivative_SurgeLag(t *testing.T) {
	p := DefaultParams()
	s := core.VesselState{}
	d := p.Derivative(s, core.Input{VelCmd: 43.3})
	want := 43.3 / p.SurgeTime
	if math.Abs(d.DU-want) > 1e-12 {
		t.Errorf("expected DU=%f from rest, got %f", want, d.DU)
	}
}

func TestDerivative_Pure(t *testing.T) {
	p := DefaultParams()
	s := core.VesselState{X: 1, Y: 2, Psi: 0.3, R: 0.01, B: 0.5, U: 20}
	in := core.Input{Moment: 5, VelCmd: 20}
	d1 := p.Derivative(s, in)
	d2 := p.Derivative(s, in)
	if d1 != d2 {
		t.Errorf("Derivative is not deterministic: %+v vs %+v", d1, d2)
	}
}

// Long-horizon stability: thousands of steps at dt = 0.1 s with a
// saturated moment must stay finite and bounded.
func TestIntegrate_LongHorizonStable(t *testing.T) {
	p := DefaultParams()
	s := core.VesselState{}
	dt := 0.1
	for i := 0; i < 10000; i++ {
		d := p.Derivative(s, core.Input{Moment: 20, VelCmd: 43.3})
		s = Integrate(s, d, dt)
	}
	for name, v := range map[string]float64{"x": s.X, "y": s.Y, "psi": s.Psi, "r": s.R, "b": s.B, "u": s.U} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("state %s is not finite after 10000 steps: %f", name, v)
		}
	}
	if math.Abs(s.R) > 20/p.YawDamp+1e-6 {
		t.Errorf("yaw rate exceeded its steady-state bound: %f", s.R)
	}
	if s.U > 43.3+1e-6 {
		t.Errorf("surge overshot the commanded speed: %f", s.U)
	}
}

func TestSaturate(t *testing.T) {
	cases := []struct {
		in, amp, want float64
	}{
		{5, 20, 5},
		{200, 20, 20},  // 10x the limit clips to exactly the limit
		{-200, 20, -20},
		{20, 20, 20},
		{-20, 20, -20},
		{0, 20, 0},
	}
	for _, tc := range cases {
		if got := Saturate(tc.in, tc.amp); got != tc.want {
			t.Errorf("Saturate(%f, %f) = %f, want %f", tc.in, tc.amp, got, tc.want)
		}
	}
}

func TestHeadingController_IntegralAccumulates(t *testing.T) {
	c := NewHeadingController(DefaultControllerConfig())
	c.Step(1, 0, 0, 43.3, 0.1)
	if math.Abs(c.Integral()-0.1) > 1e-12 {
		t.Errorf("expected integral 0.1 after one step, got %f", c.Integral())
	}
	c.Step(1, 0, 0, 43.3, 0.1)
	if math.Abs(c.Integral()-0.2) > 1e-12 {
		t.Errorf("expected integral 0.2 after two steps, got %f", c.Integral())
	}
}

func TestHeadingController_SpeedPassThrough(t *testing.T) {
	c := NewHeadingController(DefaultControllerConfig())
	_, velCmd := c.Step(0, 0, 0, 43.3, 0.1)
	if velCmd != 43.3 {
		t.Errorf("expected velocity command 43.3, got %f", velCmd)
	}
}

func TestHeadingController_DampingOpposesRate(t *testing.T) {
	cfg := DefaultControllerConfig()
	c := NewHeadingController(cfg)
	moment, _ := c.Step(0, 0, 0.1, 0, 0.1)
	if moment >= 0 {
		t.Errorf("expected negative moment for positive yaw rate with zero error, got %f", moment)
	}
}

// Closed loop: from heading 0 with a desired heading of 0.5 rad, the
// vessel must converge without divergence over 2000 steps.
func TestClosedLoop_HeadingConverges(t *testing.T) {
	p := DefaultParams()
	c := NewHeadingController(DefaultControllerConfig())
	s := core.VesselState{U: 20}
	dt := 0.1
	desired := 0.5
	for i := 0; i < 2000; i++ {
		moment, velCmd := c.Step(desired, s.Psi, s.R, 20, dt)
		moment = Saturate(moment, 20)
		d := p.Derivative(s, core.Input{Moment: moment, VelCmd: velCmd})
		s = Integrate(s, d, dt)
	}
	if math.Abs(WrapAngle(s.Psi-desired)) > 0.02 {
		t.Errorf("heading did not converge: psi=%f, want ~%f", s.Psi, desired)
	}
}

func TestAdvanceObstacles(t *testing.T) {
	obs := []core.Obstacle{
		{X: 0, Y: 0, Speed: 10, Heading: 0},
		{X: 100, Y: 100, Speed: 10, Heading: math.Pi / 2},
	}
	states := AdvanceObstacles(obs, 0.5)
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
	if math.Abs(obs[0].X-5) > 1e-9 || math.Abs(obs[0].Y) > 1e-9 {
		t.Errorf("obstacle 0 moved to (%f, %f), want (5, 0)", obs[0].X, obs[0].Y)
	}
	if math.Abs(obs[1].Y-105) > 1e-9 {
		t.Errorf("obstacle 1 Y = %f, want 105", obs[1].Y)
	}
	if math.Abs(states[1].VX) > 1e-9 || math.Abs(states[1].VY-10) > 1e-9 {
		t.Errorf("obstacle 1 velocity (%f, %f), want (0, 10)", states[1].VX, states[1].VY)
	}
}

func TestAdvanceObstacles_Empty(t *testing.T) {
	states := AdvanceObstacles(nil, 0.1)
	if len(states) != 0 {
		t.Errorf("expected no states for no obstacles, got %d", len(states))
	}
}
