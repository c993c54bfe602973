// internal/dynamics/controller.go
package dynamics

// ControllerConfig bundles the heading loop gains.
type ControllerConfig struct {
	Kp float64 `json:"kp"` // proportional on heading error
	Ki float64 `json:"ki"` // integral on heading error
	Kd float64 `json:"kd"` // damping on yaw rate
}

// DefaultControllerConfig returns gains tuned for DefaultParams: the
// closed yaw loop sits near 0.2 rad/s with heavy damping, which keeps
// forward Euler at dt = 0.1 s comfortably stable.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{Kp: 4.0, Ki: 0.02, Kd: 16.0}
}

// HeadingController converts a desired heading into a commanded yaw
// moment with PI action plus yaw-rate damping, and passes the transit
// speed order through as the velocity command. The integral accumulator
// persists across calls and is updated exactly once per call; it is
// never reset mid-run.
type HeadingController struct {
	cfg ControllerConfig

	// integral of the wrapped heading error, in radian-seconds
	errInt float64
}

// NewHeadingController constructs a controller with the given gains and
// a zero integral state.
func NewHeadingController(cfg ControllerConfig) *HeadingController {
	return &HeadingController{cfg: cfg}
}

// Step computes the commanded yaw moment and velocity command for one
// sampling interval ts. desired and actual are headings in radians,
// yawRate the current r, speedCmd the ordered transit speed.
func (c *HeadingController) Step(desired, actual, yawRate, speedCmd, ts float64) (moment, velCmd float64) {
	e := WrapAngle(desired - actual)
	c.errInt += e * ts

	moment = c.cfg.Kp*e + c.cfg.Ki*c.errInt - c.cfg.Kd*yawRate
	velCmd = speedCmd
	return moment, velCmd
}

// Integral exposes the accumulator for reporting and tests.
func (c *HeadingController) Integral() float64 {
	return c.errInt
}

// Saturate clips a commanded moment to the actuator amplitude limit.
// This is a hard clip at exactly +/-amp, not a rescale.
func Saturate(moment, amp float64) float64 {
	if moment > amp {
		return amp
	}
	if moment < -amp {
		return -amp
	}
	return moment
}
