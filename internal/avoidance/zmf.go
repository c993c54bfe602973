// internal/avoidance/zmf.go
package avoidance

// Zmf is the Z-shaped membership function over [a, b]: 1 for x <= a, a
// quadratic blend falling to 0 at x >= b. The two quadratic pieces meet
// at the midpoint with matching value and slope, so the curve is C1.
func Zmf(x, a, b float64) float64 {
	switch {
	case x <= a:
		return 1
	case x >= b:
		return 0
	case x < (a+b)/2:
		t := (x - a) / (b - a)
		return 1 - 2*t*t
	default:
		t := (x - b) / (b - a)
		return 2 * t * t
	}
}
