// internal/dynamics/obstacles.go
package dynamics

import "github.com/marisim/marisim/internal/model/core"

// AdvanceObstacles moves every obstacle one step of dt along its
// constant heading at its constant speed, in place, and returns the
// per-obstacle kinematic snapshot after the move. Obstacles never react
// to own-ship; the straight-line model is intentional so that avoidance
// behavior is attributable to own-ship alone.
func AdvanceObstacles(obs []core.Obstacle, dt float64) []core.ObstacleState {
	states := make([]core.ObstacleState, len(obs))
	for i := range obs {
		vx, vy := obs[i].VelocityXY()
		obs[i].X += vx * dt
		obs[i].Y += vy * dt
		states[i] = core.ObstacleState{X: obs[i].X, Y: obs[i].Y, VX: vx, VY: vy}
	}
	return states
}
