package physics

import (
	"math"

	"github.com/lixenwraith/desk-pet/constants"
)

// Step advances the simulation by dt seconds and returns the per-call event
// record. It is a safe no-op before the first rebuild; while drag-frozen it
// leaves the body untouched and only reports the last known ground platform.
func (e *Engine) Step(dt float64) StepResult {
	var res StepResult
	if !e.built {
		return res
	}
	if e.frozen {
		res.Ground = e.body.Ground
		return res
	}
	e.stats.Steps++

	// Clamping dt bounds per-step displacement to TerminalVelocity*MaxDeltaTime,
	// which is the primary defense against tunneling through thin platforms
	// during frame-rate hitches.
	if dt < 0 {
		dt = 0
	} else if dt > constants.MaxDeltaTime {
		dt = constants.MaxDeltaTime
	}

	b := &e.body
	wasGrounded := b.Grounded

	if !b.Grounded {
		b.VelY -= constants.Gravity * dt
		if b.VelY < -constants.TerminalVelocity {
			b.VelY = -constants.TerminalVelocity
		}
	}
	friction := constants.FrictionAir
	if b.Grounded {
		friction = constants.FrictionGround
	}
	b.VelX *= math.Exp(-friction * dt)
	if math.Abs(b.VelX) < constants.VelocityEpsilon {
		b.VelX = 0
	}
	if math.Abs(b.VelY) < constants.VelocityEpsilon {
		b.VelY = 0
	}

	prevBottom := b.Y
	b.X += b.VelX * dt
	b.Y += b.VelY * dt

	e.resolveLanding(prevBottom)
	e.resolveWalls(&res)
	e.applyScreenBounds(&res)

	// Grounded transitions are compared within this step only; the flags are
	// one-shot and scoped to this call.
	if b.Grounded && !wasGrounded {
		res.Landed = true
		e.stats.Landings++
	} else if !b.Grounded && wasGrounded {
		res.StartedFalling = true
	}

	if b.Grounded && b.Ground != nil {
		g := b.Ground
		res.NearLeftEdge = b.X-g.X <= constants.PlatformEdgeDistance
		res.NearRightEdge = g.Right()-b.X <= constants.PlatformEdgeDistance
	}
	res.Ground = b.Ground
	return res
}

// resolveLanding performs the one-way landing pass. Whether a crossing
// happened this step is decided by two discrete checks instead of a swept
// test: the bottom edge is now at or below the surface within the collision
// skin, and the previous bottom edge was above the surface by no more than
// the displacement a clamped step can produce. Together they bound false
// negatives without continuous collision detection.
func (e *Engine) resolveLanding(prevBottom float64) {
	b := &e.body
	b.Grounded = false
	b.Ground = nil
	if b.VelY > 0 {
		// Moving upward passes freely through platforms from below
		return
	}
	maxDrop := constants.TerminalVelocity * constants.MaxDeltaTime
	for _, p := range e.surfaces {
		if b.Right() <= p.X || b.Left() >= p.Right() {
			continue
		}
		top := p.Y
		if b.Y > top+constants.CollisionSkin {
			continue // still above the surface
		}
		if prevBottom < top-constants.CollisionSkin {
			continue // was below the surface: one-way pass-through
		}
		if prevBottom-top > maxDrop {
			continue // teleport, not a fall
		}
		b.Y = top + constants.CollisionSkin
		b.VelY = 0
		b.Grounded = true
		b.Ground = p
		// Surfaces are ordered topmost first; the first hit wins
		return
	}
}

// resolveWalls resolves two-sided wall collision: push out along the
// shallower penetration axis and kill the velocity component driving inward.
// Only window walls populate WallPlatform; the screen boundary response in
// applyScreenBounds reports with a nil platform.
func (e *Engine) resolveWalls(res *StepResult) {
	b := &e.body
	for _, w := range e.walls {
		if b.Top() <= w.Bottom() || b.Bottom() >= w.Y {
			continue
		}
		if b.Right() <= w.X || b.Left() >= w.Right() {
			continue
		}
		penFromLeft := b.Right() - w.X
		penFromRight := w.Right() - b.Left()
		if penFromLeft <= penFromRight {
			b.X -= penFromLeft
			if b.VelX > 0 {
				b.VelX = 0
			}
			res.HitWallRight = true
		} else {
			b.X += penFromRight
			if b.VelX < 0 {
				b.VelX = 0
			}
			res.HitWallLeft = true
		}
		if w.FromWindow() {
			res.WallPlatform = w
		}
		e.stats.WallHits++
	}
}

// applyScreenBounds is the last-resort safety net. It duplicates what the
// boundary platforms and the landing pass should already guarantee, so no
// single geometry bug can leave the body permanently off-screen or in
// perpetual free-fall.
func (e *Engine) applyScreenBounds(res *StepResult) {
	b := &e.body
	if b.X < e.minX+b.HalfWidth {
		b.X = e.minX + b.HalfWidth
		if b.VelX < 0 {
			b.VelX = 0
		}
		res.HitWallLeft = true
	}
	if b.X > e.maxX-b.HalfWidth {
		b.X = e.maxX - b.HalfWidth
		if b.VelX > 0 {
			b.VelX = 0
		}
		res.HitWallRight = true
	}
	if b.Y < e.minY {
		// Unreachable via normal collision; guards precision error, a missed
		// collision, or an in-flight geometry change.
		b.Y = e.minY + constants.CollisionSkin
		b.VelY = 0
		b.Grounded = true
		b.Ground = e.floor
		e.stats.SafetyNetHits++
	}
}
