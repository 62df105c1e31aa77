package physics

// Drag-freeze protocol: physics is fully suspended while the user manually
// repositions the body with the pointer. The host moves the body via
// SetPosition during the drag.

// Dragging reports whether physics is currently frozen by a drag
func (e *Engine) Dragging() bool { return e.frozen }

// OnDragStart freezes physics and zeroes velocity, so releasing a held
// position later applies no residual pre-grab motion
func (e *Engine) OnDragStart() {
	if e.frozen {
		return
	}
	e.frozen = true
	e.body.VelX = 0
	e.body.VelY = 0
}

// OnDragEnd resumes physics with the given release velocity. Grounded is set
// and the ground reference cleared unconditionally, whether or not the drop
// point is supported: the next Step then observes a proper true->false
// transition and emits StartedFalling when the body was dropped into the
// air, instead of the event being lost because the engine never considered
// the body grounded.
func (e *Engine) OnDragEnd(vx, vy float64) {
	if !e.frozen {
		return
	}
	e.frozen = false
	e.body.VelX = vx
	e.body.VelY = vy
	e.body.Grounded = true
	e.body.Ground = nil
}
