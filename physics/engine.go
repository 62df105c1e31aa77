package physics

import (
	"github.com/lixenwraith/desk-pet/constants"
)

// CoordinateMapper converts a screen-space pixel coordinate to a world-space
// coordinate. It is owned by the host's rendering/camera subsystem and
// injected per rebuild; the engine never defines this mapping itself.
type CoordinateMapper func(sx, sy float64) (wx, wy float64)

// Window is one on-screen application window rectangle in screen-space
// pixels (top-left origin). ID is stable for the lifetime of the window
// (CGWindowNumber on macOS, window handle elsewhere).
type Window struct {
	ID     int
	X, Y   float64
	Width  float64
	Height float64
}

// Screen is the host screen size in pixels
type Screen struct {
	Width  float64
	Height float64
}

// Engine owns the body and the platform list. All methods must be called
// from the same logical thread; within one frame a due RebuildPlatforms must
// complete before the Step that depends on it.
type Engine struct {
	body Body

	platforms []Platform
	// surfaces holds the one-way platforms sorted by descending top surface
	// so the topmost candidate wins a landing; walls are resolved separately
	surfaces []*Platform
	walls    []*Platform
	floor    *Platform

	// world extents of the mapped screen, valid once built
	minX, maxX, minY, maxY float64

	taskbarY   float64
	hasTaskbar bool

	fingerprint    uint32
	hasFingerprint bool

	built  bool
	frozen bool

	stats Stats
}

// New creates an engine with the default body size
func New() *Engine {
	return NewWithSize(constants.BodyHalfWidth, constants.BodyHalfHeight)
}

// NewWithSize creates an engine whose body has the given half-extents
func NewWithSize(halfWidth, halfHeight float64) *Engine {
	return &Engine{
		body: Body{HalfWidth: halfWidth, HalfHeight: halfHeight},
	}
}

// Built reports whether a platform rebuild has completed. Callers must gate
// on it before trusting body position: before the first rebuild the body
// would appear to rest at the coordinate origin.
func (e *Engine) Built() bool { return e.built }

// Body returns a snapshot of the body. The Ground pointer aliases the
// current platform list and is read-only.
func (e *Engine) Body() Body { return e.body }

// Platforms returns a copy of the current platform list
func (e *Engine) Platforms() []Platform {
	out := make([]Platform, len(e.platforms))
	copy(out, e.platforms)
	return out
}

// TaskbarY returns the taskbar platform's top surface in world units.
// ok is false until a rebuild has seen a non-zero taskbar height.
func (e *Engine) TaskbarY() (y float64, ok bool) {
	return e.taskbarY, e.hasTaskbar
}

// Stats returns the activity counters
func (e *Engine) Stats() Stats { return e.stats }

// SetPosition teleports the body. Velocity is left untouched; the caller
// zeroes it separately when the move should not carry momentum.
func (e *Engine) SetPosition(x, y float64) {
	e.body.X = x
	e.body.Y = y
}

// SetVelocity overrides the body velocity. The behavior layer drives walking
// through this.
func (e *Engine) SetVelocity(vx, vy float64) {
	e.body.VelX = vx
	e.body.VelY = vy
}

// HitTest reports whether a world-space point is inside the body. The host
// uses it to decide whether the pointer grabs the pet or passes through to
// the desktop.
func (e *Engine) HitTest(wx, wy float64) bool {
	return e.body.Contains(wx, wy)
}

// ScreenEdge returns the body's proximity to the screen boundaries. Zero
// value before the first rebuild.
func (e *Engine) ScreenEdge() EdgeState {
	var s EdgeState
	if !e.built {
		return s
	}
	distLeft := e.body.X - (e.minX + e.body.HalfWidth)
	distRight := (e.maxX - e.body.HalfWidth) - e.body.X
	s.NearLeft = distLeft <= constants.ScreenEdgeDistance
	s.NearRight = distRight <= constants.ScreenEdgeDistance
	if distLeft <= distRight {
		s.Distance = distLeft
		if s.NearLeft {
			s.Side = EdgeLeft
		}
	} else {
		s.Distance = distRight
		if s.NearRight {
			s.Side = EdgeRight
		}
	}
	return s
}

// platformByID resolves identity across rebuilds. Linear scan: the list is
// small (three platforms per window plus five synthetic ones).
func (e *Engine) platformByID(id string) *Platform {
	for i := range e.platforms {
		if e.platforms[i].ID == id {
			return &e.platforms[i]
		}
	}
	return nil
}
