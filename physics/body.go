package physics

// Body is the single dynamic entity. X is the horizontal center, Y is the
// bottom edge (the feet), so a grounded body rests with Y on the platform
// surface plus the collision skin. The body persists for the engine's whole
// lifetime and is mutated in place by Step, SetPosition and the drag protocol.
type Body struct {
	X, Y       float64
	VelX, VelY float64

	HalfWidth  float64
	HalfHeight float64

	// Grounded means the body is resting on a platform or the safety-net
	// floor with vertical velocity held at zero
	Grounded bool

	// Ground is the platform the body rests on. After a settled step it is
	// non-nil whenever Grounded is true, except when the safety net placed
	// the body before the first platform build.
	Ground *Platform
}

func (b *Body) Left() float64   { return b.X - b.HalfWidth }
func (b *Body) Right() float64  { return b.X + b.HalfWidth }
func (b *Body) Bottom() float64 { return b.Y }
func (b *Body) Top() float64    { return b.Y + 2*b.HalfHeight }

// Contains reports whether a world-space point is inside the body rectangle
func (b *Body) Contains(wx, wy float64) bool {
	return wx >= b.Left() && wx <= b.Right() && wy >= b.Bottom() && wy <= b.Top()
}
