package physics

// StepResult reports what happened during a single Step call. The event
// flags are one-shot: they describe that call only and must not be inferred
// by diffing snapshots between calls. The struct is recomputed fresh every
// Step and never accumulated.
type StepResult struct {
	// Landed fires on the airborne -> grounded transition within this step
	Landed bool
	// StartedFalling fires on the grounded -> airborne transition
	StartedFalling bool

	// Near-edge flags for the current ground platform (false while airborne)
	NearLeftEdge  bool
	NearRightEdge bool

	// Wall hit flags: the side names where the obstacle is relative to the body
	HitWallLeft  bool
	HitWallRight bool

	// WallPlatform is the window wall that was hit. Synthetic screen
	// boundaries set the hit flags but leave this nil, so callers can tell
	// "edge of the world" from "real obstacle".
	WallPlatform *Platform

	// Ground is the platform the body rests on after this step, nil if airborne
	Ground *Platform
}

// EdgeSide names which screen boundary an EdgeState resolved to
type EdgeSide uint8

const (
	EdgeNone EdgeSide = iota
	EdgeLeft
	EdgeRight
)

func (s EdgeSide) String() string {
	switch s {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	}
	return "none"
}

// EdgeState is the body's proximity to the screen boundaries, independent of
// which platform (if any) it is grounded on. The behavior layer uses it to
// refuse to keep walking toward an edge.
type EdgeState struct {
	NearLeft  bool
	NearRight bool
	// Distance to the nearest boundary, in world units
	Distance float64
	// Side is the nearest boundary when one is within range, EdgeNone otherwise
	Side EdgeSide
}

// Stats counts engine activity since construction. Counters only; they are
// updated inside Step and RebuildPlatforms on the caller's thread.
type Stats struct {
	Steps           uint64
	Rebuilds        uint64
	RebuildsSkipped uint64
	Landings        uint64
	WallHits        uint64
	SafetyNetHits   uint64
}
