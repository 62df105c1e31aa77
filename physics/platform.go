package physics

import "strconv"

// PlatformKind identifies what a platform was built from
type PlatformKind uint8

const (
	KindWindowTop PlatformKind = iota
	KindWindowLeftWall
	KindWindowRightWall
	KindTaskbar
	KindScreenFloor
	KindScreenLeftWall
	KindScreenRightWall
	KindScreenCeiling
)

func (k PlatformKind) String() string {
	switch k {
	case KindWindowTop:
		return "window-top"
	case KindWindowLeftWall:
		return "window-left-wall"
	case KindWindowRightWall:
		return "window-right-wall"
	case KindTaskbar:
		return "taskbar"
	case KindScreenFloor:
		return "screen-floor"
	case KindScreenLeftWall:
		return "screen-left-wall"
	case KindScreenRightWall:
		return "screen-right-wall"
	case KindScreenCeiling:
		return "screen-ceiling"
	}
	return "unknown"
}

// Platform is an axis-aligned rectangle in world space. X is the left edge,
// Y is the top edge (world Y up), so the rectangle occupies [Y-Height, Y]
// vertically. Wall platforms are collided two-sided by horizontal push-out;
// everything else is a one-way surface landed on from above.
//
// Platform instances are wholly replaced on every non-skipped rebuild.
// Identity across rebuilds is the ID string, never the pointer.
type Platform struct {
	ID       string
	Kind     PlatformKind
	X, Y     float64
	Width    float64
	Height   float64
	WindowID int // source window id; 0 for screen/taskbar platforms
	Wall     bool
}

func (p *Platform) Right() float64  { return p.X + p.Width }
func (p *Platform) Bottom() float64 { return p.Y - p.Height }

// FromWindow reports whether the platform was built from an application window
func (p *Platform) FromWindow() bool {
	switch p.Kind {
	case KindWindowTop, KindWindowLeftWall, KindWindowRightWall:
		return true
	}
	return false
}

// platformID derives the stable identity for a platform. Window platforms
// fold in the source window id so a window keeps its platform identity while
// it moves; everything else is a singleton per kind.
func platformID(kind PlatformKind, windowID int) string {
	switch kind {
	case KindWindowTop, KindWindowLeftWall, KindWindowRightWall:
		return kind.String() + ":" + strconv.Itoa(windowID)
	}
	return kind.String()
}
