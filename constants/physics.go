package constants

import "time"

// Simulation Cadence Constants
const (
	// StepInterval is the physics step interval (~60 Hz)
	StepInterval = 16 * time.Millisecond

	// WindowPollInterval is the window-geometry poll / platform rebuild interval (~10 Hz)
	WindowPollInterval = 100 * time.Millisecond
)

// Integration Constants
//
// All distances are in world units. The world scale is owned by the host's
// coordinate mapper; these values assume the pet body is roughly one unit tall.
const (
	// Gravity is the downward acceleration applied while airborne (units/s^2)
	Gravity = 30.0

	// TerminalVelocity is the maximum downward speed (units/s)
	TerminalVelocity = 40.0

	// MaxDeltaTime clamps the per-step delta time. Bounds the maximum per-step
	// displacement to TerminalVelocity*MaxDeltaTime, which is what the landing
	// check relies on to never miss a surface crossing.
	MaxDeltaTime = 1.0 / 30.0

	// FrictionGround is the exponential horizontal velocity decay rate while grounded (1/s)
	FrictionGround = 9.0

	// FrictionAir is the exponential horizontal velocity decay rate while airborne (1/s)
	FrictionAir = 1.2

	// VelocityEpsilon snaps near-zero velocity components to exactly zero
	VelocityEpsilon = 1e-3
)

// Collision Constants
const (
	// CollisionSkin is the resting tolerance above platform surfaces
	CollisionSkin = 0.02

	// WallThickness is the world-space thickness given to window edge walls
	// and screen boundary walls
	WallThickness = 0.1

	// BoundaryThickness is the world-space thickness of the synthetic
	// screen floor and ceiling platforms
	BoundaryThickness = 0.5

	// PlatformEdgeDistance is the distance from a ground platform end at
	// which the step result reports near-edge
	PlatformEdgeDistance = 0.3

	// ScreenEdgeDistance is the distance from a screen boundary at which
	// the edge state reports near-edge
	ScreenEdgeDistance = 0.5
)

// Body Defaults
const (
	// BodyHalfWidth is the default body half width
	BodyHalfWidth = 0.35

	// BodyHalfHeight is the default body half height
	BodyHalfHeight = 0.5
)

// Fingerprint Quantization Constants
const (
	// FingerprintGridPx quantizes window rectangles before hashing so
	// sub-pixel jitter does not thrash platform rebuilds
	FingerprintGridPx = 4.0

	// FingerprintWorldQuantum quantizes the coordinate-mapper sample folded
	// into the fingerprint (1/64 world unit)
	FingerprintWorldQuantum = 1.0 / 64.0
)
