package physics

import (
	"math"
	"testing"

	"github.com/lixenwraith/desk-pet/constants"
)

const dt = 1.0 / 60

func TestFreeFallToFloor(t *testing.T) {
	e := New()
	e.RebuildPlatforms(nil, testScreen, 0, identityMapper)
	e.SetPosition(500, 3)

	for i := 0; i < 10; i++ {
		e.Step(dt)
	}
	b := e.Body()
	if b.Y >= 3 {
		t.Errorf("Expected y to decrease after 10 steps, got %v", b.Y)
	}
	if b.VelY >= 0 {
		t.Errorf("Expected downward velocity after 10 steps, got %v", b.VelY)
	}

	settle(t, e)
	b = e.Body()
	if !b.Grounded {
		t.Fatal("Expected grounded at the floor")
	}
	if b.Y != constants.CollisionSkin {
		t.Errorf("Expected rest at floor surface + skin (%v), got %v", constants.CollisionSkin, b.Y)
	}
	if b.Ground == nil || b.Ground.Kind != KindScreenFloor {
		t.Errorf("Expected floor as ground platform, got %+v", b.Ground)
	}
}

func TestBodyNeverEndsBelowFloor(t *testing.T) {
	e := New()
	e.RebuildPlatforms(nil, testScreen, 0, identityMapper)
	e.SetPosition(500, 3)

	for i := 0; i < 600; i++ {
		e.Step(dt)
		if y := e.Body().Y; y < 0 {
			t.Fatalf("Body ended a step below the floor: y=%v at step %d", y, i)
		}
	}
}

func TestTerminalVelocityClamp(t *testing.T) {
	e := New()
	e.RebuildPlatforms(nil, testScreen, 0, identityMapper)
	e.SetPosition(500, 900)

	for i := 0; i < 200; i++ {
		e.Step(dt)
		if v := e.Body().VelY; v < -constants.TerminalVelocity {
			t.Fatalf("Fall speed exceeded terminal velocity: %v", v)
		}
	}
}

func TestDeltaTimeClamp(t *testing.T) {
	e := New()
	e.RebuildPlatforms(nil, testScreen, 0, identityMapper)
	e.SetPosition(500, 900)

	before := e.Body().Y
	e.Step(10) // frame hitch: ten full seconds
	dropped := before - e.Body().Y

	maxDrop := constants.TerminalVelocity * constants.MaxDeltaTime
	if dropped > maxDrop+1e-9 {
		t.Errorf("Expected per-step displacement bounded by %v, got %v", maxDrop, dropped)
	}
}

func TestLandingOnWindowFiresOnce(t *testing.T) {
	e := New()
	e.RebuildPlatforms([]Window{petWindow}, testScreen, 0, petMapper)
	e.SetPosition(0, 4)

	landings := 0
	var landed StepResult
	for i := 0; i < 600; i++ {
		res := e.Step(dt)
		if res.Landed {
			landings++
			landed = res
		}
	}
	if landings != 1 {
		t.Fatalf("Expected exactly one landing event, got %d", landings)
	}
	if landed.Ground == nil || landed.Ground.Kind != KindWindowTop {
		t.Errorf("Expected ground platform of kind window-top, got %+v", landed.Ground)
	}
	if landed.Ground.WindowID != petWindow.ID {
		t.Errorf("Expected source window id %d, got %d", petWindow.ID, landed.Ground.WindowID)
	}
	if y := e.Body().Y; math.Abs(y-(2+constants.CollisionSkin)) > 1e-9 {
		t.Errorf("Expected rest at window surface + skin, got %v", y)
	}
}

func TestOneWayUpwardPassThrough(t *testing.T) {
	e := New()
	e.RebuildPlatforms([]Window{petWindow}, testScreen, 0, petMapper)

	// Launch upward from inside the window's horizontal span, below its top
	// surface at y=2
	e.SetPosition(0, 0.5)
	e.SetVelocity(0, 20)

	rose := false
	for i := 0; i < 600; i++ {
		res := e.Step(dt)
		b := e.Body()
		if b.VelY > 0 {
			if b.Grounded || res.Landed {
				t.Fatalf("Body collided while moving upward at y=%v", b.Y)
			}
			if b.Y > 2.5 {
				rose = true
			}
		}
		if res.Landed {
			if res.Ground == nil || res.Ground.Kind != KindWindowTop {
				t.Fatalf("Expected fall-back landing on the window top, got %+v", res.Ground)
			}
			if !rose {
				t.Fatal("Body landed before passing through the platform from below")
			}
			return
		}
	}
	t.Fatal("Body never landed after the launch")
}

func TestWindowWallCollision(t *testing.T) {
	e := New()
	e.RebuildPlatforms([]Window{petWindow}, testScreen, 0, petMapper)

	// Ground on the floor left of the window, then walk right into its wall
	e.SetPosition(-4, 1)
	settle(t, e)

	var hit StepResult
	for i := 0; i < 600; i++ {
		e.SetVelocity(5, 0)
		res := e.Step(dt)
		if res.HitWallRight {
			hit = res
			break
		}
	}
	if !hit.HitWallRight {
		t.Fatal("Body never hit the window wall")
	}
	if hit.WallPlatform == nil {
		t.Fatal("Expected the window wall platform in the result")
	}
	if hit.WallPlatform.Kind != KindWindowLeftWall {
		t.Errorf("Expected window-left-wall, got %v", hit.WallPlatform.Kind)
	}
	if hit.WallPlatform.WindowID != petWindow.ID {
		t.Errorf("Expected source window id %d, got %d", petWindow.ID, hit.WallPlatform.WindowID)
	}

	b := e.Body()
	if b.VelX != 0 {
		t.Errorf("Expected inward velocity zeroed, got %v", b.VelX)
	}
	if b.Right() > -2+1e-9 {
		t.Errorf("Expected body pushed out of the wall, right edge at %v", b.Right())
	}
}

func TestScreenBoundaryReportsNilWall(t *testing.T) {
	e := New()
	e.RebuildPlatforms(nil, testScreen, 0, petMapper)
	e.SetPosition(-4, 1)
	settle(t, e)

	var hit StepResult
	for i := 0; i < 600; i++ {
		e.SetVelocity(-5, 0)
		res := e.Step(dt)
		if res.HitWallLeft {
			hit = res
			break
		}
	}
	if !hit.HitWallLeft {
		t.Fatal("Body never reached the screen boundary")
	}
	if hit.WallPlatform != nil {
		t.Errorf("Expected nil wall platform for a screen boundary, got %+v", hit.WallPlatform)
	}
	b := e.Body()
	if math.Abs(b.X-(-5+b.HalfWidth)) > 1e-9 {
		t.Errorf("Expected body clamped at the left extent, got x=%v", b.X)
	}
}

func TestPlatformEdgeProximity(t *testing.T) {
	e := New()
	e.RebuildPlatforms([]Window{petWindow}, testScreen, 0, petMapper)

	// Land near the platform's left extent (window top spans x in [-2,2])
	e.SetPosition(-1.9, 3)
	res := settle(t, e)
	if res.Ground == nil || res.Ground.Kind != KindWindowTop {
		t.Fatalf("Expected landing on the window top, got %+v", res.Ground)
	}

	res = e.Step(dt)
	if !res.NearLeftEdge {
		t.Error("Expected NearLeftEdge at the platform's left extent")
	}
	if res.NearRightEdge {
		t.Error("Expected NearRightEdge false away from the right extent")
	}

	// Middle of the platform: neither edge
	e.SetPosition(0, 2+constants.CollisionSkin)
	res = e.Step(dt)
	if res.NearLeftEdge || res.NearRightEdge {
		t.Errorf("Expected no edge proximity at platform center, got %+v", res)
	}
}

func TestTopmostPlatformWins(t *testing.T) {
	e := New()
	// Two stacked windows occupying the same horizontal span; tops at
	// world y=2 (petWindow) and y=4
	upper := Window{ID: 11, X: 300, Y: 600, Width: 400, Height: 100}
	e.RebuildPlatforms([]Window{petWindow, upper}, testScreen, 0, petMapper)

	e.SetPosition(0, 5)
	res := settle(t, e)
	if res.Ground == nil || res.Ground.WindowID != upper.ID {
		t.Errorf("Expected landing on the topmost platform (window %d), got %+v", upper.ID, res.Ground)
	}
}

func TestSafetyNetBelowFloor(t *testing.T) {
	e := New()
	e.RebuildPlatforms(nil, testScreen, 0, petMapper)

	// Teleport below the mapped floor: unreachable via normal collision
	e.SetPosition(0, -5)
	res := e.Step(dt)

	b := e.Body()
	if !b.Grounded {
		t.Fatal("Expected safety net to ground the body")
	}
	if b.Y != constants.CollisionSkin {
		t.Errorf("Expected body placed on the floor surface, got y=%v", b.Y)
	}
	if b.VelY != 0 {
		t.Errorf("Expected vertical velocity zeroed, got %v", b.VelY)
	}
	if !res.Landed {
		t.Error("Expected a landing event from the safety net")
	}
	if e.Stats().SafetyNetHits != 1 {
		t.Errorf("Expected 1 safety net activation, got %d", e.Stats().SafetyNetHits)
	}
}

func TestWalkOffPlatformStartsFalling(t *testing.T) {
	e := New()
	e.RebuildPlatforms([]Window{petWindow}, testScreen, 0, petMapper)
	e.SetPosition(0, 3)
	settle(t, e)

	fell := false
	for i := 0; i < 600; i++ {
		e.SetVelocity(4, 0)
		res := e.Step(dt)
		if res.StartedFalling {
			fell = true
			break
		}
	}
	if !fell {
		t.Fatal("Expected StartedFalling after walking off the platform edge")
	}
	if e.Body().Grounded {
		t.Error("Expected body airborne after walking off")
	}
}
