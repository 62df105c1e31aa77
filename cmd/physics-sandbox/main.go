// Interactive sandbox for the window-platform physics engine. Simulates a
// desktop: draggable windows become platforms, a pet body falls, walks and
// rides them. Mouse-grab the pet to exercise the drag-freeze protocol.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/desk-pet/constants"
	"github.com/lixenwraith/desk-pet/physics"
	"github.com/lixenwraith/desk-pet/stream"
)

// Terminal cells stand in for pixels: one cell covers cellW x cellH of the
// simulated desktop, which keeps window rects plausible pixel sizes.
const (
	cellW = 8.0
	cellH = 16.0

	defaultScale = 32.0 // pixels per world unit
	minScale     = 8.0
	maxScale     = 128.0

	windowW = 220.0
	windowH = 130.0
)

type dragKind int

const (
	dragNone dragKind = iota
	dragPet
	dragWindow
)

type pointerSample struct {
	wx, wy float64
	at     time.Time
}

type Sandbox struct {
	screen tcell.Screen
	engine *physics.Engine
	caster *stream.Broadcaster

	windows   []physics.Window
	screenPx  physics.Screen
	taskbarPx float64

	// camera maps desktop pixels to world units, worldToPx is its inverse
	scale     float64
	camera    mgl64.Mat3
	worldToPx mgl64.Mat3

	drag       dragKind
	dragWinIdx int
	dragOffX   float64 // pointer offset inside a grabbed window, pixels
	dragOffY   float64
	prevPtr    pointerSample
	lastPtr    pointerSample

	paused    bool
	muted     bool
	audioInit bool
	lastStep  time.Time
}

func newSandbox(windowCount int, taskbarPx float64, muted bool, caster *stream.Broadcaster) (*Sandbox, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	s := &Sandbox{
		screen:    screen,
		engine:    physics.New(),
		caster:    caster,
		taskbarPx: taskbarPx,
		scale:     defaultScale,
		muted:     muted,
		lastStep:  time.Now(),
	}
	s.layoutScreen()
	s.spawnWindows(windowCount)
	s.rebuild()

	// Drop the pet in from the top middle of the desktop
	wx, wy := s.mapper()(s.screenPx.Width/2, s.screenPx.Height/4)
	s.engine.SetPosition(wx, wy)

	if err := s.initAudio(); err != nil {
		// Non-fatal, sandbox can run without sound
		log.Printf("Audio initialization failed: %v", err)
	}

	return s, nil
}

func (s *Sandbox) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		s.audioInit = true
	}
	return err
}

func (s *Sandbox) playTone(freq float64, d time.Duration) {
	if !s.audioInit || s.muted {
		return
	}
	sampleRate := beep.SampleRate(44100)
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

func (s *Sandbox) layoutScreen() {
	cols, rows := s.screen.Size()
	s.screenPx = physics.Screen{
		Width:  float64(cols) * cellW,
		Height: float64(rows) * cellH,
	}
	s.updateCamera()
}

// updateCamera rebuilds the affine pixel->world transform: X scales down,
// Y flips so that world Y grows upward from the desktop floor.
func (s *Sandbox) updateCamera() {
	inv := 1.0 / s.scale
	h := s.screenPx.Height
	s.camera = mgl64.Mat3{
		inv, 0, 0,
		0, -inv, 0,
		0, h * inv, 1,
	}
	s.worldToPx = s.camera.Inv()
}

// mapper returns the CoordinateMapper backed by the current camera. The
// engine samples it during rebuilds, so zoom changes force a rebuild
// through the geometry fingerprint.
func (s *Sandbox) mapper() physics.CoordinateMapper {
	m := s.camera
	return func(sx, sy float64) (float64, float64) {
		v := m.Mul3x1(mgl64.Vec3{sx, sy, 1})
		return v.X(), v.Y()
	}
}

func (s *Sandbox) rebuild() {
	s.engine.RebuildPlatforms(s.windows, s.screenPx, s.taskbarPx, s.mapper())
}

func (s *Sandbox) spawnWindows(n int) {
	for i := 0; i < n; i++ {
		s.windows = append(s.windows, physics.Window{
			ID:     i + 1,
			X:      60 + float64(i)*(windowW+40),
			Y:      120 + float64(i%2)*150,
			Width:  windowW,
			Height: windowH,
		})
	}
}

func (s *Sandbox) cellToPx(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * cellW, (float64(cy) + 0.5) * cellH
}

func (s *Sandbox) worldToCell(wx, wy float64) (int, int) {
	v := s.worldToPx.Mul3x1(mgl64.Vec3{wx, wy, 1})
	return int(v.X() / cellW), int(v.Y() / cellH)
}

func (s *Sandbox) onMouseDown(cx, cy int) {
	px, py := s.cellToPx(cx, cy)
	wx, wy := s.mapper()(px, py)
	now := time.Now()
	s.prevPtr = pointerSample{wx, wy, now}
	s.lastPtr = s.prevPtr

	if s.engine.HitTest(wx, wy) {
		s.drag = dragPet
		s.engine.OnDragStart()
		return
	}

	// Topmost window whose title row contains the pointer. Later windows
	// draw on top, so scan back to front.
	for i := len(s.windows) - 1; i >= 0; i-- {
		w := s.windows[i]
		if px >= w.X && px < w.X+w.Width && py >= w.Y && py < w.Y+cellH {
			s.drag = dragWindow
			s.dragWinIdx = i
			s.dragOffX = px - w.X
			s.dragOffY = py - w.Y
			return
		}
	}
}

func (s *Sandbox) onMouseMove(cx, cy int) {
	if s.drag == dragNone {
		return
	}
	px, py := s.cellToPx(cx, cy)
	wx, wy := s.mapper()(px, py)
	s.prevPtr = s.lastPtr
	s.lastPtr = pointerSample{wx, wy, time.Now()}

	switch s.drag {
	case dragPet:
		s.engine.SetPosition(wx, wy)
	case dragWindow:
		w := &s.windows[s.dragWinIdx]
		w.X = px - s.dragOffX
		w.Y = py - s.dragOffY
	}
}

func (s *Sandbox) onMouseUp() {
	switch s.drag {
	case dragPet:
		vx, vy := s.releaseVelocity()
		s.engine.OnDragEnd(vx, vy)
	case dragWindow:
		// Platform geometry catches up on the next rebuild tick
	}
	s.drag = dragNone
}

// releaseVelocity derives a throw velocity from the last two pointer
// samples, clamped so a fast flick cannot shoot the pet across the world.
func (s *Sandbox) releaseVelocity() (float64, float64) {
	dt := s.lastPtr.at.Sub(s.prevPtr.at).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	vx := (s.lastPtr.wx - s.prevPtr.wx) / dt
	vy := (s.lastPtr.wy - s.prevPtr.wy) / dt
	limit := constants.TerminalVelocity
	return clamp(vx, -limit, limit), clamp(vy, -limit, limit)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func (s *Sandbox) step() {
	now := time.Now()
	dt := now.Sub(s.lastStep).Seconds()
	s.lastStep = now
	if s.paused {
		return
	}

	res := s.engine.Step(dt)

	if res.Landed {
		s.playTone(660, 60*time.Millisecond)
	}
	if res.HitWallLeft || res.HitWallRight {
		s.playTone(220, 40*time.Millisecond)
	}
	if s.caster != nil {
		s.publish(res)
	}
}

func (s *Sandbox) publish(res physics.StepResult) {
	b := s.engine.Body()
	st := s.engine.Stats()
	u := stream.Update{
		Body: stream.BodyState{
			X:        b.X,
			Y:        b.Y,
			VelX:     b.VelX,
			VelY:     b.VelY,
			Grounded: b.Grounded,
		},
		Landed:         res.Landed,
		StartedFalling: res.StartedFalling,
		HitWallLeft:    res.HitWallLeft,
		HitWallRight:   res.HitWallRight,
		NearLeftEdge:   res.NearLeftEdge,
		NearRightEdge:  res.NearRightEdge,
		Stats: stream.StatsState{
			Steps:           st.Steps,
			Rebuilds:        st.Rebuilds,
			RebuildsSkipped: st.RebuildsSkipped,
			Landings:        st.Landings,
			WallHits:        st.WallHits,
			SafetyNetHits:   st.SafetyNetHits,
		},
	}
	if b.Ground != nil {
		u.Body.GroundID = b.Ground.ID
	}
	s.caster.Publish(u)
}

func (s *Sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'p', 'P':
				s.paused = !s.paused
			case 'm', 'M':
				s.muted = !s.muted
			case '+', '=':
				s.setScale(s.scale * 1.25)
			case '-', '_':
				s.setScale(s.scale / 1.25)
			case 'a':
				s.nudge(-4)
			case 'd':
				s.nudge(4)
			}
		}
		if ev.Key() == tcell.KeyLeft {
			s.nudge(-4)
		}
		if ev.Key() == tcell.KeyRight {
			s.nudge(4)
		}

	case *tcell.EventMouse:
		cx, cy := ev.Position()
		if ev.Buttons()&tcell.Button1 != 0 {
			if s.drag == dragNone {
				s.onMouseDown(cx, cy)
			} else {
				s.onMouseMove(cx, cy)
			}
		} else if s.drag != dragNone {
			s.onMouseUp()
		}

	case *tcell.EventResize:
		s.layoutScreen()
	}
	return true
}

// nudge gives the pet a walking impulse, friction bleeds it off
func (s *Sandbox) nudge(vx float64) {
	if s.engine.Dragging() {
		return
	}
	b := s.engine.Body()
	s.engine.SetVelocity(vx, b.VelY)
}

func (s *Sandbox) setScale(v float64) {
	s.scale = clamp(v, minScale, maxScale)
	s.updateCamera()
}

func (s *Sandbox) draw() {
	s.screen.Clear()
	cols, rows := s.screen.Size()

	s.drawTaskbar(cols, rows)
	for i := range s.windows {
		s.drawWindow(&s.windows[i], cols, rows)
	}
	s.drawPet(cols, rows)
	s.drawHUD(cols, rows)

	s.screen.Show()
}

func (s *Sandbox) drawTaskbar(cols, rows int) {
	if s.taskbarPx <= 0 {
		return
	}
	style := tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
	barRows := int(math.Ceil(s.taskbarPx / cellH))
	for y := rows - barRows; y < rows; y++ {
		for x := 0; x < cols; x++ {
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (s *Sandbox) drawWindow(w *physics.Window, cols, rows int) {
	x0 := int(w.X / cellW)
	y0 := int(w.Y / cellH)
	x1 := int((w.X + w.Width) / cellW)
	y1 := int((w.Y + w.Height) / cellH)

	title := tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	body := tcell.StyleDefault.Background(tcell.ColorDarkBlue)
	label := fmt.Sprintf(" window %d ", w.ID)

	for y := y0; y <= y1 && y < rows; y++ {
		if y < 0 {
			continue
		}
		for x := x0; x <= x1 && x < cols; x++ {
			if x < 0 {
				continue
			}
			style := body
			r := ' '
			if y == y0 {
				style = title
				if i := x - x0; i < len(label) {
					r = rune(label[i])
				}
			}
			s.screen.SetContent(x, y, r, nil, style)
		}
	}
}

func (s *Sandbox) drawPet(cols, rows int) {
	b := s.engine.Body()
	// Anchor is the feet, draw the glyph one cell above the surface
	cx, cy := s.worldToCell(b.X, b.Y)
	cy--

	style := tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	if s.engine.Dragging() {
		style = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	} else if !b.Grounded {
		style = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	}

	if cx >= 0 && cx < cols && cy >= 0 && cy < rows {
		s.screen.SetContent(cx, cy, '@', nil, style)
	}
}

func (s *Sandbox) drawHUD(cols, rows int) {
	b := s.engine.Body()
	st := s.engine.Stats()

	ground := "air"
	if b.Ground != nil {
		ground = b.Ground.ID
	} else if b.Grounded {
		ground = "held"
	}
	state := ""
	if s.paused {
		state = " [paused]"
	}
	if s.engine.Dragging() {
		state += " [dragging]"
	}

	line1 := fmt.Sprintf(" pet (%.2f, %.2f) vel (%.2f, %.2f) on %s%s",
		b.X, b.Y, b.VelX, b.VelY, ground, state)
	line2 := fmt.Sprintf(" steps %d rebuilds %d (skipped %d) landings %d walls %d zoom %.0fpx/u",
		st.Steps, st.Rebuilds, st.RebuildsSkipped, st.Landings, st.WallHits, s.scale)
	line3 := " drag windows by title, drag the pet, a/d walk, +/- zoom, p pause, m mute, q quit"

	style := tcell.StyleDefault.Foreground(tcell.ColorLightGray)
	drawText(s.screen, 0, 0, cols, line1, style)
	drawText(s.screen, 0, 1, cols, line2, style)
	drawText(s.screen, 0, 2, cols, line3, tcell.StyleDefault.Foreground(tcell.ColorDimGray))
}

func drawText(screen tcell.Screen, x, y, maxW int, text string, style tcell.Style) {
	for i, r := range text {
		if x+i >= maxW {
			return
		}
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func (s *Sandbox) run() {
	stepTicker := time.NewTicker(constants.StepInterval)
	defer stepTicker.Stop()
	rebuildTicker := time.NewTicker(constants.WindowPollInterval)
	defer rebuildTicker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- s.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !s.handleInput(ev) {
				return
			}

		case <-rebuildTicker.C:
			s.rebuild()

		case <-stepTicker.C:
			s.step()
			s.draw()
		}
	}
}

func (s *Sandbox) cleanup() {
	if s.audioInit {
		speaker.Close()
	}
	s.screen.Fini()
}

func main() {
	telemetry := flag.String("telemetry", "", "websocket telemetry listen address (e.g. :8700)")
	taskbar := flag.Float64("taskbar", 40, "simulated taskbar height in pixels, 0 disables")
	windows := flag.Int("windows", 3, "number of simulated windows")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	var caster *stream.Broadcaster
	if *telemetry != "" {
		caster = stream.NewBroadcaster()
		mux := http.NewServeMux()
		mux.Handle("/ws", caster)
		go func() {
			if err := http.ListenAndServe(*telemetry, mux); err != nil {
				log.Printf("Telemetry listen failed: %v", err)
			}
		}()
	}

	sandbox, err := newSandbox(*windows, *taskbar, *mute, caster)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer sandbox.cleanup()
	if caster != nil {
		defer caster.Close()
	}

	sandbox.run()
}
