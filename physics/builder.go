package physics

import (
	"math"
	"sort"

	"github.com/lixenwraith/desk-pet/constants"
)

// RebuildPlatforms replaces the platform list from live window geometry.
// Returns false when the call was skipped because nothing relevant changed
// since the previous rebuild.
//
// The screen boundary walls are placed just outside the mapped extents; the
// boundary response the body actually feels comes from the clamp in Step,
// which reports hits with a nil wall platform. The wall platforms exist so
// the list is a complete picture of the level for callers that render it.
func (e *Engine) RebuildPlatforms(windows []Window, screen Screen, taskbarPx float64, mapper CoordinateMapper) bool {
	if mapper == nil {
		return false
	}

	fp := GeometryFingerprint(windows, screen, taskbarPx, mapper)
	if e.hasFingerprint && fp == e.fingerprint && len(e.platforms) > 0 {
		e.stats.RebuildsSkipped++
		return false
	}
	e.fingerprint = fp
	e.hasFingerprint = true

	// Remember the current support before the list is replaced so identity
	// can be recovered by id afterwards.
	var prevGroundID string
	var prevGroundX float64
	if e.body.Ground != nil {
		prevGroundID = e.body.Ground.ID
		prevGroundX = e.body.Ground.X
	}

	// World extents come from mapping all four screen corners, which keeps
	// floor/ceiling/left/right correct under mappers that flip or scale
	// either axis.
	minX, minY, maxX, maxY := mapRect(mapper, 0, 0, screen.Width, screen.Height)
	e.minX, e.minY, e.maxX, e.maxY = minX, minY, maxX, maxY

	plats := make([]Platform, 0, 5+3*len(windows))

	plats = append(plats,
		Platform{
			ID: platformID(KindScreenFloor, 0), Kind: KindScreenFloor,
			X: minX, Y: minY, Width: maxX - minX, Height: constants.BoundaryThickness,
		},
		// The ceiling slab sits above the world so a body released at the
		// very top of the screen falls instead of standing on it.
		Platform{
			ID: platformID(KindScreenCeiling, 0), Kind: KindScreenCeiling,
			X: minX, Y: maxY + constants.BoundaryThickness, Width: maxX - minX, Height: constants.BoundaryThickness,
		},
		Platform{
			ID: platformID(KindScreenLeftWall, 0), Kind: KindScreenLeftWall,
			X: minX - constants.WallThickness, Y: maxY, Width: constants.WallThickness, Height: maxY - minY,
			Wall: true,
		},
		Platform{
			ID: platformID(KindScreenRightWall, 0), Kind: KindScreenRightWall,
			X: maxX, Y: maxY, Width: constants.WallThickness, Height: maxY - minY,
			Wall: true,
		},
	)

	if taskbarPx > 0 {
		_, taskbarTop := mapper(0, screen.Height-taskbarPx)
		plats = append(plats, Platform{
			ID: platformID(KindTaskbar, 0), Kind: KindTaskbar,
			X: minX, Y: taskbarTop, Width: maxX - minX, Height: taskbarTop - minY,
		})
		e.taskbarY = taskbarTop
		e.hasTaskbar = true
	} else {
		e.hasTaskbar = false
	}

	for _, w := range windows {
		if w.Width <= 0 || w.Height <= 0 {
			continue
		}
		wMinX, wMinY, wMaxX, wMaxY := mapRect(mapper, w.X, w.Y, w.Width, w.Height)
		plats = append(plats,
			Platform{
				ID: platformID(KindWindowTop, w.ID), Kind: KindWindowTop,
				X: wMinX, Y: wMaxY, Width: wMaxX - wMinX, Height: wMaxY - wMinY,
				WindowID: w.ID,
			},
			Platform{
				ID: platformID(KindWindowLeftWall, w.ID), Kind: KindWindowLeftWall,
				X: wMinX, Y: wMaxY, Width: constants.WallThickness, Height: wMaxY - wMinY,
				WindowID: w.ID, Wall: true,
			},
			Platform{
				ID: platformID(KindWindowRightWall, w.ID), Kind: KindWindowRightWall,
				X: wMaxX - constants.WallThickness, Y: wMaxY, Width: constants.WallThickness, Height: wMaxY - wMinY,
				WindowID: w.ID, Wall: true,
			},
		)
	}

	e.platforms = plats
	e.indexPlatforms()
	e.built = true
	e.stats.Rebuilds++

	// Ground continuity. While drag-frozen only the reference is re-pointed:
	// snapping position would yank the body out of the user's hand.
	switch {
	case e.frozen:
		if prevGroundID != "" {
			e.body.Ground = e.platformByID(prevGroundID)
		}
	case e.body.Grounded && prevGroundID != "":
		if np := e.platformByID(prevGroundID); np != nil {
			// Ride the support: carry its horizontal displacement and
			// re-snap to the (possibly moved) surface.
			e.body.X += np.X - prevGroundX
			e.body.Y = np.Y + constants.CollisionSkin
			e.body.Ground = np
		} else {
			// Support vanished. Clear only the reference and leave the
			// grounded flag alone so the next Step observes the true->false
			// transition and emits StartedFalling.
			e.body.Ground = nil
		}
	}

	return true
}

// indexPlatforms rebuilds the landing and wall views over the platform list
func (e *Engine) indexPlatforms() {
	e.surfaces = e.surfaces[:0]
	e.walls = e.walls[:0]
	e.floor = nil
	for i := range e.platforms {
		p := &e.platforms[i]
		if p.Wall {
			e.walls = append(e.walls, p)
			continue
		}
		if p.Kind == KindScreenCeiling {
			// Never a landing candidate: a body thrown above the screen must
			// come back down through it
			continue
		}
		e.surfaces = append(e.surfaces, p)
		if p.Kind == KindScreenFloor {
			e.floor = p
		}
	}
	// Highest surface first: when platforms overlap horizontally the topmost
	// valid one wins the landing.
	sort.Slice(e.surfaces, func(i, j int) bool {
		return e.surfaces[i].Y > e.surfaces[j].Y
	})
}

// mapRect maps the four corners of a screen-space rectangle and returns the
// world-space bounding box
func mapRect(mapper CoordinateMapper, x, y, w, h float64) (minX, minY, maxX, maxY float64) {
	x0, y0 := mapper(x, y)
	x1, y1 := mapper(x+w, y)
	x2, y2 := mapper(x, y+h)
	x3, y3 := mapper(x+w, y+h)
	minX = math.Min(math.Min(x0, x1), math.Min(x2, x3))
	maxX = math.Max(math.Max(x0, x1), math.Max(x2, x3))
	minY = math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxY = math.Max(math.Max(y0, y1), math.Max(y2, y3))
	return minX, minY, maxX, maxY
}
