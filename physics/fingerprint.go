package physics

import (
	"math"
	"math/bits"

	"github.com/lixenwraith/desk-pet/constants"
)

// GeometryFingerprint hashes every input that affects platform geometry into
// a 32-bit value used to skip redundant rebuilds. Window rectangles are
// quantized to a coarse grid first so sub-pixel jitter from compositors does
// not thrash rebuilds.
//
// The mapper is sampled at the screen origin and a quantized copy of the
// sample is folded in: a zoom or camera change alters what a given screen
// pixel means in world space even when no window moved, and must still force
// a rebuild.
func GeometryFingerprint(windows []Window, screen Screen, taskbarPx float64, mapper CoordinateMapper) uint32 {
	h := uint32(0x811c9dc5)
	h = fpMix(h, uint32(int32(screen.Width)))
	h = fpMix(h, uint32(int32(screen.Height)))
	h = fpMix(h, fpQuantPx(taskbarPx))
	h = fpMix(h, uint32(len(windows)))
	for _, w := range windows {
		h = fpMix(h, uint32(int32(w.ID)))
		h = fpMix(h, fpQuantPx(w.X))
		h = fpMix(h, fpQuantPx(w.Y))
		h = fpMix(h, fpQuantPx(w.Width))
		h = fpMix(h, fpQuantPx(w.Height))
	}
	if mapper != nil {
		wx, wy := mapper(0, 0)
		h = fpMix(h, fpQuantWorld(wx))
		h = fpMix(h, fpQuantWorld(wy))
	}
	return h
}

func fpMix(h, v uint32) uint32 {
	h ^= v
	return bits.RotateLeft32(h, 5) + 0x9e3779b9
}

func fpQuantPx(v float64) uint32 {
	return uint32(int32(math.Round(v / constants.FingerprintGridPx)))
}

func fpQuantWorld(v float64) uint32 {
	return uint32(int32(math.Round(v / constants.FingerprintWorldQuantum)))
}
