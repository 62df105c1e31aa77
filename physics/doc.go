// Package physics implements the window-as-platform 2D simulation behind the
// desktop pet: the rectangles of other on-screen application windows, the OS
// taskbar and the screen edges are treated as platforms and walls that a
// single falling/walking body collides against.
//
// The level geometry is not authored. It is rebuilt continuously from live
// window rectangles supplied by the host (RebuildPlatforms, ~10 Hz) at a
// different cadence than the physics tick (Step, ~60 Hz), and platform
// identity is recovered across rebuilds by deterministic string ids so the
// body survives its support moving or resizing mid-simulation.
//
// The engine is single-threaded and frame-driven: the caller owns the tick
// queue and guarantees a due rebuild completes before the step that depends
// on it. There is no internal locking; snapshots returned by queries must be
// treated as read-only.
package physics
