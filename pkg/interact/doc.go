// Package interact implements the pointer and keyboard state machine that
// turns drag, resize and pan gestures into layout mutations.
//
// # States
//
//	Idle ──press slot──────────▶ MovingSlot ────┐
//	     ──press handle────────▶ ResizingSlot ──┤
//	     ──press element───────▶ MovingElement ─┼──release──▶ Idle
//	     ──secondary press─────▶ Panning ───────┤
//	     ──press locked slot───▶ Pressing ──────┘
//
// At most one session exists, and a new one can only start from Idle.
//
// # Geometry
//
// Every pointer move recomputes the target from the geometry captured at
// press time plus the total pointer delta, divided by the view scale that
// was active at press time. Moves are never applied incrementally, so a
// drag by A then B lands exactly where a single drag by A+B would.
// Panning works in screen units and ignores the scale.
//
// # Drag Threshold
//
// Slot and element sessions stay inert until the pointer has travelled
// [DefaultDragThreshold] screen pixels. On a locked slot the same threshold
// separates a click (which asks for a retake) from an aborted drag.
package interact
