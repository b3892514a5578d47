// Package layout holds the canonical slots, elements and composition
// parameters of a strip and the mutations allowed on them.
//
// # Error Policy
//
// Mutations addressed by slot index or element id are no-ops when the
// target does not exist; they report success with a bool rather than an
// error, since stale selections are expected and harmless.
//
// # Flat and Template Modes
//
// When the background is a template image the stored slots define the
// layout. Otherwise the store computes [Store.EffectiveSlots] from the
// photo count (1-4): full-width 3:2 frames stacked from the top padding.
//
// A Store is not safe for concurrent use; the editor package serializes
// access to it.
package layout
