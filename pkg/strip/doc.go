// Package strip defines the data model of a photo strip composition.
//
// A strip is a fixed-width canvas ([CanvasWidth] units) holding:
//
//   - [Slot] values: rectangular placeholders that receive one photo each
//   - [Element] values: free-floating text or sticker overlays
//   - a [Background] with exactly one active mode
//   - [Params]: padding, gap, corner radius and canvas height
//
// All geometry is in canvas space. The package has no behavior beyond
// validation and deep copying; mutation rules live in the layout package.
//
// # Template Records
//
// [Record] is the persisted form of a composition. It round-trips through
// JSON unchanged and is what template stores save and load.
package strip
