// Package render rasterizes a strip composition.
//
// # Overview
//
// A [Scene] is an immutable snapshot of everything that appears on the
// strip: background, slot geometry with the photo assigned to each slot,
// and overlay elements. [Raster] draws a scene into an image using
// fogleman/gg, in this order:
//
//  1. Background (solid color, or a cover-fitted image or template)
//  2. Slots (cover-fitted photos clipped to the corner radius, or a
//     translucent placeholder)
//  3. Elements (stickers and text, rotated about their center)
//
// # Resolution
//
// Output pixels per canvas unit are Scale * Oversample. Exports always use
// Scale 1, so the exported size depends only on the canvas height and the
// oversampling factor (3 by default), never on the preview zoom. Previews
// pass the current view scale and usually an oversample of 1.
//
// # Output Formats
//
// Encoders live in the [sink] subpackage: PNG, JPEG and a print PDF with
// three copies side by side.
//
// [sink]: github.com/matzehuels/photostrip/pkg/render/sink
package render
