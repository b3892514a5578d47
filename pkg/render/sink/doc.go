// Package sink encodes rasterized strips into output files.
//
// # Formats
//
//   - [RenderPNG]: lossless PNG
//   - [RenderJPEG]: JPEG, quality 92 unless overridden
//   - [RenderPDF]: a print sheet with several copies side by side
//
// Each encoder takes an [image.Image] produced by render.Raster and
// returns the encoded bytes. Encoders are pure functions and safe for
// concurrent use.
//
// # Print Sheet
//
// The PDF places [DefaultCopies] copies of the strip on one custom-sized
// page. Each copy is [StripWidthMM] wide with its height following the
// strip's aspect ratio, separated and surrounded by [MarginMM].
package sink
