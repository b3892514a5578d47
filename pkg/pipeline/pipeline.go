// Package pipeline turns a strip scene into downloadable artifacts.
//
// The pipeline consists of two stages:
//
//  1. Raster: draw the scene at export resolution (render.Raster)
//  2. Encode: produce PNG, JPEG or print PDF bytes (render/sink)
//
// Both CLI and API go through a [Runner], which caches encoded artifacts
// keyed by the scene content (including image pixels) and encoder settings.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Export(ctx, scene, pipeline.Options{
//	    Formats:  []string{"png", "pdf"},
//	    Resolver: resolver,
//	})
//	png := res.Artifacts["png"]
package pipeline

import (
	"image"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photostrip/pkg/cache"
	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/render"
	"github.com/matzehuels/photostrip/pkg/render/sink"
)

// =============================================================================
// Default Values
// =============================================================================

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatPDF:  true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures an export.
type Options struct {
	Formats    []string `json:"formats,omitempty"`
	Quality    int      `json:"quality,omitempty"`
	Oversample float64  `json:"oversample,omitempty"`
	Copies     int      `json:"copies,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger       `json:"-"`
	Resolver imagesrc.Resolver `json:"-"`
}

// Result contains the outputs of an export.
type Result struct {
	// SceneHash is the content hash of the exported scene.
	SceneHash string

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	Width, Height int

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool

	RenderTime time.Duration
}

// NormalizeFormat maps aliases such as "jpg" to their canonical name.
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "jpg" {
		return FormatJPEG
	}
	return f
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, jpeg, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills zero values and normalizes format names.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	for i, f := range o.Formats {
		o.Formats[i] = NormalizeFormat(f)
	}
	if o.Quality == 0 {
		o.Quality = sink.DefaultQuality
	}
	if o.Oversample <= 0 {
		o.Oversample = render.DefaultOversample
	}
	if o.Copies <= 0 {
		o.Copies = sink.DefaultCopies
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks the formats and numeric bounds.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if !(o.Oversample <= render.MaxOversample) {
		return errors.New(errors.ErrCodeInvalidInput, "oversample %v exceeds %d", o.Oversample, render.MaxOversample)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "quality %d outside 1-100", o.Quality)
	}
	if o.Copies > sink.MaxCopies {
		return errors.New(errors.ErrCodeInvalidInput, "copies %d exceeds %d", o.Copies, sink.MaxCopies)
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one format. Settings that
// do not affect a format are left zero so they do not split the cache.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Oversample: o.Oversample}
	switch format {
	case FormatJPEG:
		k.Quality = o.Quality
	case FormatPDF:
		k.Copies = o.Copies
	}
	return k
}

// Encode produces one format from a rastered image.
func Encode(format string, img image.Image, o Options) ([]byte, error) {
	switch format {
	case FormatPNG:
		return sink.RenderPNG(img)
	case FormatJPEG:
		return sink.RenderJPEG(img, sink.WithQuality(o.Quality))
	case FormatPDF:
		return sink.RenderPDF(img, sink.WithCopies(o.Copies))
	}
	return nil, ValidateFormat(format)
}
