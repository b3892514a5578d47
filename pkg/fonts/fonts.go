// Package fonts provides the embedded typefaces used for text elements.
//
// The faces come from the Go font family (golang.org/x/image/font/gofont),
// so rendering has no dependency on system fonts and produces identical
// output on every machine.
package fonts

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
)

// Family names accepted by Face. Anything else falls back to Sans.
const (
	Sans      = "sans"
	Mono      = "mono"
	SmallCaps = "smallcaps"
	Italic    = "italic"
)

// Families lists the supported families.
var Families = []string{Sans, Mono, SmallCaps, Italic}

// BoldWeight is the lowest weight that selects a bold face.
const BoldWeight = 600

type variant struct {
	family string
	bold   bool
}

var sources = map[variant][]byte{
	{Sans, false}:      goregular.TTF,
	{Sans, true}:       gobold.TTF,
	{Mono, false}:      gomono.TTF,
	{Mono, true}:       gomonobold.TTF,
	{SmallCaps, false}: gosmallcaps.TTF,
	{SmallCaps, true}:  gosmallcaps.TTF,
	{Italic, false}:    goitalic.TTF,
	{Italic, true}:     gobolditalic.TTF,
}

var (
	mu     sync.Mutex
	parsed = map[variant]*opentype.Font{}
	faces  = map[faceKey]font.Face{}
)

type faceKey struct {
	variant
	size float64
}

// Normalize maps a family name to a supported family. A "font-" prefix,
// as used by CSS utility classes, is ignored.
func Normalize(family string) string {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(family), "font-"))
	switch f {
	case Mono, "monospace", "code":
		return Mono
	case SmallCaps, "small-caps", "caps":
		return SmallCaps
	case Italic, "script", "serif-italic":
		return Italic
	}
	return Sans
}

// Face returns a face for family at size pixels. Faces are cached and
// shared; font.Face is not safe for concurrent use, so callers that draw
// from several goroutines should hold Lock.
func Face(family string, weight int, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}
	v := variant{family: Normalize(family), bold: weight >= BoldWeight}
	key := faceKey{variant: v, size: size}

	mu.Lock()
	defer mu.Unlock()
	if f, ok := faces[key]; ok {
		return f, nil
	}
	ft, ok := parsed[v]
	if !ok {
		var err error
		ft, err = opentype.Parse(sources[v])
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", v.family, err)
		}
		parsed[v] = ft
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("create %s face: %w", v.family, err)
	}
	faces[key] = face
	return face, nil
}

var drawMu sync.Mutex

// Lock serializes glyph drawing across goroutines sharing cached faces.
func Lock() func() {
	drawMu.Lock()
	return drawMu.Unlock
}
