package render

import (
	"context"

	"github.com/matzehuels/photostrip/pkg/cache"
	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/strip"
)

// Scene is everything needed to draw one strip. Build it with a deep copy
// of the editor state; the renderer never reads live references.
type Scene struct {
	Height     float64          `json:"height"`
	Background strip.Background `json:"background"`
	Design     strip.Design     `json:"design"`
	Radius     float64          `json:"radius"`
	Slots      []strip.Slot     `json:"slots"`
	Photos     []string         `json:"photos"` // by slot index; "" leaves the slot empty
	Elements   []strip.Element  `json:"elements"`

	// Preview-only decorations. They are excluded from export hashes.
	SelectedSlot    int    `json:"-"`
	SelectedElement string `json:"-"`
}

// Width is the fixed canvas width.
func (s *Scene) Width() float64 { return strip.CanvasWidth }

// Photo returns the photo reference for slot index i.
func (s *Scene) Photo(i int) string {
	if i < 0 || i >= len(s.Photos) {
		return ""
	}
	return s.Photos[i]
}

// Clone returns a deep copy of s.
func (s *Scene) Clone() *Scene {
	out := *s
	out.Slots = strip.CloneSlots(s.Slots)
	out.Elements = strip.CloneElements(s.Elements)
	out.Photos = append([]string(nil), s.Photos...)
	return &out
}

// Hash identifies the scene description. Image references are hashed by
// name only; use [Scene.ContentHash] for cache keys.
func (s *Scene) Hash() (string, error) {
	return cache.HashJSON(s)
}

// Refs lists the distinct image references the scene draws, in draw order.
func (s *Scene) Refs() []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(ref string) {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	switch s.Background.Mode {
	case strip.BackgroundImage, strip.BackgroundTemplate:
		add(s.Background.Value)
	}
	for i := range s.Slots {
		add(s.Photo(i))
	}
	for _, e := range s.Elements {
		if e.Kind == strip.KindImage && e.Image != nil {
			add(e.Image.Src)
		}
	}
	return refs
}

// ContentHash identifies the exported appearance of the scene: the scene
// description plus the decoded pixels of every referenced image. A file
// rewritten under the same name yields a different hash. Pass an
// [imagesrc.Memo] to share the decoded images with the render.
func (s *Scene) ContentHash(ctx context.Context, resolver imagesrc.Resolver) (string, error) {
	h, err := s.Hash()
	if err != nil {
		return "", err
	}
	if resolver == nil {
		resolver = imagesrc.NewMux(".", nil, nil)
	}
	parts := []string{h}
	for _, ref := range s.Refs() {
		img, err := resolver.Resolve(ctx, ref)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeRenderFailed, err, "load image")
		}
		parts = append(parts, ref, imagesrc.Digest(img))
	}
	return cache.HashJSON(parts)
}

// PixelSize returns the output dimensions at the given scale and oversample.
func (s *Scene) PixelSize(scale, oversample float64) (int, int) {
	k := scale * oversample
	return px(s.Width() * k), px(s.Height * k)
}

func px(v float64) int {
	n := int(v + 0.5)
	if n < 1 {
		return 1
	}
	return n
}
