package render

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/strip"
)

const (
	// DefaultOversample is the export sharpness factor.
	DefaultOversample = 3

	// MaxOversample bounds the sharpness factor accepted for exports.
	MaxOversample = 8

	// MaxPixels bounds the size of one raster.
	MaxPixels = 64 << 20
)

var (
	placeholderFill  = color.NRGBA{R: 255, G: 255, B: 255, A: 38}
	placeholderLabel = color.NRGBA{R: 255, G: 255, B: 255, A: 140}
	selectionRing    = color.NRGBA{R: 244, G: 63, B: 94, A: 255}
)

// Option configures rasterization.
type Option func(*options)

type options struct {
	scale      float64
	oversample float64
	resolver   imagesrc.Resolver
	preview    bool
}

// WithScale sets the view scale. Exports use 1.
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithOversample sets the oversampling factor.
func WithOversample(f float64) Option {
	return func(o *options) {
		if f > 0 {
			o.oversample = f
		}
	}
}

// WithResolver sets the image resolver for photos, stickers and backgrounds.
func WithResolver(r imagesrc.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithPreview draws slot numbers and the selection ring.
func WithPreview() Option {
	return func(o *options) { o.preview = true }
}

// Raster draws the scene. Any image that fails to resolve aborts the render.
func Raster(ctx context.Context, s *Scene, opts ...Option) (image.Image, error) {
	o := options{scale: 1, oversample: DefaultOversample}
	for _, opt := range opts {
		opt(&o)
	}
	if !(s.Height > 0) {
		return nil, errors.New(errors.ErrCodeRenderFailed, "canvas height must be positive")
	}
	if k := o.scale * o.oversample; !(k > 0) || math.IsInf(k, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid raster scale %v", k)
	}
	if w, h := s.PixelSize(o.scale, o.oversample); float64(w)*float64(h) > MaxPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "raster of %dx%d exceeds %d pixels", w, h, MaxPixels)
	}
	if o.resolver == nil {
		o.resolver = imagesrc.NewMux(".", nil, nil)
	}
	r := &rasterizer{
		scene:    s,
		k:        o.scale * o.oversample,
		resolver: imagesrc.NewMemo(o.resolver),
		preview:  o.preview,
	}
	w, h := s.PixelSize(o.scale, o.oversample)
	r.dc = gg.NewContext(w, h)

	steps := []func(context.Context) error{r.background, r.slots, r.elements}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step(ctx); err != nil {
			return nil, err
		}
	}
	return r.dc.Image(), nil
}

type rasterizer struct {
	scene    *Scene
	dc       *gg.Context
	k        float64
	resolver imagesrc.Resolver
	preview  bool
}

func (r *rasterizer) resolve(ctx context.Context, ref, what string) (image.Image, error) {
	img, err := r.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "load %s", what)
	}
	return img, nil
}

func (r *rasterizer) background(ctx context.Context) error {
	bg := r.scene.Background
	switch bg.Mode {
	case strip.BackgroundImage, strip.BackgroundTemplate:
		if bg.Value != "" {
			img, err := r.resolve(ctx, bg.Value, string(bg.Mode)+" background")
			if err != nil {
				return err
			}
			w, h := r.dc.Width(), r.dc.Height()
			r.dc.DrawImage(imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos), 0, 0)
			return nil
		}
	}

	value := bg.Value
	if bg.Mode != strip.BackgroundColor || value == "" {
		value = r.scene.Design.Background
	}
	c, err := strip.ParseColor(value)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "background color")
	}
	r.dc.SetColor(c)
	r.dc.Clear()
	return nil
}

func (r *rasterizer) slots(ctx context.Context) error {
	k := r.k
	radius := r.scene.Radius * k
	for i, sl := range r.scene.Slots {
		x, y := sl.X*k, sl.Y*k
		w, h := px(sl.W*k), px(sl.H*k)

		if ref := r.scene.Photo(i); ref != "" {
			img, err := r.resolve(ctx, ref, "photo")
			if err != nil {
				return err
			}
			fill := imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
			if radius > 0 {
				r.dc.DrawRoundedRectangle(x, y, float64(w), float64(h), radius)
				r.dc.Clip()
				r.dc.DrawImage(fill, int(math.Round(x)), int(math.Round(y)))
				r.dc.ResetClip()
			} else {
				r.dc.DrawImage(fill, int(math.Round(x)), int(math.Round(y)))
			}
		} else {
			r.dc.SetColor(placeholderFill)
			r.dc.DrawRoundedRectangle(x, y, float64(w), float64(h), radius)
			r.dc.Fill()
			if r.preview {
				if err := r.slotLabel(i+1, x+float64(w)/2, y+float64(h)/2); err != nil {
					return err
				}
			}
		}

		if r.preview && r.scene.SelectedSlot == i {
			r.dc.SetColor(selectionRing)
			r.dc.SetLineWidth(math.Max(1, 2*k))
			r.dc.DrawRoundedRectangle(x, y, float64(w), float64(h), radius)
			r.dc.Stroke()
		}
	}
	return nil
}

func (r *rasterizer) elements(ctx context.Context) error {
	for _, e := range r.scene.Elements {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch e.Kind {
		case strip.KindImage:
			err = r.sticker(ctx, e)
		case strip.KindText:
			err = r.text(e)
		default:
			err = errors.New(errors.ErrCodeRenderFailed, "unknown element kind %q", e.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *rasterizer) sticker(ctx context.Context, e strip.Element) error {
	img, err := r.resolve(ctx, e.Image.Src, "sticker")
	if err != nil {
		return err
	}
	k := r.k
	w, h := px(e.Image.Width*k), px(e.Image.Height()*k)
	scaled := imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
	x, y := e.X*k, e.Y*k

	r.dc.Push()
	defer r.dc.Pop()
	r.rotateAbout(e.Rotation, x+float64(w)/2, y+float64(h)/2)
	r.dc.DrawImage(scaled, int(math.Round(x)), int(math.Round(y)))
	r.selection(e, x, y, float64(w), float64(h))
	return nil
}

func (r *rasterizer) rotateAbout(deg, cx, cy float64) {
	if deg != 0 {
		r.dc.RotateAbout(gg.Radians(deg), cx, cy)
	}
}

func (r *rasterizer) selection(e strip.Element, x, y, w, h float64) {
	if !r.preview || r.scene.SelectedElement != e.ID {
		return
	}
	r.dc.SetColor(selectionRing)
	r.dc.SetLineWidth(math.Max(1, r.k))
	r.dc.DrawRectangle(x-2, y-2, w+4, h+4)
	r.dc.Stroke()
}
