package sink

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"

	"github.com/matzehuels/photostrip/pkg/errors"
)

// DefaultQuality is the JPEG quality used for downloads.
const DefaultQuality = 92

// JPEGOption configures JPEG encoding.
type JPEGOption func(*jpegRenderer)

type jpegRenderer struct {
	quality int
}

// WithQuality sets the JPEG quality (1-100). Out-of-range values are ignored.
func WithQuality(q int) JPEGOption {
	return func(r *jpegRenderer) {
		if q >= 1 && q <= 100 {
			r.quality = q
		}
	}
}

// RenderJPEG encodes img as JPEG. Transparent areas are flattened onto white.
func RenderJPEG(img image.Image, opts ...JPEGOption) ([]byte, error) {
	r := jpegRenderer{quality: DefaultQuality}
	for _, opt := range opts {
		opt(&r)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode jpeg")
	}
	return buf.Bytes(), nil
}

func flatten(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.White, image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
