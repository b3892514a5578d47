// Package imagesrc resolves opaque image references into decoded bitmaps.
//
// References are strings. The [Mux] resolver dispatches on their scheme:
//
//	data:image/png;base64,...   inline bytes ([DataURI])
//	http://, https://           remote fetch with retry and caching ([HTTP])
//	mem:<name>                  images registered in process ([Memory])
//	file:<path> or a bare path  files under a root directory ([Dir])
//
// Every decoder applies EXIF orientation, so phone photos render upright.
// PNG, JPEG, GIF, WebP and BMP are supported.
package imagesrc

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/geometry"
)

// Resolver turns a reference into an image.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (image.Image, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, ref string) (image.Image, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, ref string) (image.Image, error) {
	return f(ctx, ref)
}

// Size resolves ref and returns its intrinsic dimensions.
func Size(ctx context.Context, r Resolver, ref string) (geometry.Size, error) {
	img, err := r.Resolve(ctx, ref)
	if err != nil {
		return geometry.Size{}, err
	}
	b := img.Bounds()
	return geometry.Size{W: float64(b.Dx()), H: float64(b.Dy())}, nil
}

// Decode decodes encoded image bytes, applying EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageSource, err, "decode image")
	}
	return img, nil
}

// Digest fingerprints the decoded pixels of img, independent of how it was
// encoded or where it came from.
func Digest(img image.Image) string {
	n, ok := img.(*image.NRGBA)
	if !ok || n.Stride != 4*n.Rect.Dx() {
		n = imaging.Clone(img)
	}
	h := sha256.New()
	fmt.Fprintf(h, "%dx%d:", n.Rect.Dx(), n.Rect.Dy())
	h.Write(n.Pix[:4*n.Rect.Dx()*n.Rect.Dy()])
	return hex.EncodeToString(h.Sum(nil))
}

// =============================================================================
// Mux
// =============================================================================

// Mux dispatches references by scheme. Nil fields disable that scheme.
type Mux struct {
	Data   Resolver
	HTTP   Resolver
	Memory Resolver
	File   Resolver
}

// NewMux builds a Mux with inline data, in-memory images, files under
// root and, when remote is non-nil, HTTP fetching.
func NewMux(root string, mem *Memory, remote *HTTP) *Mux {
	m := &Mux{Data: DataURI{}, File: Dir{Root: root}}
	if mem != nil {
		m.Memory = mem
	}
	if remote != nil {
		m.HTTP = remote
	}
	return m
}

// Resolve implements Resolver.
func (m *Mux) Resolve(ctx context.Context, ref string) (image.Image, error) {
	var r Resolver
	switch {
	case ref == "":
		return nil, errors.New(errors.ErrCodeImageSource, "empty image reference")
	case strings.HasPrefix(ref, "data:"):
		r = m.Data
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		r = m.HTTP
	case strings.HasPrefix(ref, MemoryScheme):
		r = m.Memory
	default:
		r = m.File
	}
	if r == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no resolver for %s", truncate(ref))
	}
	return r.Resolve(ctx, ref)
}

func truncate(ref string) string {
	if len(ref) > 48 {
		return ref[:48] + "..."
	}
	return ref
}

// =============================================================================
// Memo
// =============================================================================

// Memo caches decoded images per reference. One Memo is used per export so
// a photo that appears in several places is decoded once.
type Memo struct {
	inner Resolver
	mu    sync.Mutex
	seen  map[string]image.Image
}

// NewMemo wraps inner.
func NewMemo(inner Resolver) *Memo {
	return &Memo{inner: inner, seen: make(map[string]image.Image)}
}

// Resolve implements Resolver.
func (m *Memo) Resolve(ctx context.Context, ref string) (image.Image, error) {
	m.mu.Lock()
	img, ok := m.seen[ref]
	m.mu.Unlock()
	if ok {
		return img, nil
	}
	img, err := m.inner.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.seen[ref] = img
	m.mu.Unlock()
	return img, nil
}
