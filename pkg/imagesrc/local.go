package imagesrc

import (
	"context"
	"encoding/base64"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/photostrip/pkg/errors"
)

// DataURI decodes base64 data URIs.
type DataURI struct{}

// Resolve implements Resolver.
func (DataURI) Resolve(_ context.Context, ref string) (image.Image, error) {
	data, err := ParseDataURI(ref)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// ParseDataURI returns the payload bytes of a data URI.
func ParseDataURI(ref string) ([]byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return nil, errors.New(errors.ErrCodeImageSource, "not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New(errors.ErrCodeImageSource, "malformed data URI")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeImageSource, err, "decode data URI")
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageSource, err, "decode data URI")
	}
	return []byte(s), nil
}

// EncodeDataURI builds a base64 data URI.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Dir reads images from files below Root. References may carry a "file:"
// prefix. Paths must be relative and may not escape Root.
type Dir struct {
	Root string
}

// Resolve implements Resolver.
func (d Dir) Resolve(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel := filepath.ToSlash(strings.TrimPrefix(ref, "file:"))
	if err := errors.ValidatePath(rel); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "image %s", rel)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageSource, err, "read image %s", rel)
	}
	return Decode(data)
}

// MemoryScheme prefixes references to in-process images.
const MemoryScheme = "mem:"

// Memory holds images registered in process, such as uploads.
type Memory struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewMemory creates an empty registry.
func NewMemory() *Memory {
	return &Memory{images: make(map[string]image.Image)}
}

// Put registers img under name and returns its reference.
func (m *Memory) Put(name string, img image.Image) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[name] = img
	return MemoryScheme + name
}

// Resolve implements Resolver.
func (m *Memory) Resolve(_ context.Context, ref string) (image.Image, error) {
	name := strings.TrimPrefix(ref, MemoryScheme)
	m.mu.RLock()
	img, ok := m.images[name]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "image %s not registered", name)
	}
	return img, nil
}
