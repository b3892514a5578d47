package pipeline

import (
	"context"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photostrip/pkg/cache"
	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/observability"
	"github.com/matzehuels/photostrip/pkg/render"
)

// Runner encapsulates export execution with caching.
// Both CLI and API use it so cached artifacts are shared.
//
// The Runner holds no per-export state. Multiple goroutines can safely
// use the same Runner with different scenes.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Export renders the scene in every requested format. The scene must be a
// snapshot; Export never mutates it.
func (r *Runner) Export(ctx context.Context, scene *render.Scene, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// Artifacts are keyed by image content, not by reference, so the images
	// are resolved up front and shared with the render.
	src := opts.Resolver
	if src == nil {
		src = imagesrc.NewMux(".", nil, nil)
	}
	resolver := imagesrc.NewMemo(src)
	hash, err := scene.ContentHash(ctx, resolver)
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
	}
	w, h := scene.PixelSize(1, opts.Oversample)
	result := &Result{
		SceneHash: hash,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		Width:     w,
		Height:    h,
	}

	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, key)
				result.Artifacts[format] = data
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, key)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		result.CacheHit = true
		opts.Logger.Debug("export served from cache", "formats", opts.Formats, "scene", hash[:12])
		return result, nil
	}

	start := time.Now()
	img, err := render.Raster(ctx, scene,
		render.WithOversample(opts.Oversample),
		render.WithResolver(resolver))
	if err != nil {
		return nil, err
	}

	for _, format := range missing {
		data, err := r.encode(ctx, format, img, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = data
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, key, len(data))
		}
	}
	result.RenderTime = time.Since(start)

	opts.Logger.Info("exported strip",
		"formats", missing,
		"size", [2]int{w, h},
		"duration", result.RenderTime)
	return result, nil
}

func (r *Runner) encode(ctx context.Context, format string, img image.Image, opts Options) (data []byte, err error) {
	b := img.Bounds()
	observability.Render().OnRenderStart(ctx, format, b.Dx(), b.Dy())
	start := time.Now()
	defer func() {
		observability.Render().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	}()
	return Encode(format, img, opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
