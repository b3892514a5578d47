package imagesrc

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/photostrip/pkg/buildinfo"
	"github.com/matzehuels/photostrip/pkg/cache"
	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/observability"
)

// MaxRemoteBytes caps a single remote image download.
const MaxRemoteBytes = 32 << 20

// HTTP fetches remote images. Server errors and transport failures are
// retried with backoff; downloaded bytes are kept in Cache.
type HTTP struct {
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Delay  time.Duration // initial retry delay
}

// NewHTTP creates a fetcher backed by c. A nil cache disables caching.
func NewHTTP(c cache.Cache) *HTTP {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &HTTP{
		Client: &http.Client{Timeout: 30 * time.Second},
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		TTL:    cache.TTLImage,
		Delay:  time.Second,
	}
}

// Resolve implements Resolver.
func (h *HTTP) Resolve(ctx context.Context, ref string) (image.Image, error) {
	if err := errors.ValidateURL(ref); err != nil {
		return nil, err
	}
	key := h.Keyer.ImageKey(ref)
	if data, hit, err := h.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "image")
		return Decode(data)
	}
	observability.Cache().OnCacheMiss(ctx, "image")

	var data []byte
	err := cache.Retry(ctx, 3, h.Delay, func() error {
		var err error
		data, err = h.fetch(ctx, ref)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageSource, err, "fetch %s", ref)
	}

	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := h.Cache.Set(ctx, key, data, h.TTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "image", len(data))
	}
	return img, nil
}

func (h *HTTP) fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("Accept", "image/*")

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := h.Client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, cache.Retryable(fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxRemoteBytes+1))
	if err != nil {
		return nil, cache.Retryable(err)
	}
	if len(data) > MaxRemoteBytes {
		return nil, fmt.Errorf("image larger than %d bytes", MaxRemoteBytes)
	}
	return data, nil
}
