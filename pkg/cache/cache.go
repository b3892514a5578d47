// Package cache provides byte caches for fetched images and rendered exports.
//
// Two kinds of data are cached:
//
//   - Remote image bytes, keyed by their reference ([Keyer.ImageKey])
//   - Export artifacts, keyed by a hash of the rendered scene and the
//     encoder options ([Keyer.ArtifactKey])
//
// Backends: [FileCache] for the CLI, [RedisCache] for the HTTP server,
// [MemoryCache] for tests and short-lived processes, and [NullCache] to
// disable caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the cached bytes and whether they were present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default expiries.
const (
	TTLImage    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// ArtifactKeyOpts are the encoder settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Quality    int     `json:"quality,omitempty"`
	Oversample float64 `json:"oversample"`
	Copies     int     `json:"copies,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	ImageKey(ref string) string
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the unscoped Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ImageKey hashes the reference so data URIs do not become huge keys.
func (DefaultKeyer) ImageKey(ref string) string {
	return "image:" + Hash([]byte(ref))
}

// ArtifactKey combines the scene hash with the encoder options.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
