// Package cache provides the artifact cache for the articleflow pipeline.
//
// # Overview
//
// Computing a layout is cheap; measuring text against font metrics and
// regenerating snapshots for every breakpoint on every request is not. The
// pipeline caches two artifact kinds:
//
//   - layout instances, keyed by the full engine input (template, catalog,
//     text, breakpoint)
//   - rendered snapshots, keyed by the layout artifact plus render options
//
// Keys are SHA-256 hashes of the canonical JSON of their inputs, so any
// input change invalidates naturally and identical inputs collide on
// purpose.
//
// # Backends
//
//   - [FileCache]: per-user directory cache for CLI runs
//   - [RedisCache]: shared cache for preview/server deployments
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// TTLs per artifact kind. Layouts are invalidated by key whenever inputs
// change, so the TTLs exist only to bound disk/Redis growth.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLSnapshot = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A non-positive TTL stores forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SnapshotKeyOpts are the render options that participate in snapshot keys.
type SnapshotKeyOpts struct {
	Document bool   `json:"document"`
	Title    string `json:"title,omitempty"`
}

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey keys a layout instance by the hash of the engine input.
	LayoutKey(inputHash string) string

	// SnapshotKey keys a rendered snapshot by the hash of the layout
	// artifact plus the render options.
	SnapshotKey(layoutHash string, opts SnapshotKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(inputHash string) string {
	return hashKey("layout", inputHash)
}

// SnapshotKey implements Keyer.
func (DefaultKeyer) SnapshotKey(layoutHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g.
// the CLI prefixes keys in a shared Redis with the application name.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(inputHash string) string {
	return k.prefix + k.inner.LayoutKey(inputHash)
}

// SnapshotKey implements Keyer.
func (k *ScopedKeyer) SnapshotKey(layoutHash string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(layoutHash, opts)
}
