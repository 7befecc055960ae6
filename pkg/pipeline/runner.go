package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/syednoorhussain2025/articleflow/pkg/cache"
	"github.com/syednoorhussain2025/articleflow/pkg/flow"
	"github.com/syednoorhussain2025/articleflow/pkg/snapshot"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and preview server can use this to avoid duplicating caching
// logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// Execute runs the complete layout → snapshot pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID: uuid.NewString(),
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	inst, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = inst
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.BlockCount = len(inst.Flow)
	result.Stats.TextChars = len(opts.Text)
	result.CacheInfo.LayoutHit = layoutHit

	// Compute layout hash for cache keys and API responses
	if layoutData, err := flow.Marshal(inst); err == nil {
		result.LayoutHash = cache.Hash(layoutData)
	}

	r.Logger.Info("computed layout",
		"run", result.RunID,
		"breakpoint", opts.Breakpoint,
		"blocks", result.Stats.BlockCount,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Snapshot
	snapshotStart := time.Now()
	html, snapshotHit, err := r.RenderSnapshotWithCacheInfo(ctx, inst, opts)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	result.Snapshot = html
	result.Stats.SnapshotTime = time.Since(snapshotStart)
	result.CacheInfo.SnapshotHit = snapshotHit

	r.Logger.Info("rendered snapshot",
		"run", result.RunID,
		"bytes", len(html),
		"duration", result.Stats.SnapshotTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, opts Options) (flow.Instance, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return flow.Instance{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the full engine input. The measurer key is
	// included so runs with different oracles cache separately.
	in := opts.EngineInput()
	inputData, err := flow.MarshalInput(in)
	if err != nil {
		return flow.Instance{}, false, fmt.Errorf("serialize input for cache key: %w", err)
	}
	inputHash := cache.Hash(append(inputData, []byte(opts.MeasurerKey)...))
	cacheKey := r.Keyer.LayoutKey(inputHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := flow.Unmarshal(data)
			if err == nil {
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}

	// Compute layout
	inst := flow.Compute(in, opts.Measurer)

	// Cache the result
	if data, err := flow.Marshal(inst); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return inst, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls
// ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, opts Options) (flow.Instance, error) {
	inst, _, err := r.ComputeLayoutWithCacheInfo(ctx, opts)
	return inst, err
}

// RenderSnapshotWithCacheInfo renders a snapshot with caching and returns
// cache hit info.
func (r *Runner) RenderSnapshotWithCacheInfo(ctx context.Context, inst flow.Instance, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the layout artifact
	layoutData, err := flow.Marshal(inst)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	cacheKey := r.Keyer.SnapshotKey(layoutHash, opts.SnapshotKeyOpts())

	// Try cache first
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			return data, true, nil // Cache hit
		}
	}

	// Render
	html, err := snapshot.Render(inst, opts.Text, opts.Images, r.renderOptions(opts)...)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	_ = r.Cache.Set(ctx, cacheKey, html, cache.TTLSnapshot)

	return html, false, nil // Cache miss
}

// RenderSnapshot is a convenience wrapper that calls
// RenderSnapshotWithCacheInfo and discards the cache hit info.
func (r *Runner) RenderSnapshot(ctx context.Context, inst flow.Instance, opts Options) ([]byte, error) {
	html, _, err := r.RenderSnapshotWithCacheInfo(ctx, inst, opts)
	return html, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// renderOptions translates pipeline options into snapshot render options.
func (r *Runner) renderOptions(opts Options) []snapshot.Option {
	var out []snapshot.Option
	if opts.Catalog != nil {
		out = append(out, snapshot.WithCatalog(opts.Catalog))
	}
	if opts.Resolve != nil {
		out = append(out, snapshot.WithURLResolver(opts.Resolve))
	}
	if opts.Document {
		out = append(out, snapshot.WithDocument(opts.Title))
	}
	return out
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
