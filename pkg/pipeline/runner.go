package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/apecglobal/logofield/pkg/cache"
	"github.com/apecglobal/logofield/pkg/integrations"
	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/observability"
	"github.com/apecglobal/logofield/pkg/storage"
)

// Runner encapsulates pipeline execution with caching and pinned layouts.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for its cache, store and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  storage.Store // nil disables pinned layouts
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and store.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, store storage.Store, logger *log.Logger) *Runner {
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
		Store:  store,
		Logger: logger,
	}
}

// Execute runs the complete fetch → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Fetch
	fetchStart := time.Now()
	entities, fetchHit, err := r.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Entities = entities
	result.Stats.EntityCount = len(entities)
	result.Stats.FetchTime = time.Since(fetchStart)
	result.CacheInfo.FetchHit = fetchHit

	r.Logger.Info("fetched entities",
		"tenant", opts.Tenant,
		"count", len(entities),
		"duration", result.Stats.FetchTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, entities, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit
	result.CacheInfo.Pinned = l.Pinned
	if data, err := layout.Marshal(l); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"markers", len(l.Markers),
		"pinned", l.Pinned,
		"circular", l.Stats.Circular,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FetchWithCacheInfo resolves the entity list with caching and returns cache hit info.
// Without a Source, opts.Count placeholder entities are returned.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts Options) (entities []layout.Entity, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFetch(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, opts.Tenant)
	start := time.Now()
	defer func() {
		hooks.OnFetchComplete(ctx, opts.Tenant, len(entities), time.Since(start), err)
	}()

	src := opts.Source
	if src == nil {
		return fetchPlaceholders(ctx, opts.Count)
	}

	cacheKey := r.Keyer.EntitiesKey(opts.Tenant, src.Name())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, cacheKey); err == nil && ok {
			var cached []layout.Entity
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "entities")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "entities")
	}

	entities, err = src.Entities(ctx, opts.Refresh)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", src.Name(), err)
	}
	if entities == nil {
		entities = []layout.Entity{}
	}

	if data, err := json.Marshal(entities); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLEntities); err != nil {
			opts.Logger.Warn("cache entities", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "entities", len(data))
		}
	}
	return entities, false, nil
}

func fetchPlaceholders(ctx context.Context, count int) ([]layout.Entity, bool, error) {
	entities, err := integrations.Placeholders(count).Entities(ctx, false)
	return entities, false, err
}

// Fetch is a convenience wrapper that calls FetchWithCacheInfo and discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts Options) ([]layout.Entity, error) {
	entities, _, err := r.FetchWithCacheInfo(ctx, opts)
	return entities, err
}

// GenerateLayoutWithCacheInfo returns the layout for entities and whether it
// was served without computing (from a pin or the layout cache).
//
// A tenant's pinned layout is used while its markers hold the same entity
// IDs in the same order as entities; names and logos are refreshed from the
// current list. Any other pin is stale: it is logged and a fresh layout is
// computed, but the pin itself is left for the operator to replace.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, entities []layout.Entity, opts Options) (l layout.Layout, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}

	if pinned, ok := r.pinned(ctx, entities, opts); ok {
		return pinned, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Tenant, len(entities))
	start := time.Now()
	defer func() {
		var tiers map[string]int
		if err == nil {
			tiers = TierCounts(l.Stats)
		}
		hooks.OnLayoutComplete(ctx, opts.Tenant, tiers, time.Since(start), err)
	}()

	seed := opts.Seed
	if seed == 0 {
		seed = DeriveSeed(opts.Tenant, entities)
	}
	cacheKey := r.Keyer.LayoutKey(len(entities), opts.LayoutKeyOpts(seed, entities))

	// Try cache first
	if data, ok, err := r.Cache.Get(ctx, cacheKey); err == nil && ok {
		if cached, err := layout.Unmarshal(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l, err = GenerateLayout(entities, seed, opts)
	if err != nil {
		return layout.Layout{}, false, err
	}
	if l.Stats.Circular > 0 {
		opts.Logger.Warn("crowded layout, some markers placed on the circle",
			"tenant", opts.Tenant, "count", l.Count, "circular", l.Stats.Circular)
	}

	if data, err := layout.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// pinned returns the tenant's pinned layout when it still matches entities.
func (r *Runner) pinned(ctx context.Context, entities []layout.Entity, opts Options) (layout.Layout, bool) {
	if r.Store == nil || opts.Tenant == "" || opts.IgnorePin {
		return layout.Layout{}, false
	}
	l, err := r.Store.Get(ctx, opts.Tenant)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		observability.Cache().OnCacheMiss(ctx, "pin")
		return layout.Layout{}, false
	case err != nil:
		opts.Logger.Warn("read pinned layout", "tenant", opts.Tenant, "err", err)
		return layout.Layout{}, false
	case !sameEntities(l.Markers, entities):
		opts.Logger.Warn("pinned layout is stale, recomputing",
			"tenant", opts.Tenant, "pinned", l.Count, "current", len(entities))
		observability.Cache().OnCacheMiss(ctx, "pin")
		return layout.Layout{}, false
	}
	l.Markers = slices.Clone(l.Markers)
	for i, e := range entities {
		l.Markers[i].Name = e.Name
		l.Markers[i].LogoURL = e.LogoURL
	}
	observability.Cache().OnCacheHit(ctx, "pin")
	opts.Logger.Debug("using pinned layout", "tenant", opts.Tenant, "id", l.ID)
	return l, true
}

// sameEntities reports whether markers were built from entities, by ID and
// order.
func sameEntities(markers []layout.Marker, entities []layout.Entity) bool {
	if len(markers) != len(entities) {
		return false
	}
	for i, e := range entities {
		if markers[i].ID != e.ID {
			return false
		}
	}
	return true
}

// GenerateLayoutFor is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayoutFor(ctx context.Context, entities []layout.Entity, opts Options) (layout.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, entities, opts)
	return l, err
}

// Layout runs the fetch and layout stages.
func (r *Runner) Layout(ctx context.Context, opts Options) (layout.Layout, error) {
	entities, err := r.Fetch(ctx, opts)
	if err != nil {
		return layout.Layout{}, fmt.Errorf("fetch: %w", err)
	}
	return r.GenerateLayoutFor(ctx, entities, opts)
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := layout.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Collect cached formats; render only what is missing
	artifacts = make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, ok, err := r.Cache.Get(ctx, cacheKey); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, l, renderOpts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Pin computes the tenant's current layout and stores it as pinned.
// An existing pin is ignored and replaced.
func (r *Runner) Pin(ctx context.Context, opts Options) (layout.Layout, error) {
	if r.Store == nil {
		return layout.Layout{}, fmt.Errorf("pin %s: no layout store configured", opts.Tenant)
	}
	if err := storage.ValidateTenant(opts.Tenant); err != nil {
		return layout.Layout{}, err
	}
	opts.IgnorePin = true
	l, err := r.Layout(ctx, opts)
	if err != nil {
		return layout.Layout{}, err
	}
	l.Tenant = opts.Tenant
	if err := r.Store.Pin(ctx, l); err != nil {
		return layout.Layout{}, fmt.Errorf("pin %s: %w", opts.Tenant, err)
	}
	l.Pinned = true
	r.Logger.Info("pinned layout", "tenant", opts.Tenant, "id", l.ID, "markers", l.Count)
	return l, nil
}

// Unpin removes the tenant's pinned layout.
func (r *Runner) Unpin(ctx context.Context, tenant string) error {
	if r.Store == nil {
		return fmt.Errorf("unpin %s: no layout store configured", tenant)
	}
	if err := r.Store.Unpin(ctx, tenant); err != nil {
		return fmt.Errorf("unpin %s: %w", tenant, err)
	}
	r.Logger.Info("unpinned layout", "tenant", tenant)
	return nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	return errors.Join(errs...)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
