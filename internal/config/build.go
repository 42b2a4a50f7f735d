package config

import (
	"context"

	"github.com/apecglobal/logofield/pkg/cache"
	"github.com/apecglobal/logofield/pkg/integrations"
	"github.com/apecglobal/logofield/pkg/integrations/portal"
	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/pipeline"
	"github.com/apecglobal/logofield/pkg/storage"
)

// OpenCache opens the configured cache backend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNull:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.RedisURL, c.Cache.Prefix)
	default:
		return cache.NewFileCache(c.Cache.Dir)
	}
}

// OpenStore opens the configured pin store backend.
func (c *Config) OpenStore(ctx context.Context) (storage.Store, error) {
	switch c.Store.Backend {
	case BackendMemory:
		return storage.NewMemoryStore(), nil
	case BackendMongo:
		return storage.NewMongoStore(ctx, c.Store.MongoURI, c.Store.Database)
	default:
		return storage.NewFileStore(c.Store.Dir)
	}
}

// Source returns the entity source of t. HTTP responses are cached in
// backend for the portal TTL.
func (c *Config) Source(t *Tenant, backend cache.Cache) integrations.Source {
	switch {
	case len(t.Entities) > 0:
		items := make([]layout.Entity, len(t.Entities))
		for i, e := range t.Entities {
			items[i] = layout.Entity{ID: e.ID, Name: e.Name, LogoURL: e.LogoURL}
		}
		return integrations.NewStaticSource(items)
	case t.Count > 0:
		return integrations.Placeholders(t.Count)
	}

	base, token := t.Source, t.Token
	if base == "" {
		base = c.Portal.BaseURL
	}
	if token == "" {
		token = c.Portal.Token
	}
	return portal.NewClient(backend, base, token, c.Portal.TTL.Duration)
}

// Options returns the pipeline options of t: the [Layout] defaults with the
// tenant's overrides applied.
func (c *Config) Options(t *Tenant, backend cache.Cache) pipeline.Options {
	opts := pipeline.Options{
		Tenant:      t.Name,
		Title:       t.Title,
		Seed:        t.Seed,
		Width:       c.Layout.Width,
		Height:      c.Layout.Height,
		MinDistance: c.Layout.MinDistance,
		MaxAttempts: c.Layout.MaxAttempts,
		SafeZones:   c.Layout.SafeZones,
		Formats:     c.Layout.Formats,
		Source:      c.Source(t, backend),
	}
	if t.Width > 0 {
		opts.Width = t.Width
	}
	if t.Height > 0 {
		opts.Height = t.Height
	}
	if t.MinDistance > 0 {
		opts.MinDistance = t.MinDistance
	}
	if t.SafeZones != nil {
		opts.SafeZones = t.SafeZones
	}
	if opts.Title == "" {
		opts.Title = t.Name
	}
	return opts
}
