// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; the default hooks do
// nothing. Applications register concrete implementations once at startup.
// The [prom] subpackage provides a Prometheus-backed implementation that the
// HTTP service installs.
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetHTTPHooks(m)
//
// Libraries call hooks around each stage:
//
//	observability.Pipeline().OnFetchStart(ctx, tenant)
//	// ... fetch entities ...
//	observability.Pipeline().OnFetchComplete(ctx, tenant, len(ents), time.Since(start), err)
//
// [prom]: github.com/apecglobal/logofield/pkg/observability/prom
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the layout pipeline.
type PipelineHooks interface {
	// Entity fetch events
	OnFetchStart(ctx context.Context, tenant string)
	OnFetchComplete(ctx context.Context, tenant string, count int, duration time.Duration, err error)

	// Layout events. tiers counts placements per tier name and is nil on error.
	OnLayoutStart(ctx context.Context, tenant string, count int)
	OnLayoutComplete(ctx context.Context, tenant string, tiers map[string]int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups. keyType is one of
// "http", "entities", "layout", "artifact" or "pin".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from requests to tenant portals.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFetchStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnFetchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, map[string]int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook set.
type slot[T any] struct {
	mu   sync.RWMutex
	v    T
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	return &slot[T]{v: noop, noop: noop}
}

func (s *slot[T]) load() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

func (s *slot[T]) store(v T) {
	s.mu.Lock()
	s.v = v
	s.mu.Unlock()
}

func (s *slot[T]) reset() { s.store(s.noop) }

var (
	pipelineHooks = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheHooks    = newSlot[CacheHooks](NoopCacheHooks{})
	httpHooks     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks registers pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.store(h)
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.store(h)
	}
}

// SetHTTPHooks registers portal client hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.store(h)
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineHooks.load() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.load() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpHooks.load() }

// Reset restores the no-op hooks. Tests that install hooks call it in
// t.Cleanup.
func Reset() {
	pipelineHooks.reset()
	cacheHooks.reset()
	httpHooks.reset()
}
