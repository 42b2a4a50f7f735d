// Package prom implements the observability hooks with Prometheus collectors.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apecglobal/logofield/pkg/observability"
)

var durationBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000}

// Metrics holds every collector exported by the service.
type Metrics struct {
	gatherer prometheus.Gatherer

	FetchTotal        *prometheus.CounterVec
	FetchDurationMs   prometheus.Histogram
	EntityCount       *prometheus.GaugeVec
	LayoutsTotal      *prometheus.CounterVec
	PlacementsTotal   *prometheus.CounterVec
	LayoutDurationMs  prometheus.Histogram
	RenderTotal       *prometheus.CounterVec
	RenderDurationMs  prometheus.Histogram
	CacheHitsTotal    *prometheus.CounterVec
	CacheMissesTotal  *prometheus.CounterVec
	CacheBytesTotal   *prometheus.CounterVec
	UpstreamTotal     *prometheus.CounterVec
	UpstreamErrors    *prometheus.CounterVec
	UpstreamLatencyMs *prometheus.HistogramVec
	RequestsTotal     *prometheus.CounterVec
	RequestDurationMs *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg. A nil reg selects a
// fresh private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logofield_entity_fetch_total",
			Help: "Entity list fetches by tenant and result",
		}, []string{"tenant", "result"}),
		FetchDurationMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "logofield_entity_fetch_duration_ms",
			Help:    "Entity fetch duration in milliseconds",
			Buckets: durationBuckets,
		}),
		EntityCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "logofield_entities",
			Help: "Entities in the most recent fetch per tenant",
		}, []string{"tenant"}),
		LayoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logofield_layouts_total",
			Help: "Layouts computed by tenant and result",
		}, []string{"tenant", "result"}),
		PlacementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logofield_placements_total",
			Help: "Markers placed by tier",
		}, []string{"tier"}),
		LayoutDurationMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "logofield_layout_duration_ms",
			Help:    "Layout computation duration in milliseconds",
			Buckets: durationBuckets,
		}),
		RenderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logofield_render_total",
			Help: "Render runs by format",
		}, []string{"format"}),
		RenderDurationMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "logofield_render_duration_ms",
			Help:    "Render duration in milliseconds",
			Buckets: durationBuckets,
		}),
		CacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logofield_cache_hits_total",
			Help: "Cache hits by key type",
		}, []string{"type"}),
		CacheMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logofield_cache_misses_total",
			Help: "Cache misses by key type",
		}, []string{"type"}),
		CacheBytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logofield_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		}, []string{"type"}),
		UpstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logofield_upstream_requests_total",
			Help: "Outgoing HTTP requests by host and status",
		}, []string{"host", "status"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logofield_upstream_errors_total",
			Help: "Outgoing HTTP transport failures by host",
		}, []string{"host"}),
		UpstreamLatencyMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logofield_upstream_duration_ms",
			Help:    "Outgoing HTTP request duration in milliseconds",
			Buckets: durationBuckets,
		}, []string{"host"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logofield_http_requests_total",
			Help: "Served HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		RequestDurationMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logofield_http_request_duration_ms",
			Help:    "Served HTTP request duration in milliseconds",
			Buckets: durationBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.FetchTotal, m.FetchDurationMs, m.EntityCount,
		m.LayoutsTotal, m.PlacementsTotal, m.LayoutDurationMs,
		m.RenderTotal, m.RenderDurationMs,
		m.CacheHitsTotal, m.CacheMissesTotal, m.CacheBytesTotal,
		m.UpstreamTotal, m.UpstreamErrors, m.UpstreamLatencyMs,
		m.RequestsTotal, m.RequestDurationMs,
	)
	return m
}

// Install registers m as the pipeline, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDurationMs.WithLabelValues(route).Observe(ms(d))
}

func (m *Metrics) OnFetchStart(context.Context, string) {}

func (m *Metrics) OnFetchComplete(_ context.Context, tenant string, count int, d time.Duration, err error) {
	m.FetchTotal.WithLabelValues(tenant, result(err)).Inc()
	m.FetchDurationMs.Observe(ms(d))
	if err == nil {
		m.EntityCount.WithLabelValues(tenant).Set(float64(count))
	}
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, tenant string, tiers map[string]int, d time.Duration, err error) {
	m.LayoutsTotal.WithLabelValues(tenant, result(err)).Inc()
	m.LayoutDurationMs.Observe(ms(d))
	for tier, n := range tiers {
		m.PlacementsTotal.WithLabelValues(tier).Add(float64(n))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		return
	}
	for _, f := range formats {
		m.RenderTotal.WithLabelValues(f).Inc()
	}
	m.RenderDurationMs.Observe(ms(d))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheBytesTotal.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.UpstreamTotal.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.UpstreamLatencyMs.WithLabelValues(host).Observe(ms(d))
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.UpstreamErrors.WithLabelValues(host).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
