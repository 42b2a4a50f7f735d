package prom

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/apecglobal/logofield/pkg/observability"
)

func TestLayoutMetrics(t *testing.T) {
	m := New(nil)
	ctx := context.Background()

	m.OnLayoutComplete(ctx, "acme", map[string]int{"random": 10, "fallback": 2}, 3*time.Millisecond, nil)
	m.OnLayoutComplete(ctx, "acme", nil, time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.PlacementsTotal.WithLabelValues("random")); got != 10 {
		t.Errorf("random placements = %v, want 10", got)
	}
	if got := testutil.ToFloat64(m.LayoutsTotal.WithLabelValues("acme", "ok")); got != 1 {
		t.Errorf("ok layouts = %v", got)
	}
	if got := testutil.ToFloat64(m.LayoutsTotal.WithLabelValues("acme", "error")); got != 1 {
		t.Errorf("error layouts = %v", got)
	}
}

func TestFetchAndCacheMetrics(t *testing.T) {
	m := New(nil)
	ctx := context.Background()

	m.OnFetchComplete(ctx, "acme", 14, time.Millisecond, nil)
	m.OnCacheHit(ctx, "layout")
	m.OnCacheHit(ctx, "layout")
	m.OnCacheMiss(ctx, "entities")
	m.OnCacheSet(ctx, "layout", 512)

	if got := testutil.ToFloat64(m.EntityCount.WithLabelValues("acme")); got != 14 {
		t.Errorf("entities gauge = %v", got)
	}
	if got := testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("layout")); got != 2 {
		t.Errorf("layout hits = %v", got)
	}
	if got := testutil.ToFloat64(m.CacheBytesTotal.WithLabelValues("layout")); got != 512 {
		t.Errorf("bytes = %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(nil)
	m.ObserveRequest("GET", "/healthz", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `logofield_http_requests_total{method="GET",route="/healthz",status="200"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", body)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	m := New(nil)
	m.Install()
	if observability.Pipeline() != observability.PipelineHooks(m) {
		t.Error("Install should register pipeline hooks")
	}
	if observability.Cache() != observability.CacheHooks(m) {
		t.Error("Install should register cache hooks")
	}
}
