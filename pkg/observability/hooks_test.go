package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// layoutRecorder counts layout events per tenant.
type layoutRecorder struct {
	NoopPipelineHooks
	mu       sync.Mutex
	started  map[string]int
	placed   map[string]int
	failures int
}

func (r *layoutRecorder) OnLayoutStart(_ context.Context, tenant string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started[tenant] += count
}

func (r *layoutRecorder) OnLayoutComplete(_ context.Context, tenant string, tiers map[string]int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.failures++
		return
	}
	for _, n := range tiers {
		r.placed[tenant] += n
	}
}

type hitCounter struct {
	NoopCacheHooks
	hits map[string]int
}

func (h *hitCounter) OnCacheHit(_ context.Context, keyType string) { h.hits[keyType]++ }

type portalHTTPRecorder struct{ NoopHTTPHooks }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}

	Pipeline().OnLayoutComplete(ctx, "demo", map[string]int{"random": 3}, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "artifact", 512)
	HTTP().OnError(ctx, "GET", "portal.example.com", "/companies", errors.New("boom"))
}

func TestRegisteredHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	rec := &layoutRecorder{started: map[string]int{}, placed: map[string]int{}}
	SetPipelineHooks(rec)
	hits := &hitCounter{hits: map[string]int{}}
	SetCacheHooks(hits)

	Pipeline().OnLayoutStart(ctx, "demo", 5)
	Pipeline().OnLayoutComplete(ctx, "demo", map[string]int{"random": 4, "fallback": 1}, time.Millisecond, nil)
	Pipeline().OnLayoutStart(ctx, "sandbox", 2)
	Pipeline().OnLayoutComplete(ctx, "sandbox", nil, time.Millisecond, errors.New("cancelled"))
	Cache().OnCacheHit(ctx, "pin")
	Cache().OnCacheHit(ctx, "pin")

	if rec.started["demo"] != 5 || rec.placed["demo"] != 5 {
		t.Errorf("demo: started=%d placed=%d, want 5 and 5", rec.started["demo"], rec.placed["demo"])
	}
	if rec.failures != 1 {
		t.Errorf("failures = %d, want 1", rec.failures)
	}
	if hits.hits["pin"] != 2 {
		t.Errorf("pin hits = %d, want 2", hits.hits["pin"])
	}
}

func TestSetNilKeepsCurrentHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &portalHTTPRecorder{}
	SetHTTPHooks(rec)
	SetHTTPHooks(nil)
	if HTTP() != rec {
		t.Error("SetHTTPHooks(nil) replaced the registered hooks")
	}

	Reset()
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() did not restore NoopHTTPHooks")
	}
}

func TestConcurrentRegistryAccess(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()
	rec := &layoutRecorder{started: map[string]int{}, placed: map[string]int{}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetPipelineHooks(rec)
		}()
		go func() {
			defer wg.Done()
			Pipeline().OnLayoutStart(ctx, "demo", 1)
		}()
	}
	wg.Wait()
}
