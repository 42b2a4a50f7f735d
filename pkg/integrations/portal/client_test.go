package portal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apecglobal/logofield/pkg/cache"
	"github.com/apecglobal/logofield/pkg/integrations"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(cache.NewMemoryCache(), srv.URL+"/", "secret", time.Hour)
	c.SetHTTPClient(srv.Client())
	return c, srv
}

func TestCompaniesArray(t *testing.T) {
	var auth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/companies" {
			t.Errorf("path = %s, want /companies", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"id": 1, "name": "Apec Land", "logo": "/l/1.png"}, {"id": "b2", "name": "Apec Capital", "logo_url": "https://x/2.png"}]`))
	})

	got, err := c.Companies(context.Background(), false)
	if err != nil {
		t.Fatalf("Companies: %v", err)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
	if len(got) != 2 {
		t.Fatalf("got %d companies, want 2", len(got))
	}
	if got[0].ID != "1" || got[0].Name != "Apec Land" || got[0].LogoURL != "/l/1.png" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].ID != "b2" || got[1].LogoURL != "https://x/2.png" {
		t.Errorf("second = %+v", got[1])
	}
}

func TestCompaniesEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": 7, "name": "Apec Energy", "logoUrl": "e.svg"}, {"id": 8, "name": "  "}]}`))
	})

	got, err := c.Companies(context.Background(), false)
	if err != nil {
		t.Fatalf("Companies: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unnamed entries should be skipped, got %+v", got)
	}
	if got[0].ID != "7" || got[0].LogoURL != "e.svg" {
		t.Errorf("entity = %+v", got[0])
	}
}

func TestCompaniesEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	})
	got, err := c.Companies(context.Background(), false)
	if err != nil {
		t.Fatalf("Companies: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Companies = %v, want empty slice", got)
	}
}

func TestCompaniesCached(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"id": 1, "name": "A"}]`))
	})
	ctx := context.Background()

	for range 3 {
		if _, err := c.Companies(ctx, false); err != nil {
			t.Fatal(err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}

	if _, err := c.Companies(ctx, true); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("refresh should bypass the cache, hits = %d", hits.Load())
	}
}

func TestCompaniesNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.Companies(context.Background(), false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCompaniesMalformed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": "nope"}`))
	})
	if _, err := c.Companies(context.Background(), false); err == nil {
		t.Error("expected decode error")
	}
}

func TestName(t *testing.T) {
	c := NewClient(nil, "https://portal.example/api/", "", time.Hour)
	if c.Name() != "portal:https://portal.example/api" {
		t.Errorf("Name = %q", c.Name())
	}
}
