package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apecglobal/logofield/pkg/placement"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	want := filepath.Join(home, ".cache", appName)
	if dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("CacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg-test")
	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}
	if p != filepath.Join("/etc/xdg-test", appName, "config.toml") {
		t.Errorf("DefaultPath() = %q", p)
	}
}

func TestParseZone(t *testing.T) {
	tests := []struct {
		in      string
		want    placement.SafeZone
		wantErr string
	}{
		{in: "30,70,20,80", want: placement.SafeZone{Left: 30, Right: 70, Top: 20, Bottom: 80}},
		{in: " 0, 12.5 ,0,100", want: placement.SafeZone{Left: 0, Right: 12.5, Top: 0, Bottom: 100}},
		{in: "1,2,3", wantErr: "left,right,top,bottom"},
		{in: "1,2,x,4", wantErr: "not a number"},
		{in: "1,2,NaN,4", wantErr: "not a number"},
		{in: "1,Inf,3,4", wantErr: "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseZone(tt.in)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseZone(%q) error = %v, want %q", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseZone(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseZone(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSourceKind(t *testing.T) {
	tests := []struct {
		tenant Tenant
		want   string
	}{
		{Tenant{Source: "https://portal.example.com"}, SourcePortal},
		{Tenant{}, SourcePortal},
		{Tenant{Entities: []Entity{{ID: "a", Name: "A"}}}, SourceStatic},
		{Tenant{Count: 3}, SourcePlaceholders},
	}
	for _, tt := range tests {
		if got := tt.tenant.SourceKind(); got != tt.want {
			t.Errorf("SourceKind(%+v) = %q, want %q", tt.tenant, got, tt.want)
		}
	}
}

func TestExampleConfigParses(t *testing.T) {
	isolate(t)
	data, err := os.ReadFile(filepath.Join("..", "..", "examples", "logofield.toml"))
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := strings.Join(cfg.TenantNames(), ","); got != "apec-digital,demo,sandbox" {
		t.Errorf("tenants = %s", got)
	}
	if len(cfg.Layout.SafeZones) != 1 || cfg.Layout.SafeZones[0].Left != 25 {
		t.Errorf("safe zones = %+v", cfg.Layout.SafeZones)
	}
	demo, err := cfg.Tenant("demo")
	if err != nil {
		t.Fatal(err)
	}
	if demo.SourceKind() != SourceStatic || demo.Seed != 42 {
		t.Errorf("demo: source=%s seed=%d", demo.SourceKind(), demo.Seed)
	}
}
