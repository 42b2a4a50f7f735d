package placement

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSafeZoneContains(t *testing.T) {
	z := SafeZone{Left: 30, Right: 70, Top: 20, Bottom: 80}
	tests := []struct {
		name string
		p    Position
		want bool
	}{
		{"center", Position{50, 50}, true},
		{"left edge", Position{30, 50}, true},
		{"bottom right corner", Position{70, 80}, true},
		{"just left", Position{29.99, 50}, false},
		{"above", Position{50, 19}, false},
		{"below", Position{50, 81}, false},
		{"far corner", Position{5, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := z.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestNormalizeZones(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	in := []SafeZone{
		{Left: 30, Right: 70, Top: 20, Bottom: 80},
		{Left: 70, Right: 30, Top: 80, Bottom: 20},
		{Left: 10, Right: 10, Top: 0, Bottom: 50},
		{Left: math.NaN(), Right: 40, Top: 0, Bottom: 10},
		{Left: 0, Right: math.Inf(1), Top: 0, Bottom: 10},
	}
	got := NormalizeZones(in, logger)

	if len(got) != 2 {
		t.Fatalf("NormalizeZones kept %d zones, want 2: %+v", len(got), got)
	}
	for i, z := range got {
		if z != DefaultSafeZone {
			t.Errorf("zone %d = %+v, want %+v", i, z, DefaultSafeZone)
		}
	}
	if in[1].Left != 70 {
		t.Error("NormalizeZones must not modify its input")
	}

	out := buf.String()
	for _, msg := range []string{"swapping inverted", "dropping empty", "non-finite"} {
		if !strings.Contains(out, msg) {
			t.Errorf("log output missing %q:\n%s", msg, out)
		}
	}
}

func TestNormalizeZonesNilLogger(t *testing.T) {
	got := NormalizeZones([]SafeZone{{Left: 5, Right: 1, Top: 1, Bottom: 5}}, nil)
	if len(got) != 1 || got[0].Left != 1 || got[0].Right != 5 {
		t.Errorf("NormalizeZones = %+v", got)
	}
}

func TestPositionDistance(t *testing.T) {
	d := Position{0, 0}.Distance(Position{3, 4})
	if d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestOptionsHash(t *testing.T) {
	var nilOpts *Options
	explicit := &Options{
		MinDistance: DefaultMinDistance,
		MaxAttempts: DefaultMaxAttempts,
		SafeZones:   []SafeZone{DefaultSafeZone},
		Radius:      DefaultRadius,
	}
	if nilOpts.Hash() != explicit.Hash() {
		t.Error("defaults and explicit defaults should hash identically")
	}
	if (&Options{MinDistance: 10}).Hash() == explicit.Hash() {
		t.Error("different min distance should change the hash")
	}
	if (&Options{SafeZones: []SafeZone{}}).Hash() == explicit.Hash() {
		t.Error("disabling zones should change the hash")
	}
	if len(explicit.Hash()) != 64 {
		t.Errorf("hash length = %d, want 64", len(explicit.Hash()))
	}
}

func TestOptionsResolved(t *testing.T) {
	r := (&Options{Min: 50, Max: 10}).Resolved()
	if r.Min != DefaultMin || r.Max != DefaultMax {
		t.Errorf("inverted bounds should reset to defaults, got [%v,%v]", r.Min, r.Max)
	}
	if r.Center == nil || *r.Center != DefaultCenter {
		t.Errorf("Center = %v, want %v", r.Center, DefaultCenter)
	}
	if len(r.Fallbacks) != len(DefaultFallbacks) {
		t.Errorf("Fallbacks = %d entries, want %d", len(r.Fallbacks), len(DefaultFallbacks))
	}
}

func TestDefaultFallbacksOutsideDefaultZone(t *testing.T) {
	for _, f := range DefaultFallbacks {
		if DefaultSafeZone.Contains(f) {
			t.Errorf("fallback %+v inside the default safe zone", f)
		}
		if f.Left < DefaultMin || f.Left > DefaultMax || f.Top < DefaultMin || f.Top > DefaultMax {
			t.Errorf("fallback %+v outside default bounds", f)
		}
	}
}
