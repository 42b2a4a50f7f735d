package placement

import (
	"math"
	"math/rand/v2"
	"testing"
)

// constSource always yields the same value, pinning every random candidate
// to a single point.
type constSource uint64

func (s constSource) Uint64() uint64 { return uint64(s) }

func TestGenerateCardinality(t *testing.T) {
	for _, count := range []int{-3, 0, 1, 2, 4, 15, 40, 200} {
		got := Generate(count, NewRand(7), nil)
		want := max(count, 0)
		if len(got) != want {
			t.Errorf("Generate(%d) returned %d positions, want %d", count, len(got), want)
		}
	}
}

func TestGenerateZeroIsEmptyNotNil(t *testing.T) {
	got := Generate(0, NewRand(1), nil)
	if got == nil {
		t.Fatal("Generate(0) should return an empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("Generate(0) = %v, want []", got)
	}
}

func TestGenerateBounds(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		for _, p := range Generate(60, NewRand(seed), nil) {
			if p.Left < DefaultMin || p.Left > DefaultMax || p.Top < DefaultMin || p.Top > DefaultMax {
				t.Fatalf("seed %d: position %+v outside [%v,%v]", seed, p, DefaultMin, DefaultMax)
			}
		}
	}
}

func TestGenerateAvoidsSafeZone(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		for _, p := range Generate(20, NewRand(seed), nil) {
			if DefaultSafeZone.Contains(p) {
				t.Fatalf("seed %d: position %+v inside safe zone", seed, p)
			}
		}
	}
}

func TestGenerateSeparation(t *testing.T) {
	for seed := uint64(1); seed <= 100; seed++ {
		for _, count := range []int{2, 8, 15} {
			ps := Generate(count, NewRand(seed), nil)
			if i, j, d := closestPair(ps); d < DefaultMinDistance {
				t.Fatalf("seed %d count %d: positions %d and %d are %.2f apart", seed, count, i, j, d)
			}
		}
	}
}

func TestGenerateStress(t *testing.T) {
	ps := Generate(1000, NewRand(99), nil)
	if len(ps) != 1000 {
		t.Fatalf("got %d positions, want 1000", len(ps))
	}
	for _, p := range ps {
		if p.Left < DefaultMin || p.Left > DefaultMax || p.Top < DefaultMin || p.Top > DefaultMax {
			t.Fatalf("position %+v outside bounds", p)
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := Generate(12, NewRand(42), nil)
	b := Generate(12, NewRand(42), nil)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateShapeIsStable(t *testing.T) {
	a := Generate(9, nil, nil)
	b := Generate(9, nil, nil)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for _, ps := range [][]Position{a, b} {
		for _, p := range ps {
			if p.Left < DefaultMin || p.Left > DefaultMax || p.Top < DefaultMin || p.Top > DefaultMax {
				t.Fatalf("position %+v outside bounds", p)
			}
		}
	}
}

func TestGenerateFourAroundDefaultZone(t *testing.T) {
	ps := Generate(4, NewRand(2024), &Options{MinDistance: 12})
	if len(ps) != 4 {
		t.Fatalf("got %d positions, want 4", len(ps))
	}
	for _, p := range ps {
		if p.Left >= 30 && p.Left <= 70 && p.Top >= 20 && p.Top <= 80 {
			t.Errorf("position %+v inside [30,70]x[20,80]", p)
		}
	}
	if _, _, d := closestPair(ps); d < 12 {
		t.Errorf("closest pair %.2f apart, want >= 12", d)
	}
}

func TestPlaceTierProgression(t *testing.T) {
	// Every random candidate lands on (5,5): only the first item can use it.
	rng := rand.New(constSource(0))
	p := Place(10, rng, nil)

	want := []Tier{
		TierRandom,
		TierFallback, TierFallback, TierFallback, TierFallback, TierFallback, TierFallback, TierFallback,
		TierCircular, TierCircular,
	}
	for i, tier := range p.Tiers {
		if tier != want[i] {
			t.Errorf("item %d placed by %s, want %s", i, tier, want[i])
		}
	}
	if p.Positions[0] != (Position{Left: 5, Top: 5}) {
		t.Errorf("first position = %+v, want {5 5}", p.Positions[0])
	}
	if p.Positions[1] != (Position{Left: 80, Top: 10}) {
		t.Errorf("second position = %+v, want the first fallback far enough from {5 5}", p.Positions[1])
	}

	stats := p.Stats()
	if stats != (Stats{Random: 1, Fallback: 7, Circular: 2}) {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestPlaceCircularTier(t *testing.T) {
	opts := &Options{MinDistance: 500, Fallbacks: []Position{}}
	p := Place(4, NewRand(3), opts)

	if p.Tiers[0] != TierRandom {
		t.Fatalf("first item should be placed randomly, got %s", p.Tiers[0])
	}
	for i := 1; i < 4; i++ {
		if p.Tiers[i] != TierCircular {
			t.Fatalf("item %d placed by %s, want circular", i, p.Tiers[i])
		}
		angle := 2 * math.Pi * float64(i) / 4
		want := Position{
			Left: min(max(50+40*math.Cos(angle), DefaultMin), DefaultMax),
			Top:  min(max(50+40*math.Sin(angle), DefaultMin), DefaultMax),
		}
		if !near(p.Positions[i], want) {
			t.Errorf("item %d at %+v, want %+v", i, p.Positions[i], want)
		}
	}
}

func TestPlaceWithoutZones(t *testing.T) {
	opts := &Options{SafeZones: []SafeZone{}}
	inside := 0
	for _, p := range Generate(40, NewRand(5), opts) {
		if DefaultSafeZone.Contains(p) {
			inside++
		}
	}
	if inside == 0 {
		t.Error("with zones disabled some markers should land in the center")
	}
}

func TestPlaceMalformedZoneIsRepaired(t *testing.T) {
	inverted := []SafeZone{{Left: 70, Right: 30, Top: 80, Bottom: 20}}
	for _, p := range Generate(15, NewRand(11), &Options{SafeZones: inverted}) {
		if DefaultSafeZone.Contains(p) {
			t.Fatalf("position %+v inside the repaired zone", p)
		}
	}
}

func TestPlaceCustomBounds(t *testing.T) {
	opts := &Options{Min: 20, Max: 40, SafeZones: []SafeZone{}, MinDistance: 1}
	for _, p := range Generate(30, NewRand(8), opts) {
		if p.Left < 20 || p.Left > 40 || p.Top < 20 || p.Top > 40 {
			t.Fatalf("position %+v outside [20,40]", p)
		}
	}
}

func TestPlaceNonFiniteOptions(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name string
		opts Options
	}{
		{"nan min distance", Options{MinDistance: nan}},
		{"inf min distance", Options{MinDistance: inf}},
		{"nan radius", Options{Radius: nan}},
		{"inf radius", Options{Radius: -inf}},
		{"nan min", Options{Min: nan}},
		{"nan max", Options{Max: nan}},
		{"inf max", Options{Max: inf}},
		{"nan center", Options{Center: &Position{Left: nan, Top: 50}}},
		{"inf center", Options{Center: &Position{Left: 50, Top: inf}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := tt.opts.Hash(), (&Options{}).Hash(); got != want {
				t.Errorf("Hash() = %s, want the default hash %s", got, want)
			}
			ps := Generate(10, NewRand(1), &tt.opts)
			for _, p := range ps {
				if math.IsNaN(p.Left) || math.IsNaN(p.Top) {
					t.Fatalf("non-finite position %+v", p)
				}
				if p.Left < DefaultMin || p.Left > DefaultMax || p.Top < DefaultMin || p.Top > DefaultMax {
					t.Fatalf("position %+v outside [%v,%v]", p, DefaultMin, DefaultMax)
				}
			}
			if i, j, d := closestPair(ps); d < DefaultMinDistance {
				t.Errorf("positions %d and %d are %.2f apart", i, j, d)
			}
		})
	}
}

func TestPlaceDropsNonFiniteFallbacks(t *testing.T) {
	opts := (&Options{Fallbacks: []Position{{Left: math.NaN(), Top: 10}, {Left: 10, Top: 10}}}).Resolved()
	if len(opts.Fallbacks) != 1 || opts.Fallbacks[0] != (Position{Left: 10, Top: 10}) {
		t.Errorf("Fallbacks = %v, want [{10 10}]", opts.Fallbacks)
	}
}

func TestTierString(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierRandom, "random"},
		{TierFallback, "fallback"},
		{TierCircular, "circular"},
		{Tier(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("Tier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func closestPair(ps []Position) (int, int, float64) {
	bi, bj, best := -1, -1, math.Inf(1)
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if d := ps[i].Distance(ps[j]); d < best {
				bi, bj, best = i, j, d
			}
		}
	}
	return bi, bj, best
}

func near(a, b Position) bool {
	return math.Abs(a.Left-b.Left) < 1e-9 && math.Abs(a.Top-b.Top) < 1e-9
}
