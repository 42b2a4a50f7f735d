package placement

import (
	"math"
	"math/rand/v2"
)

// Tier identifies which strategy placed an item.
type Tier uint8

const (
	TierRandom Tier = iota
	TierFallback
	TierCircular
)

var tierNames = [...]string{"random", "fallback", "circular"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "unknown"
}

// Placement is the result of [Place]: one position and one tier per item.
type Placement struct {
	Positions []Position
	Tiers     []Tier
}

// Stats counts how many items each tier placed.
type Stats struct {
	Random   int `json:"random"`
	Fallback int `json:"fallback"`
	Circular int `json:"circular"`
}

// Stats summarizes the tiers used by p.
func (p Placement) Stats() Stats {
	var s Stats
	for _, t := range p.Tiers {
		switch t {
		case TierRandom:
			s.Random++
		case TierFallback:
			s.Fallback++
		case TierCircular:
			s.Circular++
		}
	}
	return s
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Generate returns count positions. See [Place] for the algorithm.
func Generate(count int, rng *rand.Rand, opts *Options) []Position {
	return Place(count, rng, opts).Positions
}

// Place positions count items one after the other and records the tier used
// for each. A nil rng is replaced by an OS-seeded source; nil opts selects
// all defaults. count <= 0 yields an empty Placement.
func Place(count int, rng *rand.Rand, opts *Options) Placement {
	if count <= 0 {
		return Placement{Positions: []Position{}, Tiers: []Tier{}}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r := opts.resolve()

	p := Placement{
		Positions: make([]Position, 0, count),
		Tiers:     make([]Tier, 0, count),
	}
	for i := range count {
		pos, tier := r.next(i, count, p.Positions, rng)
		p.Positions = append(p.Positions, pos)
		p.Tiers = append(p.Tiers, tier)
	}
	return p
}

func (r *resolved) next(i, count int, placed []Position, rng *rand.Rand) (Position, Tier) {
	span := r.Max - r.Min
	for range r.MaxAttempts {
		c := Position{
			Left: r.Min + rng.Float64()*span,
			Top:  r.Min + rng.Float64()*span,
		}
		if r.accepts(c, placed) {
			return c, TierRandom
		}
	}

	for _, c := range r.Fallbacks {
		if r.accepts(c, placed) {
			return c, TierFallback
		}
	}

	angle := 2 * math.Pi * float64(i) / float64(count)
	return r.clamp(Position{
		Left: r.Center.Left + r.Radius*math.Cos(angle),
		Top:  r.Center.Top + r.Radius*math.Sin(angle),
	}), TierCircular
}

func (r *resolved) accepts(c Position, placed []Position) bool {
	for _, z := range r.SafeZones {
		if z.Contains(c) {
			return false
		}
	}
	for _, p := range placed {
		if c.Distance(p) < r.MinDistance {
			return false
		}
	}
	return true
}
