package placement

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"

	"github.com/charmbracelet/log"
)

const (
	// DefaultMinDistance is the minimum separation between two markers.
	DefaultMinDistance = 12.0

	// DefaultMaxAttempts is the randomized search budget per item.
	DefaultMaxAttempts = 150

	// DefaultRadius is the radius of the circular last-resort tier.
	DefaultRadius = 40.0

	// DefaultMin and DefaultMax bound the candidate square. They are inset
	// from the viewport edges so markers are not clipped.
	DefaultMin = 5.0
	DefaultMax = 90.0
)

// DefaultSafeZone is the centered content region of the splash page.
var DefaultSafeZone = SafeZone{Left: 30, Right: 70, Top: 20, Bottom: 80}

// DefaultCenter is the center of the circular tier.
var DefaultCenter = Position{Left: 50, Top: 50}

// DefaultFallbacks lists edge and corner slots outside [DefaultSafeZone].
var DefaultFallbacks = []Position{
	{Left: 10, Top: 10},
	{Left: 80, Top: 10},
	{Left: 10, Top: 85},
	{Left: 80, Top: 85},
	{Left: 10, Top: 50},
	{Left: 85, Top: 50},
	{Left: 50, Top: 8},
	{Left: 50, Top: 88},
}

// Options configures [Place] and [Generate]. Zero values select defaults.
type Options struct {
	// MinDistance is the required separation between markers. Values <= 0
	// select DefaultMinDistance.
	MinDistance float64 `json:"min_distance,omitempty"`

	// MaxAttempts is the number of random candidates tried per item before
	// falling back. Values <= 0 select DefaultMaxAttempts.
	MaxAttempts int `json:"max_attempts,omitempty"`

	// SafeZones are the rectangles markers must avoid. nil selects
	// DefaultSafeZone; an empty non-nil slice means no zones.
	SafeZones []SafeZone `json:"safe_zones"`

	// Fallbacks is the ordered pool scanned when random search fails. nil
	// selects DefaultFallbacks; an empty non-nil slice skips the tier.
	Fallbacks []Position `json:"fallbacks"`

	// Radius and Center describe the circular tier. Zero values select
	// DefaultRadius and DefaultCenter.
	Radius float64   `json:"radius,omitempty"`
	Center *Position `json:"center,omitempty"`

	// Min and Max bound the candidate square on both axes. If Min >= Max
	// after defaulting, both fall back to DefaultMin and DefaultMax.
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`

	// Logger receives warnings about repaired options. NaN and infinite
	// values are treated as unset. nil discards the warnings.
	Logger *log.Logger `json:"-"`
}

// resolved is Options with every default applied.
type resolved struct {
	MinDistance float64    `json:"min_distance"`
	MaxAttempts int        `json:"max_attempts"`
	SafeZones   []SafeZone `json:"safe_zones"`
	Fallbacks   []Position `json:"fallbacks"`
	Radius      float64    `json:"radius"`
	Center      Position   `json:"center"`
	Min         float64    `json:"min"`
	Max         float64    `json:"max"`
}

func (o *Options) resolve() resolved {
	if o == nil {
		o = &Options{}
	}
	r := resolved{
		MinDistance: finiteOrZero(o.MinDistance, "min_distance", o.Logger),
		MaxAttempts: o.MaxAttempts,
		Radius:      finiteOrZero(o.Radius, "radius", o.Logger),
		Center:      DefaultCenter,
		Min:         finiteOrZero(o.Min, "min", o.Logger),
		Max:         finiteOrZero(o.Max, "max", o.Logger),
	}
	if r.MinDistance <= 0 {
		r.MinDistance = DefaultMinDistance
	}
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = DefaultMaxAttempts
	}
	if r.Radius <= 0 {
		r.Radius = DefaultRadius
	}
	if o.Center != nil {
		if finitePosition(*o.Center) {
			r.Center = *o.Center
		} else {
			warn(o.Logger, "ignoring non-finite placement option", "option", "center", "value", *o.Center)
		}
	}
	if r.Min == 0 {
		r.Min = DefaultMin
	}
	if r.Max == 0 {
		r.Max = DefaultMax
	}
	if r.Min >= r.Max {
		warn(o.Logger, "invalid placement bounds, using defaults", "min", r.Min, "max", r.Max)
		r.Min, r.Max = DefaultMin, DefaultMax
	}

	zones := o.SafeZones
	if zones == nil {
		zones = []SafeZone{DefaultSafeZone}
	}
	r.SafeZones = NormalizeZones(zones, o.Logger)

	fallbacks := o.Fallbacks
	if fallbacks == nil {
		fallbacks = DefaultFallbacks
	}
	r.Fallbacks = make([]Position, 0, len(fallbacks))
	for i, f := range fallbacks {
		if !finitePosition(f) {
			warn(o.Logger, "dropping non-finite fallback position", "index", i, "position", f)
			continue
		}
		r.Fallbacks = append(r.Fallbacks, r.clamp(f))
	}
	return r
}

// finiteOrZero returns v, or zero (select the default) when v is NaN or
// infinite.
func finiteOrZero(v float64, name string, logger *log.Logger) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		warn(logger, "ignoring non-finite placement option", "option", name, "value", v)
		return 0
	}
	return v
}

func finitePosition(p Position) bool {
	return !math.IsNaN(p.Left) && !math.IsInf(p.Left, 0) && !math.IsNaN(p.Top) && !math.IsInf(p.Top, 0)
}

// Hash returns a stable digest of the effective options. Two Options that
// resolve to the same configuration hash identically, so the value can key a
// memoized layout together with the count.
func (o *Options) Hash() string {
	data, _ := json.Marshal(o.resolve())
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Resolved returns a copy of o with every default filled in and zones
// normalized. The Logger is carried over.
func (o *Options) Resolved() Options {
	r := o.resolve()
	center := r.Center
	out := Options{
		MinDistance: r.MinDistance,
		MaxAttempts: r.MaxAttempts,
		SafeZones:   r.SafeZones,
		Fallbacks:   r.Fallbacks,
		Radius:      r.Radius,
		Center:      &center,
		Min:         r.Min,
		Max:         r.Max,
	}
	if o != nil {
		out.Logger = o.Logger
	}
	return out
}

func (r *resolved) clamp(p Position) Position {
	return Position{
		Left: min(max(p.Left, r.Min), r.Max),
		Top:  min(max(p.Top, r.Min), r.Max),
	}
}
