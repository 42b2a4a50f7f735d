package placement

import (
	"math"

	"github.com/charmbracelet/log"
)

// Position is a point on the percentage plane.
type Position struct {
	Left float64 `json:"left" bson:"left"`
	Top  float64 `json:"top" bson:"top"`
}

// Distance returns the Euclidean distance between p and q in percentage units.
func (p Position) Distance(q Position) float64 {
	return math.Hypot(p.Left-q.Left, p.Top-q.Top)
}

// SafeZone is a rectangle that markers must stay out of.
type SafeZone struct {
	Left   float64 `json:"left" bson:"left"`
	Right  float64 `json:"right" bson:"right"`
	Top    float64 `json:"top" bson:"top"`
	Bottom float64 `json:"bottom" bson:"bottom"`
}

// Contains reports whether p lies inside z. The edges belong to the zone.
func (z SafeZone) Contains(p Position) bool {
	return p.Left >= z.Left && p.Left <= z.Right && p.Top >= z.Top && p.Top <= z.Bottom
}

// Width returns the horizontal extent of the zone.
func (z SafeZone) Width() float64 { return z.Right - z.Left }

// Height returns the vertical extent of the zone.
func (z SafeZone) Height() float64 { return z.Bottom - z.Top }

func (z SafeZone) finite() bool {
	for _, v := range [...]float64{z.Left, z.Right, z.Top, z.Bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// NormalizeZones returns a cleaned copy of zones.
//
// Inverted bounds (Left > Right or Top > Bottom) are swapped. Zones with
// non-finite coordinates or zero area are dropped. Every repair is logged at
// warn level on logger; a nil logger discards the messages. The input slice
// is not modified.
func NormalizeZones(zones []SafeZone, logger *log.Logger) []SafeZone {
	out := make([]SafeZone, 0, len(zones))
	for i, z := range zones {
		if !z.finite() {
			warn(logger, "dropping safe zone with non-finite bounds", "index", i, "zone", z)
			continue
		}
		if z.Left > z.Right {
			warn(logger, "swapping inverted safe zone bounds", "index", i, "left", z.Left, "right", z.Right)
			z.Left, z.Right = z.Right, z.Left
		}
		if z.Top > z.Bottom {
			warn(logger, "swapping inverted safe zone bounds", "index", i, "top", z.Top, "bottom", z.Bottom)
			z.Top, z.Bottom = z.Bottom, z.Top
		}
		if z.Width() == 0 || z.Height() == 0 {
			warn(logger, "dropping empty safe zone", "index", i, "zone", z)
			continue
		}
		out = append(out, z)
	}
	return out
}

func warn(logger *log.Logger, msg string, kv ...any) {
	if logger != nil {
		logger.Warn(msg, kv...)
	}
}
