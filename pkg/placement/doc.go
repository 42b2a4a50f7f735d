// Package placement computes non-overlapping positions for floating logos.
//
// # Overview
//
// The splash page shows one marker per company scattered around a reserved
// central content region. This package turns a marker count into that many
// positions on a percentage plane (both axes in [0, 100]) such that:
//
//   - every position lies inside the candidate square [Min, Max]²
//   - no position falls inside a declared [SafeZone]
//   - positions are at least MinDistance apart whenever that is achievable
//   - exactly count positions are returned, in input order
//
// # Algorithm
//
// Items are placed greedily, one at a time. Each accepted position becomes an
// obstacle for the items after it; earlier items are never moved. For every
// item three tiers are tried in order:
//
//  1. [TierRandom]: up to MaxAttempts uniform candidates in [Min, Max)².
//  2. [TierFallback]: the first entry of the fallback pool that is outside all
//     zones and far enough from every placed item.
//  3. [TierCircular]: the item is put on a circle of Radius around Center at
//     angle 2π·i/count, clamped into [Min, Max].
//
// Tier 3 always succeeds, so [Generate] is total: it never fails and never
// loops forever. The price is that under heavy load (far more items than the
// free area allows) circular positions may sit closer than MinDistance. That
// is a cosmetic degradation, not an error.
//
// # Randomness
//
// The random source is a parameter. Pass [NewRand] with a fixed seed to get
// reproducible layouts (tests, cached layouts), or nil for an OS-seeded
// source:
//
//	positions := placement.Generate(12, placement.NewRand(42), nil)
//
// # Options
//
// [Options] zero values mean "use the default":
//
//   - MinDistance: 12
//   - MaxAttempts: 150
//   - SafeZones: one centered zone {Left: 30, Right: 70, Top: 20, Bottom: 80}
//   - Fallbacks: eight edge and corner slots outside the default zone
//   - Radius: 40 around Center (50, 50)
//   - Min, Max: 5 and 90
//
// A non-nil empty SafeZones slice disables zones entirely; the same goes for
// Fallbacks. Malformed zones are repaired or dropped by [NormalizeZones] and
// reported through Options.Logger.
package placement
