package pipeline

import (
	"encoding/json"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/apecglobal/logofield/pkg/cache"
	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/placement"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout places one marker per entity and builds the layout document.
// The result is fully determined by the entities, seed and options except
// for its ID and creation time.
func GenerateLayout(entities []layout.Entity, seed uint64, opts Options) (layout.Layout, error) {
	opts.SetLayoutDefaults()
	popts := opts.PlacementOptions()

	p := placement.Place(len(entities), placement.NewRand(seed), &popts)
	return layout.Build(entities, p, layout.Meta{
		ID:      uuid.NewString(),
		Tenant:  opts.Tenant,
		Seed:    seed,
		Width:   opts.Width,
		Height:  opts.Height,
		Options: popts,
		Now:     time.Now(),
	})
}

// DeriveSeed returns a deterministic seed for a tenant's entity list. Only
// the tenant and the ordered entity IDs contribute, so renaming a company or
// changing its logo keeps every marker in place.
func DeriveSeed(tenant string, entities []layout.Entity) uint64 {
	h := fnv.New64a()
	h.Write([]byte(tenant))
	for _, e := range entities {
		h.Write([]byte{0})
		h.Write([]byte(e.ID))
	}
	if s := h.Sum64(); s != 0 {
		return s
	}
	return 1
}

// EntitiesHash returns the content hash of an entity list.
func EntitiesHash(entities []layout.Entity) string {
	data, _ := json.Marshal(entities)
	return cache.Hash(data)
}

// TierCounts converts placement stats to the per-tier map reported to hooks.
func TierCounts(s placement.Stats) map[string]int {
	return map[string]int{
		placement.TierRandom.String():   s.Random,
		placement.TierFallback.String(): s.Fallback,
		placement.TierCircular.String(): s.Circular,
	}
}
