package integrations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apecglobal/logofield/pkg/cache"
	"github.com/apecglobal/logofield/pkg/layout"
)

// StaticSource serves a fixed entity list.
type StaticSource struct {
	items []layout.Entity
	name  string
}

// NewStaticSource returns a source over a copy of items.
func NewStaticSource(items []layout.Entity) *StaticSource {
	cp := append([]layout.Entity{}, items...)
	data, _ := json.Marshal(cp)
	return &StaticSource{items: cp, name: "static:" + cache.Hash(data)[:12]}
}

// Placeholders returns a static source of n generated entities named
// "Company 1" through "Company n". It backs layouts requested by count alone.
func Placeholders(n int) *StaticSource {
	items := make([]layout.Entity, max(n, 0))
	for i := range items {
		items[i] = layout.Entity{
			ID:   fmt.Sprintf("entity-%d", i+1),
			Name: fmt.Sprintf("Company %d", i+1),
		}
	}
	s := NewStaticSource(items)
	s.name = fmt.Sprintf("placeholders:%d", len(items))
	return s
}

// Entities returns a copy of the configured list.
func (s *StaticSource) Entities(ctx context.Context, refresh bool) ([]layout.Entity, error) {
	return append([]layout.Entity{}, s.items...), nil
}

// Name returns "static:<hash>" or "placeholders:<n>".
func (s *StaticSource) Name() string { return s.name }

var _ Source = (*StaticSource)(nil)
