package storage

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/apecglobal/logofield/pkg/layout"
)

// MemoryStore keeps pins in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	pins map[string]layout.Layout
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pins: make(map[string]layout.Layout)}
}

func (s *MemoryStore) Get(ctx context.Context, tenant string) (layout.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.pins[tenant]
	if !ok {
		return layout.Layout{}, ErrNotFound
	}
	return clone(l), nil
}

func (s *MemoryStore) Pin(ctx context.Context, l layout.Layout) error {
	l, err := prepare(l)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.pins[l.Tenant] = clone(l)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Unpin(ctx context.Context, tenant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pins[tenant]; !ok {
		return ErrNotFound
	}
	delete(s.pins, tenant)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]layout.Layout, error) {
	s.mu.RLock()
	out := make([]layout.Layout, 0, len(s.pins))
	for _, l := range s.pins {
		out = append(out, clone(l))
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b layout.Layout) int { return strings.Compare(a.Tenant, b.Tenant) })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func clone(l layout.Layout) layout.Layout {
	l.Markers = slices.Clone(l.Markers)
	l.SafeZones = slices.Clone(l.SafeZones)
	return l
}

var _ Store = (*MemoryStore)(nil)
