// Package storage keeps pinned splash layouts.
//
// Pinning freezes a tenant's layout: while a pin exists and its marker count
// matches the tenant's current entity count, the pipeline serves the pinned
// document instead of computing a new one. One pin exists per tenant.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and one-shot CLI runs
//   - [FileStore]: JSON files under the user config directory (CLI default)
//   - [MongoStore]: shared collection for the HTTP service
package storage

import (
	"context"
	"errors"

	apperr "github.com/apecglobal/logofield/pkg/errors"
	"github.com/apecglobal/logofield/pkg/layout"
)

// ErrNotFound is returned when a tenant has no pinned layout.
var ErrNotFound = errors.New("pinned layout not found")

// Store persists at most one pinned layout per tenant.
type Store interface {
	// Get returns the tenant's pinned layout or ErrNotFound.
	Get(ctx context.Context, tenant string) (layout.Layout, error)

	// Pin stores l as the pin of l.Tenant, replacing any previous pin.
	Pin(ctx context.Context, l layout.Layout) error

	// Unpin removes the tenant's pin. It returns ErrNotFound if none exists.
	Unpin(ctx context.Context, tenant string) error

	// List returns every pin ordered by tenant.
	List(ctx context.Context) ([]layout.Layout, error)

	Close() error
}

// ValidateTenant checks that name is usable as a key in every backend.
func ValidateTenant(name string) error {
	return apperr.ValidateTenantName(name)
}

func prepare(l layout.Layout) (layout.Layout, error) {
	if err := ValidateTenant(l.Tenant); err != nil {
		return layout.Layout{}, err
	}
	if err := l.Validate(); err != nil {
		return layout.Layout{}, err
	}
	l.Pinned = true
	return l, nil
}
