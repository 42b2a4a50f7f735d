package integrations

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/apecglobal/logofield/pkg/layout"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Source yields the entities of one tenant in display order.
type Source interface {
	// Entities returns the current entity list. refresh bypasses any cache.
	Entities(ctx context.Context, refresh bool) ([]layout.Entity, error)

	// Name identifies the source in cache keys and logs.
	Name() string
}

// NewHTTPClient creates an HTTP client with the standard request timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
