// Package layout defines the serializable splash layout document.
//
// A [Layout] pairs every entity (company) with the position computed for it
// by the placement engine, together with the parameters needed to reproduce
// or re-render it: viewport size, seed, effective placement options and the
// options hash. The same document is written to the layout cache, stored as
// a pinned layout, returned by the HTTP API and consumed by every sink.
package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	apperr "github.com/apecglobal/logofield/pkg/errors"
	"github.com/apecglobal/logofield/pkg/placement"
)

// Default viewport dimensions in pixels.
const (
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0
)

// =============================================================================
// Entity - Layout Input
// =============================================================================

// Entity is a named item that gets one marker on the splash page.
type Entity struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	LogoURL string `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
}

// =============================================================================
// Layout - Splash Layout Document
// =============================================================================

// Layout is the unified serialization format for a computed splash layout.
type Layout struct {
	ID        string    `json:"id" bson:"id"`
	Tenant    string    `json:"tenant,omitempty" bson:"tenant,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Pinned    bool      `json:"pinned,omitempty" bson:"pinned,omitempty"`

	// Viewport
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Reproduction parameters
	Count       int                  `json:"count" bson:"count"`
	Seed        uint64               `json:"seed" bson:"seed"`
	MinDistance float64              `json:"min_distance" bson:"min_distance"`
	MaxAttempts int                  `json:"max_attempts" bson:"max_attempts"`
	SafeZones   []placement.SafeZone `json:"safe_zones" bson:"safe_zones"`
	ConfigHash  string               `json:"config_hash" bson:"config_hash"`

	Markers []Marker        `json:"markers" bson:"markers"`
	Stats   placement.Stats `json:"stats" bson:"stats"`
}

// Marker is one positioned entity.
type Marker struct {
	ID      string  `json:"id" bson:"id"`
	Name    string  `json:"name" bson:"name"`
	LogoURL string  `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	Left    float64 `json:"left" bson:"left"`
	Top     float64 `json:"top" bson:"top"`
	Tier    string  `json:"tier" bson:"tier"`
}

// Position returns the marker's percentage coordinates.
func (m Marker) Position() placement.Position {
	return placement.Position{Left: m.Left, Top: m.Top}
}

// Pixels maps the marker's percentage offsets onto a width×height viewport,
// the way CSS resolves `left: X%; top: Y%`.
func (m Marker) Pixels(width, height float64) (x, y float64) {
	return m.Left / 100 * width, m.Top / 100 * height
}

// Meta carries the non-positional fields of a new layout.
type Meta struct {
	ID      string
	Tenant  string
	Seed    uint64
	Width   float64
	Height  float64
	Options placement.Options
	Now     time.Time
}

// Build zips entities with the positions of p by index. p must hold exactly
// one position per entity.
func Build(entities []Entity, p placement.Placement, meta Meta) (Layout, error) {
	if len(entities) != len(p.Positions) {
		return Layout{}, fmt.Errorf("build layout: %d entities but %d positions", len(entities), len(p.Positions))
	}

	opts := meta.Options.Resolved()
	l := Layout{
		ID:          meta.ID,
		Tenant:      meta.Tenant,
		CreatedAt:   meta.Now.UTC(),
		Width:       meta.Width,
		Height:      meta.Height,
		Count:       len(entities),
		Seed:        meta.Seed,
		MinDistance: opts.MinDistance,
		MaxAttempts: opts.MaxAttempts,
		SafeZones:   opts.SafeZones,
		ConfigHash:  meta.Options.Hash(),
		Markers:     make([]Marker, len(entities)),
		Stats:       p.Stats(),
	}
	if l.Width <= 0 {
		l.Width = DefaultWidth
	}
	if l.Height <= 0 {
		l.Height = DefaultHeight
	}
	for i, e := range entities {
		pos := p.Positions[i]
		l.Markers[i] = Marker{
			ID:      e.ID,
			Name:    e.Name,
			LogoURL: e.LogoURL,
			Left:    pos.Left,
			Top:     pos.Top,
			Tier:    p.Tiers[i].String(),
		}
	}
	return l, nil
}

// Positions returns the marker positions in order.
func (l Layout) Positions() []placement.Position {
	out := make([]placement.Position, len(l.Markers))
	for i, m := range l.Markers {
		out[i] = m.Position()
	}
	return out
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Layout and checks that it holds
// one marker per counted entity.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the structural invariants of a decoded layout.
func (l Layout) Validate() error {
	if l.Count < 0 {
		return apperr.New(apperr.ErrCodeInvalidLayout, "layout count must be non-negative, got %d", l.Count)
	}
	if len(l.Markers) != l.Count {
		return apperr.New(apperr.ErrCodeInvalidLayout, "layout has %d markers but count %d", len(l.Markers), l.Count)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return apperr.New(apperr.ErrCodeInvalidLayout, "layout viewport must be positive, got %gx%g", l.Width, l.Height)
	}
	return nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
