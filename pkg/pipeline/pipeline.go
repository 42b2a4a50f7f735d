// Package pipeline provides the splash layout pipeline shared by the CLI
// and the HTTP service.
//
// This package implements the complete fetch → layout → render pipeline. By
// centralizing it, every entry point resolves tenants, seeds, pins and cache
// keys the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: Resolve the tenant's entity list from its [integrations.Source]
//     (or generate placeholders when only a count is given)
//  2. Layout: Place one marker per entity with the placement engine, unless
//     a pinned layout for the tenant still matches the entity count
//  3. Render: Generate output in the requested formats (SVG, HTML, JSON,
//     DOT, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	opts := pipeline.Options{
//	    Tenant:  "apec-digital",
//	    Source:  portal.NewClient(cache, baseURL, token, ttl),
//	    Formats: []string{"svg", "html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["html"]
//
// # Seeds
//
// Options.Seed 0 derives the seed from the tenant and the entity IDs (see
// [DeriveSeed]), so the same entity list always yields the same layout and
// the layout cache stays effective. Any other value is used as is.
//
// [integrations.Source]: github.com/apecglobal/logofield/pkg/integrations.Source
package pipeline

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/apecglobal/logofield/pkg/cache"
	"github.com/apecglobal/logofield/pkg/integrations"
	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/placement"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// MaxCount bounds the number of markers one layout may hold.
	MaxCount = 10000

	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = layout.DefaultHeight

	// DefaultScale is the default raster scale for PNG output.
	DefaultScale = 2.0

	// MaxScale bounds the raster scale.
	MaxScale = 8.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported output format in display order.
var Formats = []string{FormatSVG, FormatHTML, FormatJSON, FormatDOT, FormatPNG, FormatPDF}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatHTML: "text/html; charset=utf-8",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Fetch options
	Tenant  string `json:"tenant,omitempty"`
	Count   int    `json:"count,omitempty"` // placeholder count when Source is nil
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Width       float64              `json:"width,omitempty"`
	Height      float64              `json:"height,omitempty"`
	Seed        uint64               `json:"seed,omitempty"`
	MinDistance float64              `json:"min_distance,omitempty"`
	MaxAttempts int                  `json:"max_attempts,omitempty"`
	SafeZones   []placement.SafeZone `json:"safe_zones"` // nil: default zone, empty: none
	IgnorePin   bool                 `json:"ignore_pin,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	ShowZones bool     `json:"show_zones,omitempty"`
	Labels    bool     `json:"labels,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	Title     string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger         `json:"-"`
	Source integrations.Source `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Entities is the resolved entity list in display order.
	Entities []layout.Entity

	// Layout is the computed or pinned layout.
	Layout layout.Layout

	// LayoutHash is the content hash of the serialized layout.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EntityCount int
	FetchTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FetchHit  bool // Whether the entity list came from cache
	LayoutHit bool // Whether the layout came from cache or a pin
	Pinned    bool // Whether the layout is the tenant's pinned layout
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma separated format list and validates it.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	if err := ValidateFormats(out); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch checks the inputs of the fetch stage.
func (o *Options) ValidateForFetch() error {
	o.setLogger()
	if o.Source == nil && (o.Count < 0 || o.Count > MaxCount) {
		return fmt.Errorf("count must be between 0 and %d, got %d", MaxCount, o.Count)
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if math.IsNaN(o.MinDistance) || o.MinDistance < 0 {
		return fmt.Errorf("min_distance must be non-negative, got %v", o.MinDistance)
	}
	if o.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be non-negative, got %d", o.MaxAttempts)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if math.IsNaN(o.Scale) || o.Scale > MaxScale {
		return fmt.Errorf("scale must be at most %v, got %v", MaxScale, o.Scale)
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PlacementOptions returns the placement engine options for this run.
func (o *Options) PlacementOptions() placement.Options {
	return placement.Options{
		MinDistance: o.MinDistance,
		MaxAttempts: o.MaxAttempts,
		SafeZones:   o.SafeZones,
		Logger:      o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(seed uint64, entities []layout.Entity) cache.LayoutKeyOpts {
	popts := o.PlacementOptions()
	return cache.LayoutKeyOpts{
		ConfigHash:   popts.Hash(),
		Seed:         seed,
		EntitiesHash: EntitiesHash(entities),
		Width:        o.Width,
		Height:       o.Height,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		ShowZones: o.ShowZones,
		Labels:    o.Labels,
	}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatHTML:
		k.Title = o.Title
	}
	return k
}
