package cache

import "fmt"

// Keyer generates cache keys. Implementations must be deterministic: equal
// inputs always produce equal keys.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// EntitiesKey keys the entity list of a tenant fetched from source.
	EntitiesKey(tenant, source string) string

	// LayoutKey keys a computed layout for count entities.
	LayoutKey(count int, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact of the layout with hash layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every input besides the count that changes a layout.
type LayoutKeyOpts struct {
	ConfigHash   string  `json:"config_hash"`
	Seed         uint64  `json:"seed"`
	EntitiesHash string  `json:"entities_hash,omitempty"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
}

// ArtifactKeyOpts holds every render option that changes an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	ShowZones bool    `json:"show_zones,omitempty"`
	Labels    bool    `json:"labels,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
	Title     string  `json:"title,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key generator.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

func (DefaultKeyer) EntitiesKey(tenant, source string) string {
	return hashKey("entities", tenant, source)
}

func (DefaultKeyer) LayoutKey(count int, opts LayoutKeyOpts) string {
	return hashKey("layout", count, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
