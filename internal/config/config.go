// Package config loads the logofield configuration.
//
// Configuration is read from a TOML file (--config, or
// $XDG_CONFIG_HOME/logofield/config.toml), after loading a .env file from the
// working directory. Environment variables override file values:
//
//	LOGOFIELD_CACHE      cache backend (null, memory, file, redis)
//	LOGOFIELD_CACHE_DIR  file cache directory
//	LOGOFIELD_STORE      pin store backend (memory, file, mongo)
//	LOGOFIELD_ADDR       HTTP listen address
//	REDIS_URL            redis connection URL
//	MONGO_URI            mongo connection URI
//	PORTAL_BASE_URL      default portal API for tenants without a source
//	PORTAL_API_TOKEN     bearer token for the portal API
//
// A minimal file:
//
//	[layout]
//	min_distance = 12
//
//	[[tenants]]
//	name   = "apec-digital"
//	title  = "Apec Digital"
//	source = "https://portal.example.com/api"
//
//	[[tenants]]
//	name = "demo"
//	entities = [
//	  { id = "a", name = "Alpha", logo_url = "https://cdn.example.com/a.png" },
//	  { id = "b", name = "Beta" },
//	]
package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperr "github.com/apecglobal/logofield/pkg/errors"
	"github.com/apecglobal/logofield/pkg/placement"
)

const appName = "logofield"

// Backend names.
const (
	BackendNull   = "null"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the root of the configuration file.
type Config struct {
	Layout  Layout   `toml:"layout"`
	Cache   Cache    `toml:"cache"`
	Store   Store    `toml:"store"`
	Portal  Portal   `toml:"portal"`
	Server  Server   `toml:"server"`
	Tenants []Tenant `toml:"tenants" validate:"unique=Name,dive"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Layout holds the default layout parameters for every tenant.
type Layout struct {
	Width       float64              `toml:"width" validate:"omitempty,finite,gt=0"`
	Height      float64              `toml:"height" validate:"omitempty,finite,gt=0"`
	MinDistance float64              `toml:"min_distance" validate:"gte=0,lte=100"`
	MaxAttempts int                  `toml:"max_attempts" validate:"gte=0,lte=10000"`
	SafeZones   []placement.SafeZone `toml:"safe_zones" validate:"max=100,dive"` // absent: default zone, []: none
	Formats     []string             `toml:"formats" validate:"dive,oneof=svg html json dot png pdf"`
}

// Cache selects the layout and response cache backend.
type Cache struct {
	Backend  string `toml:"backend" validate:"oneof=null memory file redis"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url" validate:"required_if=Backend redis"`
	Prefix   string `toml:"prefix"`
}

// Store selects the pinned layout backend.
type Store struct {
	Backend  string `toml:"backend" validate:"oneof=memory file mongo"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database string `toml:"database"`
}

// Portal configures access to the portal's company endpoint.
type Portal struct {
	BaseURL string   `toml:"base_url" validate:"omitempty,httpurl"`
	Token   string   `toml:"token"`
	TTL     Duration `toml:"ttl"`
}

// Server configures the HTTP service.
type Server struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Tenant is one subsidiary portal with its own splash page.
type Tenant struct {
	Name  string `toml:"name" validate:"tenant"`
	Title string `toml:"title"`

	// Exactly one entity origin: a portal API base URL, a static list, or a
	// placeholder count. An empty tenant falls back to [Portal.BaseURL].
	Source   string   `toml:"source" validate:"omitempty,httpurl"`
	Token    string   `toml:"token"`
	Entities []Entity `toml:"entities" validate:"unique=ID,dive"`
	Count    int      `toml:"count" validate:"gte=0,lte=1000"`

	// Overrides of [Layout]. Zero values inherit.
	Seed        uint64               `toml:"seed"`
	Width       float64              `toml:"width" validate:"omitempty,finite,gt=0"`
	Height      float64              `toml:"height" validate:"omitempty,finite,gt=0"`
	MinDistance float64              `toml:"min_distance" validate:"gte=0,lte=100"`
	SafeZones   []placement.SafeZone `toml:"safe_zones" validate:"max=100,dive"`
}

// Entity is a statically configured company.
type Entity struct {
	ID      string `toml:"id" validate:"required"`
	Name    string `toml:"name" validate:"required"`
	LogoURL string `toml:"logo_url" validate:"omitempty,logourl"`
}

// Duration is a time.Duration written as a string ("90s", "1h").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration: file cache, file pin store,
// no tenants.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// DefaultPath returns $XDG_CONFIG_HOME/logofield/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration.
//
// An empty path reads DefaultPath if that file exists and the built-in
// defaults otherwise. An explicit path must exist. Unknown keys are an error.
func Load(path string) (*Config, error) {
	loadDotEnv()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	c := &Config{}
	md, err := toml.DecodeFile(path, c)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, apperr.New(apperr.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
		c.Path = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		c = &Config{}
	case errors.Is(err, fs.ErrNotExist):
		return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s", path)
	default:
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	return finish(c)
}

// Parse decodes configuration from TOML text. It applies environment
// overrides and defaults like [Load] but does not read .env.
func Parse(data string) (*Config, error) {
	c := &Config{}
	md, err := toml.Decode(data, c)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidConfig, "unknown key %s", undecoded[0])
	}
	return finish(c)
}

func finish(c *Config) (*Config, error) {
	applyEnv(c)
	c.setDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) setDefaults() {
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendFile
	}
	if c.Store.Dir == "" {
		if dir, err := configDir(); err == nil {
			c.Store.Dir = filepath.Join(dir, "pins")
		}
	}
	if c.Store.Database == "" {
		c.Store.Database = appName
	}
	if c.Portal.TTL.Duration <= 0 {
		c.Portal.TTL.Duration = time.Hour
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout.Duration <= 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}
}

// Validate checks the configuration against its field rules and requires
// every tenant to have exactly one entity origin.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return validationError(err)
	}
	for i := range c.Tenants {
		t := &c.Tenants[i]
		if err := t.checkOrigin(c.Portal.BaseURL); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "tenant %d (%s)", i+1, t.Name)
		}
	}
	return nil
}

func (t *Tenant) checkOrigin(defaultSource string) error {
	origins := 0
	if t.Source != "" {
		origins++
	}
	if len(t.Entities) > 0 {
		origins++
	}
	if t.Count != 0 {
		origins++
	}
	switch {
	case origins > 1:
		return errors.New("set only one of source, entities and count")
	case origins == 0 && defaultSource == "":
		return errors.New("no entity source: set source, entities, count or portal.base_url")
	}
	return nil
}

// Entity origins reported by [Tenant.SourceKind].
const (
	SourcePortal       = "portal"
	SourceStatic       = "static"
	SourcePlaceholders = "placeholders"
)

// SourceKind reports where the tenant's entities come from.
func (t *Tenant) SourceKind() string {
	switch {
	case len(t.Entities) > 0:
		return SourceStatic
	case t.Count > 0:
		return SourcePlaceholders
	default:
		return SourcePortal
	}
}

// TenantNames returns the configured tenant names in file order.
func (c *Config) TenantNames() []string {
	names := make([]string, len(c.Tenants))
	for i, t := range c.Tenants {
		names[i] = t.Name
	}
	return names
}

// Tenant returns the named tenant.
func (c *Config) Tenant(name string) (*Tenant, error) {
	for i := range c.Tenants {
		if c.Tenants[i].Name == name {
			return &c.Tenants[i], nil
		}
	}
	return nil, apperr.New(apperr.ErrCodeTenantNotFound, "unknown tenant %q", name)
}

// =============================================================================
// Paths
// =============================================================================

// CacheDir returns the cache directory using XDG standard (~/.cache/logofield/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// ParseZone parses a safe zone written as "left,right,top,bottom".
func ParseZone(s string) (placement.SafeZone, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return placement.SafeZone{}, apperr.New(apperr.ErrCodeInvalidInput, "zone %q: want left,right,top,bottom", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return placement.SafeZone{}, apperr.New(apperr.ErrCodeInvalidInput, "zone %q: %q is not a number", s, p)
		}
		v[i] = f
	}
	return placement.SafeZone{Left: v[0], Right: v[1], Top: v[2], Bottom: v[3]}, nil
}
