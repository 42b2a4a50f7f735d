package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/apecglobal/logofield/internal/config"
	"github.com/apecglobal/logofield/pkg/buildinfo"
	"github.com/apecglobal/logofield/pkg/cache"
	"github.com/apecglobal/logofield/pkg/pipeline"
)

// appName is the application name used in help text and hints.
const appName = "logofield"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty selects the default location.
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Logofield lays out company logos around a splash page",
		Long: `Logofield computes non-overlapping positions for the member companies of a
tenant portal, keeping a central content region free, and renders the result
as SVG, HTML, JSON, Graphviz DOT, PNG or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/logofield/config.toml)")

	root.AddCommand(c.placeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.pinCommand())
	root.AddCommand(c.unpinCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tenantsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	c.registerTenantCompletion(root)

	return root
}

// config loads the configuration on first use.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path, "tenants", len(cfg.Tenants))
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with the configured cache and pin
// store. noCache swaps the cache for a NullCache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	var backend cache.Cache = cache.NewNullCache()
	if !noCache {
		if backend, err = cfg.OpenCache(ctx); err != nil {
			c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "err", err)
			backend = cache.NewNullCache()
		}
	}

	store, err := cfg.OpenStore(ctx)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("open pin store: %w", err)
	}
	return pipeline.NewRunner(backend, nil, store, c.Logger), nil
}
