package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/apecglobal/logofield/internal/config"
	"github.com/apecglobal/logofield/pkg/cache"
	"github.com/apecglobal/logofield/pkg/pipeline"
	"github.com/apecglobal/logofield/pkg/placement"
)

// placementFlags are the engine parameters shared by place, layout and render.
type placementFlags struct {
	seed        uint64
	minDistance float64
	maxAttempts int
	zones       []string
	noZones     bool
}

func (f *placementFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (0: derived from the tenant and its entities)")
	cmd.Flags().Float64Var(&f.minDistance, "min-distance", 0, "minimum distance between markers in percent (default 12)")
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", 0, "random candidates per marker before falling back (default 150)")
	cmd.Flags().StringArrayVar(&f.zones, "zone", nil, "safe zone as left,right,top,bottom (repeatable)")
	cmd.Flags().BoolVar(&f.noZones, "no-zones", false, "place without any safe zone")
}

// safeZones returns nil when no zone flag was given so the configured or
// built-in default applies.
func (f *placementFlags) safeZones() ([]placement.SafeZone, error) {
	if f.noZones {
		if len(f.zones) > 0 {
			return nil, errors.New("--zone and --no-zones are mutually exclusive")
		}
		return []placement.SafeZone{}, nil
	}
	if len(f.zones) == 0 {
		return nil, nil
	}
	zones := make([]placement.SafeZone, len(f.zones))
	for i, raw := range f.zones {
		z, err := config.ParseZone(raw)
		if err != nil {
			return nil, err
		}
		zones[i] = z
	}
	return zones, nil
}

// apply overrides opts with every flag the user set.
func (f *placementFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	if cmd.Flags().Changed("seed") {
		opts.Seed = f.seed
	}
	if cmd.Flags().Changed("min-distance") {
		opts.MinDistance = f.minDistance
	}
	if cmd.Flags().Changed("max-attempts") {
		opts.MaxAttempts = f.maxAttempts
	}
	zones, err := f.safeZones()
	if err != nil {
		return err
	}
	if zones != nil {
		opts.SafeZones = zones
	}
	return nil
}

// sourceFlags select what gets laid out: a configured tenant or a number of
// placeholder entities.
type sourceFlags struct {
	placementFlags
	tenant  string
	count   int
	width   float64
	height  float64
	refresh bool
	noCache bool
}

func (f *sourceFlags) bind(cmd *cobra.Command) {
	f.placementFlags.bind(cmd)
	cmd.Flags().StringVarP(&f.tenant, "tenant", "t", "", "configured tenant")
	cmd.Flags().IntVarP(&f.count, "count", "n", 0, "lay out N placeholder entities instead of a tenant")
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width in pixels")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height in pixels")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass the entity cache")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.MarkFlagsMutuallyExclusive("tenant", "count")
}

// options builds pipeline options for the selected tenant or placeholder
// count. backend caches portal responses.
func (f *sourceFlags) options(cmd *cobra.Command, cfg *config.Config, backend cache.Cache) (pipeline.Options, error) {
	var opts pipeline.Options
	switch {
	case f.tenant != "":
		t, err := cfg.Tenant(f.tenant)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = cfg.Options(t, backend)
	case cmd.Flags().Changed("count"):
		opts = pipeline.Options{
			Count:       f.count,
			Width:       cfg.Layout.Width,
			Height:      cfg.Layout.Height,
			MinDistance: cfg.Layout.MinDistance,
			MaxAttempts: cfg.Layout.MaxAttempts,
			SafeZones:   cfg.Layout.SafeZones,
			Formats:     cfg.Layout.Formats,
		}
	default:
		return pipeline.Options{}, errors.New("set --tenant or --count")
	}

	if err := f.override(cmd, &opts); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// override applies the viewport, refresh and placement flags to opts.
func (f *sourceFlags) override(cmd *cobra.Command, opts *pipeline.Options) error {
	if f.width > 0 {
		opts.Width = f.width
	}
	if f.height > 0 {
		opts.Height = f.height
	}
	opts.Refresh = f.refresh
	return f.placementFlags.apply(cmd, opts)
}
