package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/pipeline"
)

// renderConcurrency bounds the tenants rendered at once by render --all.
const renderConcurrency = 4

// renderFlags hold the output options of the render command.
type renderFlags struct {
	formats string
	output  string
	zones   bool
	labels  bool
	scale   float64
	title   string
	all     bool
}

// apply copies the render flags onto opts. Formats given on the command
// line replace the configured ones.
func (f *renderFlags) apply(opts *pipeline.Options) error {
	if f.formats != "" {
		formats, err := pipeline.ParseFormats(f.formats)
		if err != nil {
			return err
		}
		opts.Formats = formats
	}
	opts.ShowZones = f.zones
	opts.Labels = f.labels
	opts.Scale = f.scale
	if f.title != "" {
		opts.Title = f.title
	}
	return nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		source sourceFlags
		flags  renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a splash page to SVG, HTML, JSON, DOT, PNG or PDF",
		Long: `Render a splash page to SVG, HTML, JSON, DOT, PNG or PDF.

The layout comes from one of:
  - a layout file written by 'layout'
  - --tenant T, fetching the tenant's entities and computing (or reusing) its layout
  - --count N, laying out N placeholder entities
  - --all, rendering every configured tenant concurrently into the -o directory

Without any of these, an interactive tenant picker opens when stdin is a
terminal.

PNG output uses Graphviz; PDF output requires rsvg-convert on the PATH.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.formats != "" {
				if _, err := pipeline.ParseFormats(flags.formats); err != nil {
					return err
				}
			}
			switch {
			case len(args) == 1:
				if source.tenant != "" || flags.all || cmd.Flags().Changed("count") {
					return errors.New("a layout file cannot be combined with --tenant, --count or --all")
				}
				return c.renderFile(cmd.Context(), args[0], &source, &flags)
			case flags.all:
				if source.tenant != "" || cmd.Flags().Changed("count") {
					return errors.New("--all cannot be combined with --tenant or --count")
				}
				return c.renderAll(cmd, &source, &flags)
			case source.tenant == "" && !cmd.Flags().Changed("count"):
				name, err := c.pickTenant(cmd.Context())
				if err != nil {
					return err
				}
				source.tenant = name
			}
			return c.renderOne(cmd, &source, &flags)
		},
	}

	source.bind(cmd)
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), html, json, dot, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output base path, or directory with --all")
	cmd.Flags().BoolVar(&flags.zones, "zones", false, "outline the safe zones")
	cmd.Flags().BoolVar(&flags.labels, "labels", false, "print names under the markers")
	cmd.Flags().Float64Var(&flags.scale, "scale", 0, "raster scale for png and pdf (default 2)")
	cmd.Flags().StringVar(&flags.title, "title", "", "HTML page title (default: tenant title)")
	cmd.Flags().BoolVar(&flags.all, "all", false, "render every configured tenant")

	return cmd
}

// renderFile renders a layout document read from path.
func (c *CLI) renderFile(ctx context.Context, path string, source *sourceFlags, flags *renderFlags) error {
	l, err := layout.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", path, err)
	}
	runner, err := c.newRunner(ctx, source.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Tenant: l.Tenant, Title: l.Tenant, Logger: c.Logger}
	if err := flags.apply(&opts); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	base := flags.output
	if base == "" {
		base = layoutBase(path)
	}
	paths, err := writeArtifacts(base, opts.Formats, artifacts)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", joinList(opts.Formats))
	for _, p := range paths {
		printFile(p)
	}
	printStats(l, cacheHit)
	return nil
}

// renderOne runs the full pipeline for the selected tenant or placeholder count.
func (c *CLI) renderOne(cmd *cobra.Command, source *sourceFlags, flags *renderFlags) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, source.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts, err := source.options(cmd, cfg, runner.Cache)
	if err != nil {
		return err
	}
	if err := flags.apply(&opts); err != nil {
		return err
	}
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering splash...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := flags.output
	if base == "" {
		base = layoutName(opts)
	}
	paths, err := writeArtifacts(base, opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", layoutName(opts))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Layout, result.CacheInfo.LayoutHit)
	return nil
}

// renderAll renders every configured tenant into one directory. Tenants are
// processed concurrently; the first failure cancels the rest.
func (c *CLI) renderAll(cmd *cobra.Command, source *sourceFlags, flags *renderFlags) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if len(cfg.Tenants) == 0 {
		return errors.New("no tenants configured")
	}
	dir := flags.output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, source.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	written := make([][]string, len(cfg.Tenants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderConcurrency)
	for i := range cfg.Tenants {
		t := &cfg.Tenants[i]
		g.Go(func() error {
			opts := cfg.Options(t, runner.Cache)
			if err := source.override(cmd, &opts); err != nil {
				return err
			}
			paths, err := c.renderTenant(forTenant(gctx, c.Logger, t.Name), runner, opts, flags, filepath.Join(dir, t.Name))
			if err != nil {
				return fmt.Errorf("%s: %w", t.Name, err)
			}
			written[i] = paths
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	prog.done("Rendered " + plural(len(cfg.Tenants), "tenant"))
	for _, paths := range written {
		for _, p := range paths {
			printFile(p)
		}
	}
	return nil
}

// renderTenant runs the pipeline for one tenant of render --all and writes
// its artifacts under base.
func (c *CLI) renderTenant(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, flags *renderFlags, base string) ([]string, error) {
	logger := loggerFromContext(ctx)
	if err := flags.apply(&opts); err != nil {
		return nil, err
	}
	opts.Logger = logger

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("rendered", "markers", result.Layout.Count, "pinned", result.CacheInfo.Pinned)
	return writeArtifacts(base, opts.Formats, result.Artifacts)
}

// writeArtifacts writes base.<format> for each format in order.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, fmt.Errorf("no %s output produced", format)
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// layoutBase derives the output base from a layout file path by stripping
// ".layout.json" or the extension.
func layoutBase(path string) string {
	if base, ok := strings.CutSuffix(path, ".layout.json"); ok {
		return base
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}
