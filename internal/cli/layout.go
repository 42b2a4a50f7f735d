package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/pipeline"
)

// layoutCommand creates the layout command for computing splash layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags     sourceFlags
		output    string
		ignorePin bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute a splash layout and write it as JSON",
		Long: `Compute a splash layout and write it as JSON.

The layout document records every marker position together with the
parameters that produced it (seed, spacing, safe zones), so the same layout
can be rendered later with 'render layout.json' or pinned.

A tenant's pinned layout is returned as-is while its marker count matches the
current entity list. Use --ignore-pin to compute a fresh one.

Results are cached for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, &flags, output, ignorePin)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <tenant>.layout.json)")
	cmd.Flags().BoolVar(&ignorePin, "ignore-pin", false, "compute a fresh layout even if one is pinned")

	return cmd
}

// runLayout fetches entities, computes the layout and writes output.
func (c *CLI) runLayout(cmd *cobra.Command, flags *sourceFlags, output string, ignorePin bool) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts, err := flags.options(cmd, cfg, runner.Cache)
	if err != nil {
		return err
	}
	opts.IgnorePin = ignorePin
	opts.Logger = c.Logger

	l, cacheHit, err := c.computeLayout(ctx, runner, opts)
	if err != nil {
		return err
	}

	if output == "-" {
		data, err := layout.Marshal(l)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if output == "" {
		output = layoutName(opts) + ".layout.json"
	}
	if err := layout.WriteFile(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(l, cacheHit)
	if l.Stats.Circular > 0 {
		printWarning("%s placed on the fallback circle; consider a smaller --min-distance", plural(l.Stats.Circular, "marker"))
	}
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}

// computeLayout runs fetch and layout behind a spinner.
func (c *CLI) computeLayout(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (layout.Layout, bool, error) {
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	entities, err := runner.Fetch(ctx, opts)
	if err != nil {
		spinner.StopWithError("Fetching entities failed")
		return layout.Layout{}, false, fmt.Errorf("fetch: %w", err)
	}
	l, hit, err := runner.GenerateLayoutWithCacheInfo(ctx, entities, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return layout.Layout{}, false, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return layout.Layout{}, false, ctx.Err()
	}
	return l, hit, nil
}

// layoutName is the default output base name for opts.
func layoutName(opts pipeline.Options) string {
	if opts.Tenant != "" {
		return opts.Tenant
	}
	return fmt.Sprintf("placeholders-%d", opts.Count)
}
