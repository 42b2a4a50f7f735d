package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apecglobal/logofield/pkg/storage"
)

// pinCommand creates the pin command.
func (c *CLI) pinCommand() *cobra.Command {
	var (
		tenant  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Freeze a tenant's current layout",
		Long: `Freeze a tenant's current layout.

A fresh layout is computed from the tenant's current entities and stored as
its pin, replacing any earlier one. Later layout and render runs reuse the
pinned positions until the number of entities changes or the pin is removed
with 'unpin'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			t, err := cfg.Tenant(tenant)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := cfg.Options(t, runner.Cache)
			opts.Refresh = refresh
			opts.Logger = c.Logger

			spinner := newSpinnerWithContext(ctx, "Pinning layout...")
			spinner.Start()
			l, err := runner.Pin(ctx, opts)
			if err != nil {
				spinner.StopWithError("Pin failed")
				return err
			}
			spinner.Stop()

			printSuccess("Pinned %s", StyleHighlight.Render(t.Name))
			printKeyValue("Layout", l.ID)
			printKeyValue("Seed", fmt.Sprint(l.Seed))
			printStats(l, false)
			printNewline()
			printNextStep("Render", appName+" render --tenant "+t.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tenant, "tenant", "t", "", "configured tenant (required)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch entities before pinning")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

// unpinCommand creates the unpin command.
func (c *CLI) unpinCommand() *cobra.Command {
	var tenant string

	cmd := &cobra.Command{
		Use:   "unpin",
		Short: "Remove a tenant's pinned layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if _, err := cfg.Tenant(tenant); err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if err := runner.Unpin(ctx, tenant); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					printInfo("%s has no pinned layout", tenant)
					return nil
				}
				printError("Unpin failed")
				return err
			}
			printSuccess("Unpinned %s", StyleHighlight.Render(tenant))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tenant, "tenant", "t", "", "configured tenant (required)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
