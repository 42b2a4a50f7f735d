package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apecglobal/logofield/internal/config"
	"github.com/apecglobal/logofield/pkg/layout"
)

// tenantInfo describes a configured tenant and its pin.
type tenantInfo struct {
	Name    string
	Title   string
	Source  string
	Pinned  bool
	PinID   string
	Markers int
}

// tenantsCommand creates the tenants command.
func (c *CLI) tenantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tenants",
		Short: "List configured tenants and their pinned layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := c.tenantInfos(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No tenants configured")
				printDetail("Add [[tenants]] entries to the config file")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tenant", "Title", "Source", "Pin"},
				tenantRows(infos),
			))
			return nil
		},
	}
}

// tenantInfos joins the configured tenants with the pins in the store.
func (c *CLI) tenantInfos(ctx context.Context) ([]tenantInfo, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	pins, err := c.pins(ctx, cfg)
	if err != nil {
		return nil, err
	}

	infos := make([]tenantInfo, len(cfg.Tenants))
	for i := range cfg.Tenants {
		t := &cfg.Tenants[i]
		info := tenantInfo{Name: t.Name, Title: t.Title, Source: t.SourceKind()}
		if pin, ok := pins[t.Name]; ok {
			info.Pinned = true
			info.PinID = pin.ID
			info.Markers = pin.Count
		}
		infos[i] = info
	}
	return infos, nil
}

// pins returns the stored pins by tenant. A store that cannot be opened is
// reported as a warning and treated as empty.
func (c *CLI) pins(ctx context.Context, cfg *config.Config) (map[string]layout.Layout, error) {
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		c.Logger.Warn("pin store unavailable", "backend", cfg.Store.Backend, "err", err)
		return nil, nil
	}
	defer store.Close()

	list, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pins: %w", err)
	}
	pins := make(map[string]layout.Layout, len(list))
	for _, l := range list {
		pins[l.Tenant] = l
	}
	return pins, nil
}

func tenantRows(infos []tenantInfo) [][]string {
	rows := make([][]string, len(infos))
	for i, t := range infos {
		pin := "—"
		if t.Pinned {
			pin = fmt.Sprintf("%s (%s)", shortID(t.PinID), plural(t.Markers, "marker"))
		}
		rows[i] = []string{t.Name, t.Title, t.Source, pin}
	}
	return rows
}

// shortID abbreviates a layout ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
