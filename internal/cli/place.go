package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/apecglobal/logofield/pkg/pipeline"
	"github.com/apecglobal/logofield/pkg/placement"
)

// placedItem is one row of place output.
type placedItem struct {
	Index int     `json:"index"`
	Left  float64 `json:"left"`
	Top   float64 `json:"top"`
	Tier  string  `json:"tier"`
}

type placeOutput struct {
	Count     int             `json:"count"`
	Seed      uint64          `json:"seed"`
	Positions []placedItem    `json:"positions"`
	Stats     placement.Stats `json:"stats"`
}

// placeCommand creates the place command, a direct front end to the
// placement engine.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		flags  placementFlags
		count  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Print non-overlapping positions for N items",
		Long: `Print non-overlapping positions for N items.

Positions are percentages of the viewport, measured from the top-left corner.
Each item is placed by random search first, then from a list of edge and
corner slots, and finally on a circle around the center. The tier column shows
which strategy placed the item.

Without --seed a random seed is chosen and printed so the run can be repeated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 || count > pipeline.MaxCount {
				return fmt.Errorf("--count must be between 0 and %d", pipeline.MaxCount)
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				MinDistance: cfg.Layout.MinDistance,
				MaxAttempts: cfg.Layout.MaxAttempts,
				SafeZones:   cfg.Layout.SafeZones,
			}
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}
			opts.Logger = c.Logger

			seed := opts.Seed
			if seed == 0 {
				seed = rand.Uint64()
			}
			popts := opts.PlacementOptions()
			out := place(count, seed, &popts)
			if asJSON {
				return writePlaceJSON(cmd.OutOrStdout(), out)
			}
			writePlaceTable(cmd.OutOrStdout(), out)
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of items")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func place(count int, seed uint64, opts *placement.Options) placeOutput {
	p := placement.Place(count, placement.NewRand(seed), opts)
	out := placeOutput{
		Count:     count,
		Seed:      seed,
		Positions: make([]placedItem, len(p.Positions)),
		Stats:     p.Stats(),
	}
	for i, pos := range p.Positions {
		out.Positions[i] = placedItem{Index: i, Left: pos.Left, Top: pos.Top, Tier: p.Tiers[i].String()}
	}
	return out
}

func writePlaceJSON(w io.Writer, out placeOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writePlaceTable(w io.Writer, out placeOutput) {
	rows := make([][]string, len(out.Positions))
	for i, p := range out.Positions {
		rows[i] = []string{
			fmt.Sprint(p.Index),
			fmt.Sprintf("%.2f", p.Left),
			fmt.Sprintf("%.2f", p.Top),
			p.Tier,
		}
	}
	fmt.Fprintln(w, renderTable([]string{"#", "Left %", "Top %", "Tier"}, rows))
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  seed %d · %d random · %d fallback · %d circular",
		out.Seed, out.Stats.Random, out.Stats.Fallback, out.Stats.Circular)))
}
