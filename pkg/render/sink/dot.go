package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/apecglobal/logofield/pkg/layout"
)

// pointsPerInch matches Graphviz's internal unit, so `inputscale=72` makes
// every pos attribute a pixel offset.
const pointsPerInch = 72.0

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Zones draws the layout's safe zones as dashed boxes.
	Zones bool

	// Scale multiplies the raster resolution of [RenderPNG]. Values <= 0
	// render at 1x (72 dpi).
	Scale float64
}

// ToDOT converts a layout to Graphviz DOT for the neato engine.
//
// Every marker becomes a node pinned (`pos="x,y!"`) at its pixel position.
// Graphviz's y axis grows upwards, so y is flipped against the viewport
// height. Two invisible corner anchors keep the drawing at the full viewport
// size.
func ToDOT(l layout.Layout, opts DOTOptions) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	var buf bytes.Buffer
	buf.WriteString("graph splash {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  inputscale=%.0f;\n", pointsPerInch)
	fmt.Fprintf(&buf, "  dpi=%.0f;\n", pointsPerInch*scale)
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  outputorder=\"nodesfirst\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\", fontcolor=white, fixedsize=true];\n")
	buf.WriteString("\n")

	buf.WriteString("  \"_origin\" [pos=\"0,0!\", style=invis, width=0, height=0, label=\"\"];\n")
	fmt.Fprintf(&buf, "  \"_extent\" [pos=\"%.2f,%.2f!\", style=invis, width=0, height=0, label=\"\"];\n", l.Width, l.Height)

	if opts.Zones {
		for i, z := range l.SafeZones {
			cx := (z.Left + z.Width()/2) / 100 * l.Width
			cy := l.Height - (z.Top+z.Height()/2)/100*l.Height
			fmt.Fprintf(&buf, "  \"_zone%d\" [shape=box, style=dashed, color=\"#2e75b6\", label=\"\", fixedsize=true, pos=\"%.2f,%.2f!\", width=%.3f, height=%.3f];\n",
				i, cx, cy, z.Width()/100*l.Width/pointsPerInch, z.Height()/100*l.Height/pointsPerInch)
		}
	}

	buf.WriteString("\n")
	size := DefaultMarkerSize / pointsPerInch
	for _, m := range l.Markers {
		x, y := m.Pixels(l.Width, l.Height)
		fmt.Fprintf(&buf, "  %q [label=%q, tooltip=%q, fillcolor=%q, pos=\"%.2f,%.2f!\", width=%.3f];\n",
			m.ID, initials(m.Name), m.Name, badgeColor(m.ID), x, l.Height-y, size)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT renders a layout to DOT bytes.
func RenderDOT(l layout.Layout, opts DOTOptions) []byte {
	return []byte(ToDOT(l, opts))
}

// RenderPNG rasterizes the DOT form of l with Graphviz's neato engine.
// Logos are shown as lettered badges; use [RenderRaster] for a raster that
// embeds the logo images.
func RenderPNG(ctx context.Context, l layout.Layout, opts DOTOptions) ([]byte, error) {
	return renderGraphviz(ctx, ToDOT(l, opts), graphviz.PNG)
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
