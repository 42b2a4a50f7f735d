package sink

import (
	"bytes"
	"fmt"

	"github.com/apecglobal/logofield/pkg/layout"
)

// DefaultMarkerSize is the edge length of a marker in pixels.
const DefaultMarkerSize = 64.0

const markerCSS = `
    .marker { transition: transform 0.2s ease; transform-box: fill-box; transform-origin: center; cursor: pointer; }
    .marker:hover { transform: scale(1.12); }
    .marker .badge { stroke: #ffffff; stroke-width: 2; }
    .marker .initials { fill: #ffffff; font: bold 22px sans-serif; text-anchor: middle; dominant-baseline: central; }
    .marker .label { fill: #333333; font: 12px sans-serif; text-anchor: middle; }
    .safe-zone { fill: rgba(46, 117, 182, 0.06); stroke: #2e75b6; stroke-width: 1.5; stroke-dasharray: 8 6; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	size       float64
	zones      bool
	labels     bool
	background string
}

// WithMarkerSize sets the marker edge length in pixels.
func WithMarkerSize(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.size = px
		}
	}
}

// WithZones outlines the safe zones the layout avoided.
func WithZones() SVGOption { return func(r *svgRenderer) { r.zones = true } }

// WithLabels prints each marker's name below it.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithBackground fills the viewport with color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{size: DefaultMarkerSize}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG renders l as a standalone SVG document sized to the layout viewport.
// Markers are drawn in layout order, so later markers overlap earlier ones.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", markerCSS)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}
	if r.zones {
		for _, z := range l.SafeZones {
			fmt.Fprintf(&buf, `  <rect class="safe-zone" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
				z.Left/100*l.Width, z.Top/100*l.Height, z.Width()/100*l.Width, z.Height()/100*l.Height)
		}
	}
	for _, m := range l.Markers {
		r.renderMarker(&buf, l, m)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderMarker(buf *bytes.Buffer, l layout.Layout, m layout.Marker) {
	x, y := m.Pixels(l.Width, l.Height)
	s := r.size
	half := s / 2

	fmt.Fprintf(buf, `  <g class="marker tier-%s" id="marker-%s" transform="translate(%.2f,%.2f)">`+"\n",
		escapeXML(m.Tier), escapeXML(m.ID), x, y)
	fmt.Fprintf(buf, "    <title>%s</title>\n", escapeXML(m.Name))

	if m.LogoURL != "" {
		fmt.Fprintf(buf, `    <image href="%s" width="%.1f" height="%.1f" preserveAspectRatio="xMidYMid meet"/>`+"\n",
			escapeXML(m.LogoURL), s, s)
	} else {
		fmt.Fprintf(buf, `    <circle class="badge" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			half, half, half, badgeColor(m.ID))
		fmt.Fprintf(buf, `    <text class="initials" x="%.1f" y="%.1f">%s</text>`+"\n",
			half, half, escapeXML(initials(m.Name)))
	}
	if r.labels {
		fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f">%s</text>`+"\n",
			half, s+16, escapeXML(truncate(m.Name, 24)))
	}
	buf.WriteString("  </g>\n")
}
