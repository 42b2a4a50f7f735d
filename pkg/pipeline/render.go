package pipeline

import (
	"context"
	"fmt"

	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/render"
	"github.com/apecglobal/logofield/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatHTML:
			data = sink.RenderHTML(l, buildHTMLOptions(opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(l)
		case FormatDOT:
			data = sink.RenderDOT(l, buildDOTOptions(opts))
		case FormatPNG:
			data, err = renderPNG(ctx, l, opts, svgOpts)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, l, svgOpts...)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderPNG rasterizes the SVG with rsvg-convert when the layout shows logos
// and the tool is installed, so the images are embedded. Otherwise Graphviz
// draws lettered badges.
func renderPNG(ctx context.Context, l layout.Layout, opts Options, svgOpts []sink.SVGOption) ([]byte, error) {
	if hasLogos(l) && render.Available() {
		return sink.RenderRaster(ctx, l, opts.Scale, svgOpts...)
	}
	return sink.RenderPNG(ctx, l, buildDOTOptions(opts))
}

func hasLogos(l layout.Layout) bool {
	for _, m := range l.Markers {
		if m.LogoURL != "" {
			return true
		}
	}
	return false
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.ShowZones {
		svgOpts = append(svgOpts, sink.WithZones())
	}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	return svgOpts
}

func buildHTMLOptions(opts Options) []sink.HTMLOption {
	var htmlOpts []sink.HTMLOption
	if opts.ShowZones {
		htmlOpts = append(htmlOpts, sink.WithHTMLZones())
	}
	if opts.Title != "" {
		htmlOpts = append(htmlOpts, sink.WithTitle(opts.Title))
	}
	return htmlOpts
}

func buildDOTOptions(opts Options) sink.DOTOptions {
	return sink.DOTOptions{Zones: opts.ShowZones, Scale: opts.Scale}
}
