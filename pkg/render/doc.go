// Package render turns computed splash layouts into visual artifacts.
//
// # Overview
//
// The [sink] subpackage holds one renderer per output format. This package
// provides the generic SVG conversion the sinks share:
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// Conversion shells out to rsvg-convert from librsvg, which must be on PATH.
// Use [Available] to check before offering PDF export.
//
// [sink]: github.com/apecglobal/logofield/pkg/render/sink
package render
