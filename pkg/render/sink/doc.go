// Package sink renders a computed [layout.Layout] into output formats.
//
// # Formats
//
//   - SVG: markers as logo images or lettered badges over the viewport,
//     with optional safe zone outlines and name labels
//   - HTML: absolutely positioned elements using `left: X%; top: Y%`, the
//     markup the portal splash page embeds
//   - JSON: the layout document itself
//   - DOT: a neato graph with every marker pinned at its pixel position
//   - PNG: the DOT graph rasterized by Graphviz
//   - PDF: the SVG converted with rsvg-convert
//
// Renderers are pure functions of the layout and their options and are safe
// for concurrent use.
//
//	svg := sink.RenderSVG(l, sink.WithZones(), sink.WithLabels())
//	html := sink.RenderHTML(l, sink.WithHTMLFragment())
//	png, err := sink.RenderPNG(ctx, l, sink.DOTOptions{Scale: 2})
//
// [layout.Layout]: github.com/apecglobal/logofield/pkg/layout.Layout
package sink
