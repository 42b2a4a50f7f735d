package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/apecglobal/logofield/pkg/layout"
)

const splashCSS = `
  .logofield { position: relative; width: 100%%; aspect-ratio: %.0f / %.0f; overflow: hidden; }
  .logofield .logo { position: absolute; width: %.2f%%; aspect-ratio: 1; display: flex; align-items: center; justify-content: center; transition: transform .2s ease; }
  .logofield .logo:hover { transform: scale(1.12); }
  .logofield .logo img { max-width: 100%%; max-height: 100%%; object-fit: contain; }
  .logofield .badge { width: 100%%; height: 100%%; border-radius: 50%%; color: #fff; font: bold 1.2em sans-serif; display: flex; align-items: center; justify-content: center; }
  .logofield .safe-zone { position: absolute; border: 1px dashed #2e75b6; background: rgba(46, 117, 182, .06); pointer-events: none; }`

// HTMLOption configures [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	fragment bool
	zones    bool
	title    string
	size     float64
}

// WithHTMLFragment emits only the container element, without <html> and <head>.
func WithHTMLFragment() HTMLOption { return func(r *htmlRenderer) { r.fragment = true } }

// WithHTMLZones draws the safe zones as dashed boxes.
func WithHTMLZones() HTMLOption { return func(r *htmlRenderer) { r.zones = true } }

// WithTitle sets the document title.
func WithTitle(t string) HTMLOption { return func(r *htmlRenderer) { r.title = t } }

// WithHTMLMarkerSize sets the marker size in pixels of the layout viewport.
// It is converted to a percentage of the viewport width.
func WithHTMLMarkerSize(px float64) HTMLOption {
	return func(r *htmlRenderer) {
		if px > 0 {
			r.size = px
		}
	}
}

// RenderHTML renders l as absolutely positioned elements inside a container
// that keeps the layout's aspect ratio. Every marker is placed with
// `left: X%; top: Y%` taken directly from the layout.
func RenderHTML(l layout.Layout, opts ...HTMLOption) []byte {
	r := htmlRenderer{title: "Splash", size: DefaultMarkerSize}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	if !r.fragment {
		buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
		fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(r.title))
		buf.WriteString("<style>")
		fmt.Fprintf(&buf, splashCSS, l.Width, l.Height, r.size/l.Width*100)
		buf.WriteString("\n</style>\n</head>\n<body>\n")
	}

	fmt.Fprintf(&buf, `<div class="logofield" data-tenant="%s" data-count="%d">`+"\n", html.EscapeString(l.Tenant), l.Count)
	if r.zones {
		for _, z := range l.SafeZones {
			fmt.Fprintf(&buf, `  <div class="safe-zone" style="left: %.2f%%; top: %.2f%%; width: %.2f%%; height: %.2f%%"></div>`+"\n",
				z.Left, z.Top, z.Width(), z.Height())
		}
	}
	for _, m := range l.Markers {
		fmt.Fprintf(&buf, `  <div class="logo" data-id="%s" data-tier="%s" title="%s" style="left: %.2f%%; top: %.2f%%">`,
			html.EscapeString(m.ID), html.EscapeString(m.Tier), html.EscapeString(m.Name), m.Left, m.Top)
		if m.LogoURL != "" {
			fmt.Fprintf(&buf, `<img src="%s" alt="%s">`, html.EscapeString(m.LogoURL), html.EscapeString(m.Name))
		} else {
			fmt.Fprintf(&buf, `<span class="badge" style="background: %s">%s</span>`,
				badgeColor(m.ID), html.EscapeString(initials(m.Name)))
		}
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</div>\n")

	if !r.fragment {
		buf.WriteString("</body>\n</html>\n")
	}
	return buf.Bytes()
}
