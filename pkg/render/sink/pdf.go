package sink

import (
	"context"

	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/render"
)

// RenderPDF renders l to SVG and converts it with rsvg-convert.
func RenderPDF(ctx context.Context, l layout.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDFContext(ctx, RenderSVG(l, opts...))
}

// RenderRaster renders l to SVG and rasterizes it with rsvg-convert at scale.
// Unlike [RenderPNG] the result embeds the logo images.
func RenderRaster(ctx context.Context, l layout.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNGContext(ctx, RenderSVG(l, opts...), scale)
}
