package sink

import "github.com/apecglobal/logofield/pkg/layout"

// RenderJSON returns the pretty-printed layout document.
func RenderJSON(l layout.Layout) ([]byte, error) {
	return layout.Marshal(l)
}
