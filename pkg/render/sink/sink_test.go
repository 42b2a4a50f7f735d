package sink

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/placement"
)

func testLayout() layout.Layout {
	return layout.Layout{
		ID:        "l1",
		Tenant:    "acme",
		Width:     1000,
		Height:    500,
		Count:     2,
		SafeZones: []placement.SafeZone{placement.DefaultSafeZone},
		Markers: []layout.Marker{
			{ID: "a", Name: "Apec Digital", LogoURL: "https://cdn.example/a.png", Left: 10, Top: 20, Tier: "random"},
			{ID: "b&c", Name: "Bright <Co>", Left: 80, Top: 85, Tier: "fallback"},
		},
	}
}

func TestRenderSVGWellFormed(t *testing.T) {
	svg := RenderSVG(testLayout(), WithZones(), WithLabels(), WithBackground("#fafafa"))

	dec := xml.NewDecoder(bytes.NewReader(svg))
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("invalid XML: %v\n%s", err, svg)
		}
	}
}

func TestRenderSVGContent(t *testing.T) {
	svg := string(RenderSVG(testLayout()))

	for _, want := range []string{
		`viewBox="0 0 1000.0 500.0"`,
		`id="marker-a"`,
		`class="marker tier-random"`,
		`translate(100.00,100.00)`,
		`translate(800.00,425.00)`,
		`<image href="https://cdn.example/a.png"`,
		`>BC</text>`,
		`Bright &lt;Co&gt;`,
		`id="marker-b&amp;c"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, `class="safe-zone" x=`) {
		t.Error("zones drawn without WithZones")
	}
	if strings.Contains(svg, `class="label"`) {
		t.Error("labels drawn without WithLabels")
	}
}

func TestRenderSVGZones(t *testing.T) {
	svg := string(RenderSVG(testLayout(), WithZones()))
	want := `<rect class="safe-zone" x="300.00" y="100.00" width="400.00" height="300.00"/>`
	if !strings.Contains(svg, want) {
		t.Errorf("SVG missing zone rect %q", want)
	}
}

func TestRenderSVGMarkerSize(t *testing.T) {
	svg := string(RenderSVG(testLayout(), WithMarkerSize(32), WithMarkerSize(-1)))
	if !strings.Contains(svg, `width="32.0" height="32.0"`) {
		t.Error("marker size option not applied")
	}
}

func TestRenderHTML(t *testing.T) {
	doc := string(RenderHTML(testLayout(), WithTitle("Acme"), WithHTMLZones()))

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Acme</title>",
		"aspect-ratio: 1000 / 500",
		`style="left: 10.00%; top: 20.00%"`,
		`style="left: 80.00%; top: 85.00%"`,
		`<img src="https://cdn.example/a.png" alt="Apec Digital">`,
		`data-id="b&amp;c"`,
		`class="safe-zone" style="left: 30.00%; top: 20.00%; width: 40.00%; height: 60.00%"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestRenderHTMLEscapesTier(t *testing.T) {
	l := testLayout()
	l.Markers[0].Tier = `random"><script>alert(1)</script>`
	doc := string(RenderHTML(l, WithHTMLFragment()))
	if strings.Contains(doc, "<script>") {
		t.Error("tier written unescaped")
	}
	if !strings.Contains(doc, `data-tier="random&#34;&gt;&lt;script&gt;`) {
		t.Errorf("escaped tier missing from %s", doc)
	}
}

func TestRenderHTMLFragment(t *testing.T) {
	doc := string(RenderHTML(testLayout(), WithHTMLFragment()))
	if strings.Contains(doc, "<html") || strings.Contains(doc, "<style>") {
		t.Error("fragment should only contain the container")
	}
	if !strings.HasPrefix(doc, `<div class="logofield"`) {
		t.Errorf("fragment starts with %q", doc[:min(len(doc), 30)])
	}
	if got := strings.Count(doc, `class="logo"`); got != 2 {
		t.Errorf("fragment has %d logos, want 2", got)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testLayout())
	if err != nil {
		t.Fatal(err)
	}
	l, err := layout.Unmarshal(data)
	if err != nil {
		t.Fatalf("RenderJSON output does not decode: %v", err)
	}
	if l.Markers[1].Name != "Bright <Co>" {
		t.Errorf("marker name = %q", l.Markers[1].Name)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testLayout(), DOTOptions{Zones: true, Scale: 2})
	for _, want := range []string{
		"layout=neato;",
		"inputscale=72;",
		"dpi=144;",
		`"_extent" [pos="1000.00,500.00!"`,
		`"a" [label="AD"`,
		`pos="100.00,400.00!"`,
		`pos="800.00,75.00!"`,
		`"_zone0"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(ToDOT(testLayout(), DOTOptions{}), "_zone0") {
		t.Error("zones emitted when disabled")
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(context.Background(), testLayout(), DOTOptions{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestInitials(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Apec Digital", "AD"},
		{"apec", "A"},
		{"Apec Global Holdings", "AG"},
		{"  ", "?"},
		{"x-ray_labs", "XR"},
		{"Đông Á", "ĐÁ"},
	}
	for _, tt := range tests {
		if got := initials(tt.in); got != tt.want {
			t.Errorf("initials(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Apec Global", 24); got != "Apec Global" {
		t.Errorf("short name changed: %q", got)
	}
	if got := truncate("Apec Global Investment Holdings", 10); got != "Apec Glo.." {
		t.Errorf("truncate = %q", got)
	}
}

func TestBadgeColorStable(t *testing.T) {
	if badgeColor("acme") != badgeColor("acme") {
		t.Error("badge color not stable")
	}
}
