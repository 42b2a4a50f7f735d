package pipeline

import (
	"testing"

	"github.com/apecglobal/logofield/pkg/integrations"
	"github.com/apecglobal/logofield/pkg/layout"
	"github.com/apecglobal/logofield/pkg/placement"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"html", false},
		{"json", false},
		{"dot", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats(" SVG, html,,json ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != "svg" || got[1] != "html" || got[2] != "json" {
		t.Errorf("ParseFormats = %v", got)
	}
	if _, err := ParseFormats("svg,gif"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestEveryFormatHasContentType(t *testing.T) {
	for _, f := range Formats {
		if ContentTypes[f] == "" {
			t.Errorf("format %q has no content type", f)
		}
		if !ValidFormats[f] {
			t.Errorf("format %q missing from ValidFormats", f)
		}
	}
}

func TestOptionsValidateForFetch(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero count", Options{}, false},
		{"count", Options{Count: 12}, false},
		{"negative count", Options{Count: -1}, true},
		{"too many", Options{Count: MaxCount + 1}, true},
		{"source ignores count", Options{Count: -1, Source: integrations.Placeholders(2)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForFetch()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForFetch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.opts.Logger == nil {
				t.Error("Logger should default to a discard logger")
			}
		})
	}
}

func TestOptionsValidateForLayout(t *testing.T) {
	if err := (&Options{MinDistance: -1}).ValidateForLayout(); err == nil {
		t.Error("negative min distance should fail")
	}
	if err := (&Options{MaxAttempts: -5}).ValidateForLayout(); err == nil {
		t.Error("negative max attempts should fail")
	}
	if err := (&Options{MinDistance: 0, MaxAttempts: 0}).ValidateForLayout(); err != nil {
		t.Errorf("zero values select defaults: %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Count: 4}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	width, formats := opts.Width, len(opts.Formats)

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Width != width || len(opts.Formats) != formats {
		t.Error("defaults changed on second call")
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Width != DefaultWidth {
		t.Errorf("Width should be %f, got %f", DefaultWidth, opts.Width)
	}
	if opts.Height != DefaultHeight {
		t.Errorf("Height should be %f, got %f", DefaultHeight, opts.Height)
	}
	if opts.Seed != 0 {
		t.Errorf("Seed should stay 0 (derived later), got %d", opts.Seed)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	ents := []layout.Entity{{ID: "a", Name: "A"}}
	base := Options{Width: 100, Height: 50}
	k1 := base.LayoutKeyOpts(7, ents)

	other := base
	other.MinDistance = 20
	if other.LayoutKeyOpts(7, ents).ConfigHash == k1.ConfigHash {
		t.Error("min distance should change the config hash")
	}

	noZones := base
	noZones.SafeZones = []placement.SafeZone{}
	if noZones.LayoutKeyOpts(7, ents).ConfigHash == k1.ConfigHash {
		t.Error("disabling zones should change the config hash")
	}

	if base.LayoutKeyOpts(8, ents) == k1 {
		t.Error("seed should change the key")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 3, Title: "Acme", ShowZones: true}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Scale != 0 || k.Title != "" || !k.ShowZones {
		t.Errorf("svg key = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Scale != 3 {
		t.Errorf("png key should carry the scale: %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatHTML); k.Title != "Acme" {
		t.Errorf("html key should carry the title: %+v", k)
	}
}

func TestDeriveSeed(t *testing.T) {
	ents := []layout.Entity{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

	if DeriveSeed("acme", ents) != DeriveSeed("acme", ents) {
		t.Error("seed not stable")
	}
	if DeriveSeed("acme", ents) == DeriveSeed("globex", ents) {
		t.Error("tenant should change the seed")
	}
	renamed := []layout.Entity{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Beta", LogoURL: "x"}}
	if DeriveSeed("acme", ents) != DeriveSeed("acme", renamed) {
		t.Error("names and logos should not change the seed")
	}
	reordered := []layout.Entity{ents[1], ents[0]}
	if DeriveSeed("acme", ents) == DeriveSeed("acme", reordered) {
		t.Error("order should change the seed")
	}
	if DeriveSeed("", nil) == 0 {
		t.Error("derived seed must be non-zero")
	}
}

func TestGenerateLayout(t *testing.T) {
	ents := []layout.Entity{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	l1, err := GenerateLayout(ents, 42, Options{Tenant: "acme"})
	if err != nil {
		t.Fatal(err)
	}
	l2, err := GenerateLayout(ents, 42, Options{Tenant: "acme"})
	if err != nil {
		t.Fatal(err)
	}

	if l1.ID == l2.ID || l1.ID == "" {
		t.Errorf("layout IDs should be unique, got %q and %q", l1.ID, l2.ID)
	}
	if l1.Count != 3 || l1.Width != DefaultWidth || l1.Tenant != "acme" || l1.Seed != 42 {
		t.Errorf("unexpected layout metadata: %+v", l1)
	}
	for i := range l1.Markers {
		if l1.Markers[i].Position() != l2.Markers[i].Position() {
			t.Errorf("marker %d differs between runs with the same seed", i)
		}
		if placement.DefaultSafeZone.Contains(l1.Markers[i].Position()) {
			t.Errorf("marker %d inside the default safe zone", i)
		}
	}
}

func TestTierCounts(t *testing.T) {
	got := TierCounts(placement.Stats{Random: 3, Fallback: 2, Circular: 1})
	if got["random"] != 3 || got["fallback"] != 2 || got["circular"] != 1 {
		t.Errorf("TierCounts = %v", got)
	}
}

func TestHasLogos(t *testing.T) {
	if hasLogos(layout.Layout{Markers: []layout.Marker{{ID: "a"}, {ID: "b"}}}) {
		t.Error("badges only: hasLogos = true")
	}
	if !hasLogos(layout.Layout{Markers: []layout.Marker{{ID: "a"}, {ID: "b", LogoURL: "https://cdn.example.com/b.png"}}}) {
		t.Error("one logo: hasLogos = false")
	}
}
