package swatch

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/xob0t/hueslice/pkg/colorspace"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	if l.SliceWidth != 256 || l.SliceHeight != 256 {
		t.Errorf("slice size = %dx%d, want 256x256", l.SliceWidth, l.SliceHeight)
	}
	if l.WithUnits == nil || !*l.WithUnits {
		t.Error("WithUnits should default to true")
	}
	if l.Background != "#1a1a2e" {
		t.Errorf("Background = %q", l.Background)
	}
}

func TestParseLayoutFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.json")
	data := `{"sliceWidth": 64, "padding": 4, "withUnits": false}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := ParseLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if l.SliceWidth != 64 || l.Padding != 4 {
		t.Errorf("explicit fields lost: %+v", l)
	}
	if l.SliceHeight != 256 || l.FontSize != 16 {
		t.Errorf("defaults not applied: %+v", l)
	}
	if *l.WithUnits {
		t.Error("withUnits false was overridden")
	}
}

func TestParseLayoutErrors(t *testing.T) {
	if _, err := ParseLayoutFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := ParseLayout([]byte("{not json")); err == nil {
		t.Error("expected error for bad JSON")
	}
}

func TestExampleLayoutJSON(t *testing.T) {
	l, err := ParseLayout([]byte(ExampleLayoutJSON()))
	if err != nil {
		t.Fatalf("example layout does not parse: %v", err)
	}
	def := DefaultLayout()
	if l.SliceWidth != def.SliceWidth || l.SpectrumHeight != def.SpectrumHeight || l.Background != def.Background {
		t.Errorf("example layout %+v differs from defaults %+v", l, def)
	}
}

func TestLabels(t *testing.T) {
	r, err := NewRenderer(nil)
	if err != nil {
		t.Fatal(err)
	}
	got := r.Labels(colorspace.RGB{R: 255})
	want := []string{"#FF0000", "rgb(r:255, g:0, b:0)", "hsv(h:0, s:100, v:100)"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, got[i], want[i])
		}
	}

	off := false
	r, err = NewRenderer(&Layout{WithUnits: &off})
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Labels(colorspace.RGB{R: 255})[1]; got != "rgb(255, 0, 0)" {
		t.Errorf("unitless rgb label = %q", got)
	}
}

func TestRender(t *testing.T) {
	l := &Layout{SliceWidth: 40, SliceHeight: 30, SpectrumHeight: 6, SwatchSize: 20, Padding: 5}
	r, err := NewRenderer(l)
	if err != nil {
		t.Fatal(err)
	}
	c := colorspace.HSV{H: 120, S: 50, V: 50}
	img, err := r.Render(c)
	if err != nil {
		t.Fatal(err)
	}

	b := img.Bounds()
	if b.Dy() < 5*3+30+6 {
		t.Errorf("card height %d too small", b.Dy())
	}
	if b.Dx() < 5*3+40+20 {
		t.Errorf("card width %d too small", b.Dx())
	}

	// Background corner.
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0x1a, 0x1a, 0x2e, 255}) {
		t.Errorf("background = %v", got)
	}

	// Swatch centre holds the colour itself.
	rgb := c.ToRGB()
	colX := 5*2 + 40
	if got := img.RGBAAt(colX+10, 5+10); got != (color.RGBA{rgb.R, rgb.G, rgb.B, 255}) {
		t.Errorf("swatch = %v, want %v", got, rgb)
	}

	// Slice bottom-left is black (value 0 row edge) away from the cursor.
	if got := img.RGBAAt(5, 5+29); got.R > 10 || got.G > 10 || got.B > 10 {
		t.Errorf("slice bottom-left = %v, want near black", got)
	}

	// Spectrum starts at hue 0, full saturation and value.
	specY := 5 + 30 + 5 + 3
	if got := img.RGBAAt(5, specY); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("spectrum start = %v, want red", got)
	}

	// Hue marker at 120° of a 40px bar.
	if got := img.RGBAAt(5+13, specY); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("hue marker = %v, want white", got)
	}
}

func TestRenderHex(t *testing.T) {
	r, err := NewRenderer(&Layout{SliceWidth: 16, SliceHeight: 16, SwatchSize: 8, Padding: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(colorspace.Hex("#336699")); err != nil {
		t.Fatal(err)
	}
}

func TestFontFallback(t *testing.T) {
	fm, err := NewFontManager(filepath.Join(t.TempDir(), "nope.ttf"))
	if err != nil {
		t.Fatalf("missing font should fall back, got %v", err)
	}
	face, err := fm.Face(12, 0)
	if err != nil {
		t.Fatal(err)
	}
	if face.Metrics().Height <= 0 {
		t.Error("fallback face has no height")
	}
}

func TestParseHexColor(t *testing.T) {
	if got := parseHexColor("#102030"); got != (color.RGBA{0x10, 0x20, 0x30, 255}) {
		t.Errorf("parseHexColor = %v", got)
	}
	if got := parseHexColor("garbage"); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("bad hex should give white, got %v", got)
	}
}

func TestNewRendererFromBytes(t *testing.T) {
	if _, err := NewRendererFromBytes(nil, []byte("not a font")); err == nil {
		t.Error("expected error for invalid font data")
	}
}
