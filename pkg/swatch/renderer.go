// renderer.go - Preview card composition.
// Uses a layered approach: background -> slice with cursor -> spectrum with
// marker -> swatch -> code labels.
package swatch

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/hueslice/pkg/codec"
	"github.com/xob0t/hueslice/pkg/colorspace"
	"github.com/xob0t/hueslice/pkg/raster"
)

// Renderer draws preview cards for one layout.
type Renderer struct {
	layout *Layout
	face   font.Face
}

// NewRenderer creates a card renderer. A nil layout means DefaultLayout.
func NewRenderer(layout *Layout) (*Renderer, error) {
	if layout == nil {
		layout = DefaultLayout()
	}
	l := *layout
	l.applyDefaults()

	fm, err := NewFontManager(l.FontPath)
	if err != nil {
		return nil, err
	}
	return newRenderer(&l, fm)
}

// NewRendererFromBytes creates a card renderer using in-memory font data
// instead of the layout's font path (used by the server and WASM clients).
func NewRendererFromBytes(layout *Layout, fontData []byte) (*Renderer, error) {
	if layout == nil {
		layout = DefaultLayout()
	}
	l := *layout
	l.applyDefaults()

	fm, err := NewFontManagerFromBytes(fontData)
	if err != nil {
		return nil, err
	}
	return newRenderer(&l, fm)
}

func newRenderer(l *Layout, fm *FontManager) (*Renderer, error) {
	face, err := fm.Face(l.FontSize, 72)
	if err != nil {
		return nil, err
	}
	return &Renderer{layout: l, face: face}, nil
}

// Labels returns the three code lines shown on a card for c.
func (r *Renderer) Labels(c colorspace.Color) []string {
	units := *r.layout.WithUnits
	return []string{
		codec.FormatAs(c, codec.Hex, units),
		codec.FormatAs(c, codec.RGB, units),
		codec.FormatAs(c, codec.HSV, units),
	}
}

// Render draws the card for c:
//
//	[ slice (cursor at S/V) ] [ swatch ]
//	[ spectrum (hue marker) ] [ codes  ]
func (r *Renderer) Render(c colorspace.Color) (*image.RGBA, error) {
	l := r.layout
	hsv := c.ToHSV()
	labels := r.Labels(c)

	textW := l.SwatchSize
	for _, s := range labels {
		textW = max(textW, font.MeasureString(r.face, s).Ceil())
	}
	lineH := int(l.FontSize * l.LineHeight)

	colX := l.Padding*2 + l.SliceWidth
	w := colX + textW + l.Padding
	h := max(
		l.Padding*3+l.SliceHeight+l.SpectrumHeight,
		l.Padding*2+l.SwatchSize+lineH*len(labels),
	)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(parseHexColor(l.Background)), image.Point{}, draw.Src)

	rast, err := raster.New(l.SliceWidth, l.SliceHeight)
	if err != nil {
		return nil, fmt.Errorf("card slice: %w", err)
	}
	slice, err := rast.SliceOf(hsv.H)
	if err != nil {
		return nil, fmt.Errorf("card slice: %w", err)
	}
	sliceRect := image.Rect(l.Padding, l.Padding, l.Padding+l.SliceWidth, l.Padding+l.SliceHeight)
	draw.Draw(img, sliceRect, slice, image.Point{}, draw.Src)

	cx, cy := rast.PointOf(hsv.S, hsv.V)
	marker := contrast(hsv)
	drawRing(img, sliceRect.Min.X+cx, sliceRect.Min.Y+cy, 4, marker)

	specRect := image.Rect(l.Padding, sliceRect.Max.Y+l.Padding, l.Padding+l.SliceWidth, sliceRect.Max.Y+l.Padding+l.SpectrumHeight)
	spectrum := rast.Spectrum()
	draw.NearestNeighbor.Scale(img, specRect, spectrum, spectrum.Bounds(), draw.Src, nil)

	mx := specRect.Min.X + min(int(hsv.H/colorspace.MaxHue*float64(l.SliceWidth)), l.SliceWidth-1)
	markRect := image.Rect(mx, specRect.Min.Y, mx+1, specRect.Max.Y)
	draw.Draw(img, markRect, image.NewUniform(color.White), image.Point{}, draw.Src)

	swatchRect := image.Rect(colX, l.Padding, colX+l.SwatchSize, l.Padding+l.SwatchSize)
	draw.Draw(img, swatchRect, image.NewUniform(c.ToRGB()), image.Point{}, draw.Src)

	textColor := parseHexColor(l.TextColor)
	y := swatchRect.Max.Y
	for _, s := range labels {
		y += lineH
		r.drawString(img, s, colX, y, textColor)
	}

	return img, nil
}

// drawString draws text with its baseline at (x, y).
func (r *Renderer) drawString(img *image.RGBA, text string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// drawRing outlines a circle of radius rad centred on (cx, cy).
func drawRing(img *image.RGBA, cx, cy, rad int, col color.Color) {
	for y := cy - rad - 1; y <= cy+rad+1; y++ {
		for x := cx - rad - 1; x <= cx+rad+1; x++ {
			d := math.Hypot(float64(x-cx), float64(y-cy))
			if math.Abs(d-float64(rad)) < 0.75 {
				img.Set(x, y, col)
			}
		}
	}
}

// contrast picks black or white for marks drawn over c.
func contrast(c colorspace.HSV) color.Color {
	if c.V > 60 && c.S < 50 {
		return color.Black
	}
	return color.White
}

// parseHexColor converts a hex colour string to color.RGBA.
// Returns white on any parse error (safe default for rendering).
func parseHexColor(hex string) color.RGBA {
	c, err := colorspace.HexToRGB(hex)
	if err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{c.R, c.G, c.B, 255}
}
