// buffer.go - Packed ARGB pixel buffer usable as an image.Image.
package raster

import (
	"image"
	"image/color"

	"github.com/xob0t/hueslice/pkg/colorspace"
)

// Buffer is a row-major width×height array of packed ARGB pixels,
// index y*Width+x, with no row padding.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint32
}

// NewBuffer allocates a zeroed w×h buffer.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{Width: w, Height: h, Pix: make([]uint32, w*h)}
}

// PixAt returns the packed pixel at (x, y). It panics when out of bounds.
func (b *Buffer) PixAt(x, y int) uint32 {
	return b.Pix[y*b.Width+x]
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return colorspace.RGBModel
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return color.RGBA{}
	}
	return colorspace.Unpack(b.PixAt(x, y))
}

// RGBA copies the buffer into a new image.RGBA (byte order R, G, B, A).
func (b *Buffer) RGBA() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	for i, p := range b.Pix {
		o := i * 4
		img.Pix[o] = uint8(p >> 16)
		img.Pix[o+1] = uint8(p >> 8)
		img.Pix[o+2] = uint8(p)
		img.Pix[o+3] = uint8(p >> 24)
	}
	return img
}
