// Package raster synthesises gradient pixel buffers of the HSV solid: the
// saturation×value slice at one hue, and the one-row hue spectrum used by
// sliders.
//
// A Rasterizer is owned by a single caller and is not safe for concurrent use.
package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/xob0t/hueslice/pkg/colorspace"
)

// ErrInvalidDimension reports a non-positive width or height.
var ErrInvalidDimension = errors.New("raster: invalid dimension")

type state uint8

const (
	dirty state = iota
	clean
)

// Rasterizer caches the slice and spectrum buffers for the current
// dimensions, hue, saturation and value. Mutators mark the affected buffer
// dirty; it is recomputed in full on the next read.
type Rasterizer struct {
	width  int
	height int

	hue        float64
	saturation float64
	value      float64

	slice         *Buffer
	sliceState    state
	spectrum      *Buffer
	spectrumState state
}

// New returns a rasterizer for a width×height slice at hue 0. The spectrum
// starts at full saturation and value.
func New(width, height int) (*Rasterizer, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return &Rasterizer{
		width:      width,
		height:     height,
		saturation: colorspace.MaxPercent,
		value:      colorspace.MaxPercent,
	}, nil
}

func checkDimensions(width, height int) error {
	if width <= 0 {
		return fmt.Errorf("%w: width %d", ErrInvalidDimension, width)
	}
	if height <= 0 {
		return fmt.Errorf("%w: height %d", ErrInvalidDimension, height)
	}
	return nil
}

func (r *Rasterizer) Width() int          { return r.width }
func (r *Rasterizer) Height() int         { return r.height }
func (r *Rasterizer) Hue() float64        { return r.hue }
func (r *Rasterizer) Saturation() float64 { return r.saturation }
func (r *Rasterizer) Value() float64      { return r.value }

// SetWidth resizes the slice and spectrum. Pixel data is discarded; hue,
// saturation and value are kept.
func (r *Rasterizer) SetWidth(w int) error {
	if w <= 0 {
		return fmt.Errorf("%w: width %d", ErrInvalidDimension, w)
	}
	if w == r.width {
		return nil
	}
	r.width = w
	r.slice, r.sliceState = nil, dirty
	r.spectrum, r.spectrumState = nil, dirty
	return nil
}

// SetHeight resizes the slice.
func (r *Rasterizer) SetHeight(h int) error {
	if h <= 0 {
		return fmt.Errorf("%w: height %d", ErrInvalidDimension, h)
	}
	if h == r.height {
		return nil
	}
	r.height = h
	r.slice, r.sliceState = nil, dirty
	return nil
}

// SetSize is SetWidth followed by SetHeight, validating both first.
func (r *Rasterizer) SetSize(w, h int) error {
	if err := checkDimensions(w, h); err != nil {
		return err
	}
	r.SetWidth(w)
	r.SetHeight(h)
	return nil
}

// SetHue sets the slice hue, in [0,360].
func (r *Rasterizer) SetHue(hue float64) error {
	if err := colorspace.CheckRange("hue", hue, colorspace.MaxHue); err != nil {
		return err
	}
	if hue != r.hue {
		r.hue = hue
		r.sliceState = dirty
	}
	return nil
}

// SetSaturation sets the spectrum saturation, in [0,100].
func (r *Rasterizer) SetSaturation(s float64) error {
	if err := colorspace.CheckRange("saturation", s, colorspace.MaxPercent); err != nil {
		return err
	}
	if s != r.saturation {
		r.saturation = s
		r.spectrumState = dirty
	}
	return nil
}

// SetValue sets the spectrum value, in [0,100].
func (r *Rasterizer) SetValue(v float64) error {
	if err := colorspace.CheckRange("value", v, colorspace.MaxPercent); err != nil {
		return err
	}
	if v != r.value {
		r.value = v
		r.spectrumState = dirty
	}
	return nil
}

// SliceOf sets the hue and returns the slice for it.
func (r *Rasterizer) SliceOf(hue float64) (*Buffer, error) {
	if err := r.SetHue(hue); err != nil {
		return nil, err
	}
	return r.Slice(), nil
}

// Slice returns the saturation×value slice at the current hue, recomputing it
// if anything changed since the last read. The buffer belongs to the
// Rasterizer and is overwritten by later regenerations.
func (r *Rasterizer) Slice() *Buffer {
	if r.sliceState == dirty || r.slice == nil {
		r.renderSlice()
	}
	return r.slice
}

// Spectrum returns the one-row hue spectrum at the current saturation and
// value, recomputing it if needed.
func (r *Rasterizer) Spectrum() *Buffer {
	if r.spectrumState == dirty || r.spectrum == nil {
		if r.spectrum == nil {
			r.spectrum = NewBuffer(r.width, 1)
		}
		fillSpectrum(r.spectrum, r.saturation, r.value)
		r.spectrumState = clean
	}
	return r.spectrum
}

// Regenerate recomputes both buffers unconditionally.
func (r *Rasterizer) Regenerate() {
	r.sliceState = dirty
	r.spectrumState = dirty
	r.Slice()
	r.Spectrum()
}

func (r *Rasterizer) renderSlice() {
	if r.slice == nil {
		r.slice = NewBuffer(r.width, r.height)
	}
	fillSlice(r.slice, r.hue)
	r.sliceState = clean
}

// HSVAt returns the colour shown at pixel (x, y) of the slice.
func (r *Rasterizer) HSVAt(x, y int) (colorspace.HSV, error) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return colorspace.HSV{}, fmt.Errorf("%w: pixel (%d,%d) outside %dx%d",
			colorspace.ErrOutOfRange, x, y, r.width, r.height)
	}
	return colorspace.HSV{
		H: r.hue,
		S: float64(x) / float64(r.width) * 100,
		V: float64(r.height-y) / float64(r.height) * 100,
	}, nil
}

// PointOf returns the slice pixel closest to saturation s and value v.
func (r *Rasterizer) PointOf(s, v float64) (x, y int) {
	x = int(math.Round(s / 100 * float64(r.width)))
	y = r.height - int(math.Round(v/100*float64(r.height)))
	return min(max(x, 0), r.width-1), min(max(y, 0), r.height-1)
}

// RenderSlice returns a fresh width×height slice at hue.
// Saturation grows left to right and value bottom to top; row 0 has full value.
func RenderSlice(width, height int, hue float64) (*Buffer, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if err := colorspace.CheckRange("hue", hue, colorspace.MaxHue); err != nil {
		return nil, err
	}
	b := NewBuffer(width, height)
	fillSlice(b, hue)
	return b, nil
}

// RenderSpectrum returns a fresh width×1 hue spectrum at saturation s and value v.
func RenderSpectrum(width int, s, v float64) (*Buffer, error) {
	if err := checkDimensions(width, 1); err != nil {
		return nil, err
	}
	if err := colorspace.CheckRange("saturation", s, colorspace.MaxPercent); err != nil {
		return nil, err
	}
	if err := colorspace.CheckRange("value", v, colorspace.MaxPercent); err != nil {
		return nil, err
	}
	b := NewBuffer(width, 1)
	fillSpectrum(b, s, v)
	return b, nil
}

func fillSlice(b *Buffer, hue float64) {
	w, h := b.Width, b.Height
	for y := 0; y < h; y++ {
		v := float64(h-y) / float64(h) * 100
		row := b.Pix[y*w : (y+1)*w]
		for x := range row {
			s := float64(x) / float64(w) * 100
			row[x] = colorspace.Pack(colorspace.HSVToRGB(colorspace.HSV{H: hue, S: s, V: v}))
		}
	}
}

func fillSpectrum(b *Buffer, s, v float64) {
	w := b.Width
	for x := range b.Pix {
		hue := float64(x) / float64(w) * 360
		b.Pix[x] = colorspace.Pack(colorspace.HSVToRGB(colorspace.HSV{H: hue, S: s, V: v}))
	}
}
