// Package colorspace converts colours between RGB, HSV and hexadecimal codes.
//
// RGB channels are integers in [0,255]. HSV uses hue in [0,360] and
// saturation/value in [0,100]. Converters assume validated input: handing
// them an out-of-range HSV is a programming error and panics. Callers holding
// untrusted numbers validate first (HSV.Validate) or use CheckedHSVToRGB.
package colorspace

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

var (
	// ErrOutOfRange reports a component outside its declared domain.
	ErrOutOfRange = errors.New("colorspace: value out of range")
	// ErrMalformedHex reports a hex code that is not exactly 6 hex digits.
	ErrMalformedHex = errors.New("colorspace: malformed hex code")
)

// Domain limits.
const (
	MaxHue     = 360.0
	MaxPercent = 100.0
)

// Color is a colour value in one of the supported models.
type Color interface {
	color.Color
	ToRGB() RGB
	ToHSV() HSV
}

// RGB is an opaque colour with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = 0xffff
	return
}

// ToRGB returns c.
func (c RGB) ToRGB() RGB { return c }

// ToHSV returns RGBToHSV(c).
func (c RGB) ToHSV() HSV { return RGBToHSV(c) }

// Validate always succeeds; uint8 channels cannot leave [0,255].
func (c RGB) Validate() error { return nil }

func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}

// HSV is a colour in the hue/saturation/value model.
// H is in [0,360]; 360 is accepted and renders like 0. S and V are in [0,100].
type HSV struct {
	H, S, V float64
}

// RGBA implements color.Color. It panics if c is out of range.
func (c HSV) RGBA() (r, g, b, a uint32) {
	return HSVToRGB(c).RGBA()
}

// ToRGB returns HSVToRGB(c).
func (c HSV) ToRGB() RGB { return HSVToRGB(c) }

// ToHSV returns c.
func (c HSV) ToHSV() HSV { return c }

// Validate reports whether every component lies in its domain.
// NaN is never in range.
func (c HSV) Validate() error {
	if !inRange(c.H, MaxHue) {
		return fmt.Errorf("%w: hue %v not in [0,360]", ErrOutOfRange, c.H)
	}
	if !inRange(c.S, MaxPercent) {
		return fmt.Errorf("%w: saturation %v not in [0,100]", ErrOutOfRange, c.S)
	}
	if !inRange(c.V, MaxPercent) {
		return fmt.Errorf("%w: value %v not in [0,100]", ErrOutOfRange, c.V)
	}
	return nil
}

func (c HSV) String() string {
	return fmt.Sprintf("HSV(%g, %g, %g)", c.H, c.S, c.V)
}

func inRange(x, hi float64) bool {
	return x >= 0 && x <= hi && !math.IsNaN(x)
}

// CheckRange returns ErrOutOfRange if x is not in [0,hi]. name labels the
// offending component in the error message.
func CheckRange(name string, x, hi float64) error {
	if !inRange(x, hi) {
		return fmt.Errorf("%w: %s %v not in [0,%v]", ErrOutOfRange, name, x, hi)
	}
	return nil
}

// RGBModel converts any color.Color to RGB, dropping alpha.
var RGBModel = color.ModelFunc(rgbModel)

func rgbModel(c color.Color) color.Color {
	if native, ok := c.(RGB); ok {
		return native
	}
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

const opaque = 0xFF000000

// Pack packs c as a 32-bit ARGB pixel with full alpha.
func Pack(c RGB) uint32 {
	return opaque | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Unpack extracts the colour channels of an ARGB pixel, ignoring alpha.
func Unpack(p uint32) RGB {
	return RGB{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p)}
}
