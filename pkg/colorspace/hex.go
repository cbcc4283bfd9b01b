// hex.go - 6-digit hexadecimal colour codes.
package colorspace

import (
	"fmt"
	"strconv"
	"strings"
)

// Hex is a canonical colour code of the form "#RRGGBB" (uppercase).
// Values produced by ParseHex and RGBToHex are always canonical; methods on a
// non-canonical Hex panic.
type Hex string

// ParseHex parses a 6-digit hex code, case-insensitive, with an optional
// leading '#', and returns its canonical form.
func ParseHex(s string) (Hex, error) {
	c, err := HexToRGB(s)
	if err != nil {
		return "", err
	}
	return RGBToHex(c), nil
}

// RGBA implements color.Color.
func (h Hex) RGBA() (r, g, b, a uint32) {
	return h.ToRGB().RGBA()
}

// ToRGB decodes h. It panics if h is not a valid code.
func (h Hex) ToRGB() RGB {
	c, err := HexToRGB(string(h))
	if err != nil {
		panic(err)
	}
	return c
}

// ToHSV decodes h and converts it to HSV.
func (h Hex) ToHSV() HSV {
	return RGBToHSV(h.ToRGB())
}

func (h Hex) String() string { return string(h) }

// RGBToHex formats c as "#RRGGBB".
func RGBToHex(c RGB) Hex {
	v := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	return Hex(fmt.Sprintf("#%06X", v))
}

// HexToRGB decodes a 6-digit hex code with an optional leading '#'.
func HexToRGB(s string) (RGB, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 || !isHexDigits(digits) {
		return RGB{}, fmt.Errorf("%w: %q", ErrMalformedHex, s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", ErrMalformedHex, s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// HSVToHex converts c to a hex code. It panics if c is out of range.
func HSVToHex(c HSV) Hex {
	return RGBToHex(HSVToRGB(c))
}

// HexToHSV decodes s and converts it to HSV.
func HexToHSV(s string) (HSV, error) {
	c, err := HexToRGB(s)
	if err != nil {
		return HSV{}, err
	}
	return RGBToHSV(c), nil
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
