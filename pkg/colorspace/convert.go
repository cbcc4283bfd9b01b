// convert.go - RGB ⇄ HSV conversion over the six hue sextants.
package colorspace

import "math"

// Sextant identifies one of the six 60° hue segments, 0 through 5.
type Sextant int

// Role is the shape a channel follows while the hue sweeps one sextant.
type Role uint8

const (
	Max     Role = iota // channel pinned at the value
	Min                 // channel pinned at (1-s)·v
	Rising              // min → max across the sextant
	Falling             // max → min across the sextant
)

func (r Role) String() string {
	switch r {
	case Max:
		return "max"
	case Min:
		return "min"
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	}
	return "unknown"
}

// sextantRoles holds the (R, G, B) roles for each sextant.
var sextantRoles = [6][3]Role{
	{Max, Rising, Min},
	{Falling, Max, Min},
	{Min, Max, Rising},
	{Min, Falling, Max},
	{Rising, Min, Max},
	{Max, Min, Falling},
}

// Roles returns the roles of the R, G and B channels within s.
func (s Sextant) Roles() [3]Role {
	return sextantRoles[s]
}

// SextantOf returns the sextant containing hue. Hues outside [0,360) are
// wrapped first, so -30 behaves as 330 and 360 as 0.
func SextantOf(hue float64) Sextant {
	return Sextant(int(wrapHue(hue)/60) % 6)
}

func wrapHue(hue float64) float64 {
	return math.Mod(math.Mod(hue, 360)+360, 360)
}

// ceilEpsilon keeps float noise from pushing an exact channel value up by one.
const ceilEpsilon = 1e-9

// toChannel scales a [0,1] intensity to 0–255, rounding up.
func toChannel(x float64) uint8 {
	c := math.Ceil(x*255 - ceilEpsilon)
	return uint8(min(max(c, 0), 255))
}

// RGBToHSV converts c to HSV. The hue is in [0,360); achromatic colours get
// hue 0, and black gets saturation 0.
func RGBToHSV(c RGB) HSV {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	cMax := max(r, g, b)
	cMin := min(r, g, b)
	delta := cMax - cMin

	var s float64
	if cMax != 0 {
		s = delta / cMax
	}

	var h float64
	switch {
	case delta == 0:
		h = 0
	case cMax == r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case cMax == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}

	return HSV{H: h, S: s * 100, V: cMax * 100}
}

// HSVToRGB converts c to RGB. Channels are rounded up (ceiling) after
// scaling to 0–255 and clamped. It panics with an error wrapping
// ErrOutOfRange if c is not valid.
func HSVToRGB(c HSV) RGB {
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return hsvToRGB(c)
}

// CheckedHSVToRGB is HSVToRGB for unvalidated input.
func CheckedHSVToRGB(c HSV) (RGB, error) {
	if err := c.Validate(); err != nil {
		return RGB{}, err
	}
	return hsvToRGB(c), nil
}

func hsvToRGB(c HSV) RGB {
	h := wrapHue(c.H)
	sx := SextantOf(h)
	dh := float64(sx) * 60

	s := c.S / 100
	v := c.V / 100
	lo := (1 - s) * v
	hi := v
	slope := v * s / 60

	roles := sextantRoles[sx]
	return RGB{
		R: toChannel(applyRole(roles[0], h, dh, lo, hi, slope)),
		G: toChannel(applyRole(roles[1], h, dh, lo, hi, slope)),
		B: toChannel(applyRole(roles[2], h, dh, lo, hi, slope)),
	}
}

// applyRole evaluates one channel at hue h inside the sextant starting at dh.
func applyRole(role Role, h, dh, lo, hi, slope float64) float64 {
	switch role {
	case Rising:
		return slope*(h-dh) + lo
	case Falling:
		return hi - slope*(h-dh)
	case Min:
		return lo
	default:
		return hi
	}
}
