// format.go - Colour to text.
package codec

import (
	"fmt"
	"strconv"

	"github.com/xob0t/hueslice/pkg/colorspace"
)

// ToString formats c in its own model: Hex as "#RRGGBB", HSV as
// "hsv(h:H, s:S, v:V)" and anything else as "rgb(r:R, g:G, b:B)". Without
// units the prefixes are dropped: "rgb(255, 0, 0)".
func ToString(c colorspace.Color, withUnits bool) string {
	switch c.(type) {
	case colorspace.Hex:
		return FormatAs(c, Hex, withUnits)
	case colorspace.HSV:
		return FormatAs(c, HSV, withUnits)
	}
	return FormatAs(c, RGB, withUnits)
}

// FormatAs formats c in the given format, converting as needed.
// HSV components are truncated, not rounded.
func FormatAs(c colorspace.Color, format Format, withUnits bool) string {
	if format == Hex {
		return FieldText(FieldHex, c, withUnits)
	}
	t := FieldTexts(format, c, withUnits)
	return fmt.Sprintf("%s(%s, %s, %s)", format, t[0], t[1], t[2])
}

// FieldTexts returns the display text of every field of format.
func FieldTexts(format Format, c colorspace.Color, withUnits bool) []string {
	fields := format.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = FieldText(f, c, withUnits)
	}
	return out
}

// FieldText returns the display text of one field of c, optionally with its
// unit prefix. Hue 360 displays as 0.
func FieldText(field Field, c colorspace.Color, withUnits bool) string {
	var s string
	switch field {
	case FieldHex:
		return colorspace.RGBToHex(c.ToRGB()).String()
	case FieldR:
		s = strconv.Itoa(int(c.ToRGB().R))
	case FieldG:
		s = strconv.Itoa(int(c.ToRGB().G))
	case FieldB:
		s = strconv.Itoa(int(c.ToRGB().B))
	case FieldH:
		s = strconv.Itoa(int(c.ToHSV().H) % 360)
	case FieldS:
		s = strconv.Itoa(int(c.ToHSV().S))
	case FieldV:
		s = strconv.Itoa(int(c.ToHSV().V))
	default:
		panic(fmt.Sprintf("codec: invalid field %d", int(field)))
	}
	if withUnits {
		return field.Prefix() + s
	}
	return s
}
