// parse.go - Text to colour.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xob0t/hueslice/pkg/colorspace"
)

// FromString parses text in the given format. Hex yields a colorspace.Hex,
// RGB a colorspace.RGB and HSV a colorspace.HSV. Whitespace around tokens is
// ignored, wrapper names are case-insensitive and unit prefixes are optional.
func FromString(format Format, text string) (colorspace.Color, error) {
	if format == Hex {
		return parseFields(Hex, []string{text})
	}

	body, ok := unwrap(text, format.String())
	if !ok {
		return nil, malformed(format, text)
	}
	parts := strings.Split(body, ",")
	if len(parts) != 3 {
		return nil, malformed(format, text)
	}
	c, err := parseFields(format, parts)
	if err != nil {
		return nil, malformed(format, text)
	}
	return c, nil
}

// Detect parses clipboard-style text, trying Hex, then RGB, then HSV.
func Detect(text string) (colorspace.Color, Format, error) {
	for _, f := range []Format{Hex, RGB, HSV} {
		if c, err := FromString(f, text); err == nil {
			return c, f, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: %q matches no format", ErrMalformedColorCode, text)
}

// Pasted is the result of a paste. Either Color is set (a whole code was
// recognised) or Field/Text describe a single-field paste.
type Pasted struct {
	Color  colorspace.Color
	Format Format
	Field  Field
	Text   string
}

// Whole reports whether the paste carried a complete colour.
func (p Pasted) Whole() bool { return p.Color != nil }

// Paste interprets clipboard text. A full code in any format wins; failing
// that, the text goes into the focused field if it is a valid value there.
func Paste(text string, focus Field) (Pasted, error) {
	if c, f, err := Detect(text); err == nil {
		return Pasted{Color: c, Format: f}, nil
	}
	t := strings.TrimSpace(text)
	if ValidateField(focus, t) {
		return Pasted{Field: focus, Text: t}, nil
	}
	return Pasted{}, fmt.Errorf("%w: %q fits neither a format nor the %s field", ErrMalformedColorCode, text, focus)
}

// unwrap strips "name(" and ")" from text.
func unwrap(text, name string) (string, bool) {
	t := strings.TrimSpace(text)
	if len(t) < len(name) || !strings.EqualFold(t[:len(name)], name) {
		return "", false
	}
	t = strings.TrimSpace(t[len(name):])
	if !strings.HasPrefix(t, "(") || !strings.HasSuffix(t, ")") {
		return "", false
	}
	return t[1 : len(t)-1], true
}

// parseFields validates and converts the per-field texts of format.
func parseFields(format Format, texts []string) (colorspace.Color, error) {
	fields := format.Fields()
	if len(texts) != len(fields) {
		return nil, fmt.Errorf("%w: %s wants %d fields, got %d", ErrMalformedColorCode, format, len(fields), len(texts))
	}

	if format == Hex {
		t := strings.TrimSpace(texts[0])
		if !ValidateField(FieldHex, t) {
			return nil, malformed(format, texts[0])
		}
		h, err := colorspace.ParseHex(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedColorCode, err)
		}
		return h, nil
	}

	var v [3]int
	for i, f := range fields {
		n, err := fieldValue(f, texts[i])
		if err != nil {
			return nil, err
		}
		v[i] = n
	}

	if format == RGB {
		return colorspace.RGB{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2])}, nil
	}
	return colorspace.HSV{H: float64(v[0]), S: float64(v[1]), V: float64(v[2])}, nil
}

// fieldValue parses one numeric field after full validation.
func fieldValue(f Field, text string) (int, error) {
	t := stripPrefix(f, text)
	if !f.spec().full.MatchString(t) {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedColorCode, f, text)
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrMalformedColorCode, f, text, err)
	}
	return n, nil
}
