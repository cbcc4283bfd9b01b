// Package codec parses, validates and formats typed colour codes.
//
// Three textual formats are understood:
//
//	#RRGGBB
//	rgb(r:R, g:G, b:B)
//	hsv(h:H, s:S, v:V)
//
// Each component is also a standalone field with an optional unit prefix
// ("r:", "h:", ...). Field grammars reject out-of-range literals such as
// "256" syntactically, before any integer is built.
package codec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedColorCode reports text that does not satisfy its format grammar.
var ErrMalformedColorCode = errors.New("codec: malformed color code")

// Format tags a textual grammar.
type Format int

const (
	Hex Format = iota
	RGB
	HSV
)

func (f Format) String() string {
	switch f {
	case Hex:
		return "hex"
	case RGB:
		return "rgb"
	case HSV:
		return "hsv"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Fields returns the fields making up f, in display order.
func (f Format) Fields() []Field {
	switch f {
	case RGB:
		return []Field{FieldR, FieldG, FieldB}
	case HSV:
		return []Field{FieldH, FieldS, FieldV}
	}
	return []Field{FieldHex}
}

// ParseFormat maps "hex", "rgb" or "hsv" (any case) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hex", "#":
		return Hex, nil
	case "rgb":
		return RGB, nil
	case "hsv":
		return HSV, nil
	}
	return 0, fmt.Errorf("unknown format %q: use hex, rgb or hsv", s)
}

// Field is one editable component of a format.
type Field int

const (
	FieldHex Field = iota
	FieldR
	FieldG
	FieldB
	FieldH
	FieldS
	FieldV
)

const (
	byteExpr    = `0|[1-9][0-9]?|1[0-9][0-9]|2[0-4][0-9]|25[0-5]`
	hueExpr     = `0|[1-9][0-9]?|[12][0-9][0-9]|3[0-5][0-9]|360`
	percentExpr = `0|[1-9][0-9]?|100`
)

var (
	reByte       = anchored(byteExpr)
	reHue        = anchored(hueExpr)
	rePercent    = anchored(percentExpr)
	reHex        = anchored(`#?[0-9a-fA-F]{6}`)
	reHexPartial = anchored(`#?[0-9a-fA-F]{0,6}`)
)

func anchored(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + expr + `)$`)
}

type fieldSpec struct {
	name    string
	prefix  string
	full    *regexp.Regexp
	partial *regexp.Regexp
}

var fieldSpecs = [...]fieldSpec{
	FieldHex: {"hex", "", reHex, reHexPartial},
	FieldR:   {"red", "r:", reByte, reByte},
	FieldG:   {"green", "g:", reByte, reByte},
	FieldB:   {"blue", "b:", reByte, reByte},
	FieldH:   {"hue", "h:", reHue, reHue},
	FieldS:   {"saturation", "s:", rePercent, rePercent},
	FieldV:   {"value", "v:", rePercent, rePercent},
}

func (f Field) spec() fieldSpec {
	if f < 0 || int(f) >= len(fieldSpecs) {
		panic(fmt.Sprintf("codec: invalid field %d", int(f)))
	}
	return fieldSpecs[f]
}

func (f Field) String() string { return f.spec().name }

// Prefix returns the unit prefix of f ("r:", "h:", ...), or "" for FieldHex.
func (f Field) Prefix() string { return f.spec().prefix }

// ParseField maps a field name or its prefix letter ("r", "red", "hex") to a Field.
func ParseField(s string) (Field, error) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ":")
	for i, spec := range fieldSpecs {
		if s == spec.name || (spec.prefix != "" && s == spec.prefix[:1]) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", s)
}

// stripPrefix removes f's unit prefix (case-insensitive) and surrounding
// whitespace from text.
func stripPrefix(f Field, text string) string {
	t := strings.TrimSpace(text)
	p := f.Prefix()
	if p == "" || t == "" || !strings.EqualFold(t[:1], p[:1]) {
		return t
	}
	rest := strings.TrimSpace(t[1:])
	if !strings.HasPrefix(rest, ":") {
		return t
	}
	return strings.TrimSpace(rest[1:])
}

// isPartialPrefix reports whether text is a non-empty, incomplete unit prefix
// such as "r" on its way to "r:".
func isPartialPrefix(f Field, text string) bool {
	p := f.Prefix()
	return text != "" && len(text) < len(p) && strings.EqualFold(text, p[:len(text)])
}

func malformed(format Format, text string) error {
	return fmt.Errorf("%w: %s %q", ErrMalformedColorCode, format, text)
}
