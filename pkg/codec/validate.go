// validate.go - Keystroke and commit validation for colour fields.
package codec

import (
	"unicode/utf8"

	"github.com/xob0t/hueslice/pkg/colorspace"
)

// Edit is the outcome of a keystroke against a field.
// A rejected edit clears the field: Text is "" and Cursor is 0.
type Edit struct {
	Text     string
	Cursor   int
	Accepted bool
}

// ValidatePartial applies an edit that replaces the rune range
// [selStart, selEnd) of committed with inserted, and accepts the result if,
// after stripping the unit prefix, it is empty or matches the field grammar.
// Intermediate input such as "2" and "25" on the way to "255" is accepted.
// Out-of-bounds selections are clamped and reversed ones swapped.
func ValidatePartial(field Field, committed string, selStart, selEnd int, inserted string) Edit {
	runes := []rune(committed)
	selStart = clamp(selStart, 0, len(runes))
	selEnd = clamp(selEnd, 0, len(runes))
	if selStart > selEnd {
		selStart, selEnd = selEnd, selStart
	}

	text := string(runes[:selStart]) + inserted + string(runes[selEnd:])
	if !acceptsPartial(field, text) {
		return Edit{}
	}
	return Edit{
		Text:     text,
		Cursor:   selStart + utf8.RuneCountInString(inserted),
		Accepted: true,
	}
}

func acceptsPartial(field Field, text string) bool {
	spec := field.spec()
	if isPartialPrefix(field, text) {
		return true
	}
	rest := stripPrefix(field, text)
	return rest == "" || spec.partial.MatchString(rest)
}

// ValidateField reports whether text is a complete, in-range value for field.
func ValidateField(field Field, text string) bool {
	return field.spec().full.MatchString(stripPrefix(field, text))
}

// Commit resolves the field texts of format into a colour, all or nothing.
// If any field fails full validation, the edit is discarded: Commit returns
// current together with field texts re-derived from it, and an error
// wrapping ErrMalformedColorCode. Otherwise it returns the parsed colour and
// its canonical field texts.
func Commit(format Format, texts []string, current colorspace.Color, withUnits bool) (colorspace.Color, []string, error) {
	c, err := parseFields(format, texts)
	if err != nil {
		return current, FieldTexts(format, current, withUnits), err
	}
	return c, FieldTexts(format, c, withUnits), nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
