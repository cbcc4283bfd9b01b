// fonts.go - Font management with custom TTF support and embedded fallback font.
// Uses golang.org/x/image/font for OpenType rendering. Defaults to Go Regular
// when no custom font is specified or when custom font loading fails.
package swatch

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontManager handles font loading with fallback.
type FontManager struct {
	parsed *opentype.Font
}

// NewFontManager creates a font manager with the specified font.
// If customPath is empty or unreadable, uses the embedded Go font.
func NewFontManager(customPath string) (*FontManager, error) {
	var fontData []byte

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			slog.Warn("custom font unavailable, using embedded", "path", customPath, "err", err)
		} else {
			fontData = data
		}
	}

	if fontData == nil {
		fontData = goregular.TTF
	}

	return NewFontManagerFromBytes(fontData)
}

// NewFontManagerFromBytes creates a font manager from raw TTF/OTF data.
func NewFontManagerFromBytes(data []byte) (*FontManager, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &FontManager{parsed: parsed}, nil
}

// Face returns a font.Face at the specified size.
func (fm *FontManager) Face(size, dpi float64) (font.Face, error) {
	if dpi <= 0 {
		dpi = 72
	}
	face, err := opentype.NewFace(fm.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}
