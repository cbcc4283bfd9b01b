// layout.go - Card layout, loaded from JSON with defaults applied.
package swatch

import (
	"encoding/json"
	"fmt"
	"os"
)

// Layout describes the geometry and styling of a preview card.
type Layout struct {
	SliceWidth     int     `json:"sliceWidth"`
	SliceHeight    int     `json:"sliceHeight"`
	SpectrumHeight int     `json:"spectrumHeight"`
	SwatchSize     int     `json:"swatchSize"`
	Padding        int     `json:"padding"`
	FontPath       string  `json:"fontPath"` // custom TTF; empty = embedded Go Regular
	FontSize       float64 `json:"fontSize"`
	LineHeight     float64 `json:"lineHeight"` // multiplier
	Background     string  `json:"background"` // "#rrggbb"
	TextColor      string  `json:"textColor"`  // "#rrggbb"
	WithUnits      *bool   `json:"withUnits,omitempty"`
}

// DefaultLayout returns a layout with every field at its default.
func DefaultLayout() *Layout {
	l := &Layout{}
	l.applyDefaults()
	return l
}

// applyDefaults sets sane fallbacks for unset fields.
func (l *Layout) applyDefaults() {
	if l.SliceWidth <= 0 {
		l.SliceWidth = 256
	}
	if l.SliceHeight <= 0 {
		l.SliceHeight = 256
	}
	if l.SpectrumHeight <= 0 {
		l.SpectrumHeight = 24
	}
	if l.SwatchSize <= 0 {
		l.SwatchSize = 96
	}
	if l.Padding < 0 {
		l.Padding = 0
	}
	if l.FontSize <= 0 {
		l.FontSize = 16
	}
	if l.LineHeight <= 0 {
		l.LineHeight = 1.5
	}
	if l.Background == "" {
		l.Background = "#1a1a2e"
	}
	if l.TextColor == "" {
		l.TextColor = "#e0e0e0"
	}
	if l.WithUnits == nil {
		t := true
		l.WithUnits = &t
	}
}

// ParseLayoutFile loads a layout JSON file and applies defaults.
func ParseLayoutFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes layout JSON and applies defaults.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout JSON: %w", err)
	}
	l.applyDefaults()
	return &l, nil
}

// ExampleLayoutJSON returns a sample layout for hueslice init.
func ExampleLayoutJSON() string {
	return `{
  "sliceWidth": 256,
  "sliceHeight": 256,
  "spectrumHeight": 24,
  "swatchSize": 96,
  "padding": 16,
  "fontPath": "",
  "fontSize": 16,
  "lineHeight": 1.5,
  "background": "#1a1a2e",
  "textColor": "#e0e0e0",
  "withUnits": true
}
`
}
