// interface.go - Container encoders keyed by file extension.
package generator

import (
	"io"
	"sort"
)

// encoder writes the media described by cfg to w.
type encoder func(w io.Writer, cfg Config) error

var encoders = map[string]encoder{
	".png": encodePNG,
	".bmp": encodeBMP,
	".avi": encodeAVI,
}

// Formats lists the supported file extensions.
func Formats() []string {
	exts := make([]string, 0, len(encoders))
	for ext := range encoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
