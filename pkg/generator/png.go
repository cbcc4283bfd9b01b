// png.go - PNG writer.
package generator

import (
	"fmt"
	"image/png"
	"io"
)

// encodePNG encodes the resolved image as PNG.
func encodePNG(w io.Writer, cfg Config) error {
	img, err := resolveImage(cfg)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}
