// bmp.go - BMP writer.
package generator

import (
	"fmt"
	"io"

	"golang.org/x/image/bmp"
)

// encodeBMP encodes the resolved image as BMP. Gradient pixels are opaque, so
// the encoder emits 24-bit BGR rows.
func encodeBMP(w io.Writer, cfg Config) error {
	img, err := resolveImage(cfg)
	if err != nil {
		return err
	}
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("encode BMP: %w", err)
	}
	return nil
}
