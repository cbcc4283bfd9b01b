// Package generator writes gradient rasters as PNG, BMP and AVI media.
//
// All output follows a unified pipeline: resolve an image.Image first (the
// saturation×value slice, the hue spectrum, or a caller-supplied image), then
// encode it in the container picked by the file extension.
package generator

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/xob0t/hueslice/pkg/raster"
)

// Config holds parameters for media generation.
type Config struct {
	Width    int         // Pixel width (default: 256)
	Height   int         // Pixel height (default: 256)
	Duration int         // Seconds, AVI only (default: 1)
	Hue      float64     // Slice hue, 0–360
	Sweep    bool        // AVI only: rotate the hue through a full turn over the clip
	Spectrum bool        // Render the hue spectrum instead of the slice
	Image    image.Image // Pre-rendered image; overrides everything above
}

func (cfg Config) size() (w, h int) {
	w, h = cfg.Width, cfg.Height
	if w <= 0 {
		w = 256
	}
	if h <= 0 {
		h = 256
	}
	return w, h
}

// Generate creates an output file. The format is inferred from the file extension:
//   - ".png" → PNG image
//   - ".bmp" → 24-bit BMP image
//   - ".avi" → MJPEG AVI video
func Generate(output string, cfg Config) error {
	ext := strings.ToLower(filepath.Ext(output))
	enc, ok := encoders[ext]
	if !ok {
		return unsupported(ext)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()

	if err := enc(f, cfg); err != nil {
		return err
	}
	return f.Sync()
}

// GenerateToWriter writes media to an io.Writer. The format is specified by ext
// (".png", ".bmp" or ".avi"). This is useful for in-memory generation (e.g. HTTP).
func GenerateToWriter(w io.Writer, ext string, cfg Config) error {
	enc, ok := encoders[strings.ToLower(ext)]
	if !ok {
		return unsupported(ext)
	}
	return enc(w, cfg)
}

// ErrUnsupportedFormat reports an output extension with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported format")

func unsupported(ext string) error {
	return fmt.Errorf("%w %q: use %s", ErrUnsupportedFormat, ext, strings.Join(Formats(), ", "))
}

// resolveImage returns the source image from config, rasterizing the slice
// or spectrum if none is provided.
func resolveImage(cfg Config) (image.Image, error) {
	if cfg.Image != nil {
		return cfg.Image, nil
	}

	w, h := cfg.size()
	if cfg.Spectrum {
		return spectrumImage(w, h)
	}

	b, err := raster.RenderSlice(w, h, cfg.Hue)
	if err != nil {
		return nil, fmt.Errorf("render slice: %w", err)
	}
	return b.RGBA(), nil
}

// spectrumImage stretches the one-row hue spectrum to w×h.
func spectrumImage(w, h int) (*image.RGBA, error) {
	row, err := raster.RenderSpectrum(w, 100, 100)
	if err != nil {
		return nil, fmt.Errorf("render spectrum: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), row, row.Bounds(), xdraw.Src, nil)
	return dst, nil
}
