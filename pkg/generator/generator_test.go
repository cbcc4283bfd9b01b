package generator

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/xob0t/hueslice/pkg/colorspace"
)

func rgbAt(img image.Image, x, y int) colorspace.RGB {
	return colorspace.RGBModel.Convert(img.At(x, y)).(colorspace.RGB)
}

func TestGeneratePNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "slice.png")
	if err := Generate(out, Config{Width: 16, Height: 8, Hue: 120}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Fatalf("bounds = %v, want 16x8", b)
	}
	want := colorspace.HSVToRGB(colorspace.HSV{H: 120, S: 15.0 / 16 * 100, V: 100})
	if got := rgbAt(img, 15, 0); got != want {
		t.Errorf("top-right = %v, want %v", got, want)
	}
}

func TestGenerateBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateToWriter(&buf, ".BMP", Config{Width: 5, Height: 3}); err != nil {
		t.Fatal(err)
	}
	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Fatalf("bounds = %v, want 5x3", b)
	}
	// Left column has zero saturation: grey.
	if got := rgbAt(img, 0, 0); got != (colorspace.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("top-left = %v, want white", got)
	}
}

func TestGenerateSpectrum(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateToWriter(&buf, ".png", Config{Width: 6, Height: 4, Spectrum: true}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		if got := rgbAt(img, 2, y); got != (colorspace.RGB{G: 255}) {
			t.Errorf("spectrum (2,%d) = %v, want green", y, got)
		}
	}
}

func TestGenerateDefaultsAndImage(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateToWriter(&buf, ".png", Config{}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Errorf("default bounds = %v, want 256x256", b)
	}

	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	buf.Reset()
	if err := GenerateToWriter(&buf, ".png", Config{Image: src, Width: 99}); err != nil {
		t.Fatal(err)
	}
	img, _ = png.Decode(&buf)
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("image override bounds = %v, want 3x2", b)
	}
}

func TestGenerateUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateToWriter(&buf, ".gif", Config{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("GenerateToWriter(.gif) error = %v, want ErrUnsupportedFormat", err)
	}
	if err := Generate(filepath.Join(t.TempDir(), "x.tiff"), Config{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Generate(x.tiff) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestGenerateInvalidHue(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateToWriter(&buf, ".png", Config{Width: 2, Height: 2, Hue: 400})
	if !errors.Is(err, colorspace.ErrOutOfRange) {
		t.Errorf("error = %v, want ErrOutOfRange", err)
	}
}

type aviHeader struct {
	fileSize    uint32
	totalFrames uint32
	width       uint32
	height      uint32
}

func readAVIHeader(t *testing.T, data []byte) aviHeader {
	t.Helper()
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "AVI " {
		t.Fatalf("bad RIFF header %q", data[:12])
	}
	if string(data[24:28]) != "avih" {
		t.Fatalf("avih not at offset 24: %q", data[24:28])
	}
	le := binary.LittleEndian
	return aviHeader{
		fileSize:    le.Uint32(data[4:8]),
		totalFrames: le.Uint32(data[48:52]),
		width:       le.Uint32(data[64:68]),
		height:      le.Uint32(data[68:72]),
	}
}

func TestGenerateAVIStill(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateToWriter(&buf, ".avi", Config{Width: 16, Height: 16, Duration: 2, Hue: 30}); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	h := readAVIHeader(t, data)
	if int(h.fileSize) != len(data)-8 {
		t.Errorf("RIFF size = %d, file is %d bytes", h.fileSize, len(data))
	}
	if h.totalFrames != 2*aviFPS {
		t.Errorf("frames = %d, want %d", h.totalFrames, 2*aviFPS)
	}
	if h.width != 16 || h.height != 16 {
		t.Errorf("size = %dx%d", h.width, h.height)
	}
	if !bytes.Contains(data, []byte("idx1")) {
		t.Error("missing idx1 index")
	}
}

func TestGenerateAVISweep(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateToWriter(&buf, ".avi", Config{Width: 8, Height: 8, Sweep: true}); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	h := readAVIHeader(t, data)
	if int(h.fileSize) != len(data)-8 {
		t.Errorf("RIFF size = %d, file is %d bytes", h.fileSize, len(data))
	}
	if h.totalFrames != aviFPS {
		t.Errorf("frames = %d, want %d", h.totalFrames, aviFPS)
	}
	if n := bytes.Count(data, []byte("00dc")); n != 2*aviFPS {
		t.Errorf("00dc chunks = %d, want %d (movi + idx1)", n, 2*aviFPS)
	}
}

func TestWriteAVINoFrames(t *testing.T) {
	if err := writeAVITo(&bytes.Buffer{}, nil, 1, 1, aviFPS); err == nil {
		t.Error("writeAVITo with no frames succeeded")
	}
}

func TestParseHue(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"0", 0, false},
		{"360", 360, false},
		{" 42.5 ", 42.5, false},
		{"#00FF00", 120, false},
		{"rgb(0, 0, 255)", 240, false},
		{"hsv(h:300, s:10, v:10)", 300, false},
		{"361", 0, true},
		{"-1", 0, true},
		{"teal-ish", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseHue(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHue(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "random"} {
		h, err := ParseHue(in)
		if err != nil || h < 0 || h >= 360 {
			t.Errorf("ParseHue(%q) = %v, %v", in, h, err)
		}
	}
}
