// avi.go - Pure Go AVI writer using the Motion JPEG (MJPEG) video codec.
// A still clip repeats one encoded frame; a sweep clip encodes one slice per
// frame while the hue turns through 0–360.
package generator

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/xob0t/hueslice/pkg/raster"
)

const aviFPS = 15

// encodeAVI renders the frames described by cfg and writes them as MJPEG AVI.
func encodeAVI(w io.Writer, cfg Config) error {
	dur := max(cfg.Duration, 1)
	total := dur * aviFPS

	var (
		frames        [][]byte
		width, height int
	)
	if cfg.Sweep && cfg.Image == nil {
		var err error
		width, height = cfg.size()
		frames, err = sweepFrames(width, height, total)
		if err != nil {
			return err
		}
	} else {
		img, err := resolveImage(cfg)
		if err != nil {
			return err
		}
		jpegData, err := encodeJPEG(img)
		if err != nil {
			return err
		}
		width, height = img.Bounds().Dx(), img.Bounds().Dy()
		frames = make([][]byte, total)
		for i := range frames {
			frames[i] = jpegData
		}
	}

	return writeAVITo(w, frames, width, height, aviFPS)
}

// sweepFrames encodes n slices with hues evenly spaced over a full turn.
// One rasterizer is reused so each frame overwrites the previous buffer.
func sweepFrames(width, height, n int) ([][]byte, error) {
	r, err := raster.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}
	frames := make([][]byte, n)
	for i := range frames {
		b, err := r.SliceOf(float64(i) * 360 / float64(n))
		if err != nil {
			return nil, fmt.Errorf("sweep frame %d: %w", i, err)
		}
		if frames[i], err = encodeJPEG(b.RGBA()); err != nil {
			return nil, err
		}
	}
	return frames, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// riffWriter writes little-endian RIFF fields and remembers the first error.
type riffWriter struct {
	w   io.Writer
	err error
}

func (rw *riffWriter) write(p []byte) {
	if rw.err != nil {
		return
	}
	_, rw.err = rw.w.Write(p)
}

func (rw *riffWriter) fourCC(s string) { rw.write([]byte(s)) }

func (rw *riffWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	rw.write(b[:])
}

func (rw *riffWriter) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	rw.write(b[:])
}

// padded rounds n up to an even size (AVI chunks are word aligned).
func padded(n int) uint32 {
	return uint32(n + n%2)
}

// writeAVITo writes frames (JPEG data, possibly of different sizes) as an
// MJPEG AVI with an idx1 index.
func writeAVITo(w io.Writer, frames [][]byte, width, height, fps int) error {
	if len(frames) == 0 {
		return fmt.Errorf("write AVI: no frames")
	}

	var maxFrame uint32
	moviSize := uint32(4)
	for _, f := range frames {
		maxFrame = max(maxFrame, uint32(len(f)))
		moviSize += 8 + padded(len(f)) // "00dc" + size + data
	}
	totalFrames := uint32(len(frames))
	idx1Size := 8 + totalFrames*16 // idx1 header + entries
	uw, uh := uint32(width), uint32(height)

	rw := &riffWriter{w: w}

	// === RIFF Header ===
	hdrlSize := uint32(4 + 64 + 124) // "hdrl" + avih + strl
	fileSize := 4 + (8 + hdrlSize) + (8 + moviSize) + idx1Size

	rw.fourCC("RIFF")
	rw.u32(fileSize)
	rw.fourCC("AVI ")

	// === hdrl LIST ===
	rw.fourCC("LIST")
	rw.u32(hdrlSize)
	rw.fourCC("hdrl")

	// === avih (Main AVI Header) - 56 bytes + 8 header ===
	rw.fourCC("avih")
	rw.u32(56)
	rw.u32(uint32(1000000 / fps)) // microseconds per frame
	rw.u32(maxFrame * uint32(fps)) // max bytes per sec
	rw.u32(0)                      // padding granularity
	rw.u32(0x10)                   // flags: AVIF_HASINDEX
	rw.u32(totalFrames)
	rw.u32(0)        // initial frames
	rw.u32(1)        // number of streams
	rw.u32(maxFrame) // suggested buffer size
	rw.u32(uw)
	rw.u32(uh)
	for i := 0; i < 4; i++ {
		rw.u32(0) // reserved
	}

	// === strl LIST (Stream List) ===
	rw.fourCC("LIST")
	rw.u32(116) // "strl" + strh(64) + strf(48)
	rw.fourCC("strl")

	// === strh (Stream Header) - 56 bytes + 8 header ===
	rw.fourCC("strh")
	rw.u32(56)
	rw.fourCC("vids") // fccType
	rw.fourCC("MJPG") // fccHandler
	rw.u32(0)         // flags
	rw.u16(0)         // priority
	rw.u16(0)         // language
	rw.u32(0)         // initial frames
	rw.u32(1)         // scale
	rw.u32(uint32(fps))
	rw.u32(0) // start
	rw.u32(totalFrames)
	rw.u32(maxFrame) // suggested buffer size
	rw.u32(0)        // quality
	rw.u32(0)        // sample size
	rw.u16(0)        // left
	rw.u16(0)        // top
	rw.u16(uint16(width))
	rw.u16(uint16(height))

	// === strf (Stream Format - BITMAPINFOHEADER) - 40 bytes + 8 header ===
	rw.fourCC("strf")
	rw.u32(40)
	rw.u32(40) // biSize
	rw.u32(uw)
	rw.u32(uh)
	rw.u16(1)  // biPlanes
	rw.u16(24) // biBitCount
	rw.fourCC("MJPG")
	rw.u32(uw * uh * 3)
	rw.u32(0) // biXPelsPerMeter
	rw.u32(0) // biYPelsPerMeter
	rw.u32(0) // biClrUsed
	rw.u32(0) // biClrImportant

	// === movi LIST ===
	rw.fourCC("LIST")
	rw.u32(moviSize)
	rw.fourCC("movi")
	for _, f := range frames {
		rw.fourCC("00dc")
		rw.u32(uint32(len(f)))
		rw.write(f)
		if len(f)%2 != 0 {
			rw.write([]byte{0})
		}
	}

	// === idx1 (Index) ===
	rw.fourCC("idx1")
	rw.u32(totalFrames * 16)
	offset := uint32(4) // relative to the "movi" fourCC
	for _, f := range frames {
		rw.fourCC("00dc")
		rw.u32(0x10) // flags: AVIIF_KEYFRAME
		rw.u32(offset)
		rw.u32(uint32(len(f)))
		offset += 8 + padded(len(f))
	}

	if rw.err != nil {
		return fmt.Errorf("write AVI: %w", rw.err)
	}
	return nil
}
