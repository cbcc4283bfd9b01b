// preview.go - Truecolor terminal rendering of the slice using half blocks.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/xob0t/hueslice/pkg/colorspace"
	"github.com/xob0t/hueslice/pkg/generator"
	"github.com/xob0t/hueslice/pkg/raster"
)

const (
	csiFgRGB = "\x1b[38;2;" // followed by R;G;B;m
	csiBgRGB = "\x1b[48;2;"
	csiReset = "\x1b[0m"

	upperHalf = '▀'
)

func runPreview(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	hue := fs.String("hue", "0", "Hue in degrees, a colour code, or 'random'")
	cols := fs.Int("cols", 0, "Columns (default: terminal width, max 64)")
	rows := fs.Int("rows", 0, "Text rows for the slice (default: fit terminal, max 24)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	h, err := generator.ParseHue(*hue)
	if err != nil {
		return err
	}

	w, r := previewSize(*cols, *rows)
	rast, err := raster.New(w, r*2)
	if err != nil {
		return err
	}
	slice, err := rast.SliceOf(h)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(out)
	writeHalfBlocks(bw, slice)
	writeHalfBlocks(bw, spectrumRows(rast))
	fmt.Fprintf(bw, "hue %g\n", h)
	return bw.Flush()
}

// previewSize fills in unset dimensions from the terminal when stdout is one.
func previewSize(cols, rows int) (int, int) {
	const maxCols, maxRows = 64, 24
	tw, th := maxCols, maxRows+3
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil {
			tw, th = w, h
		}
	}
	if cols <= 0 {
		cols = min(tw, maxCols)
	}
	if rows <= 0 {
		// Leave room for the spectrum bar and caption.
		rows = min(th-3, maxRows)
	}
	return max(cols, 1), max(rows, 1)
}

// spectrumRows stacks the one-row spectrum twice so it fills one text row.
func spectrumRows(r *raster.Rasterizer) *raster.Buffer {
	row := r.Spectrum()
	b := raster.NewBuffer(row.Width, 2)
	copy(b.Pix, row.Pix)
	copy(b.Pix[row.Width:], row.Pix)
	return b
}

// writeHalfBlocks draws b two pixel rows per text row: the upper half block
// takes the top pixel as foreground and the bottom pixel as background.
// An odd final row is paired with itself.
func writeHalfBlocks(w *bufio.Writer, b *raster.Buffer) {
	for y := 0; y < b.Height; y += 2 {
		lower := min(y+1, b.Height-1)
		for x := 0; x < b.Width; x++ {
			writeSGR(w, csiFgRGB, colorspace.Unpack(b.PixAt(x, y)))
			writeSGR(w, csiBgRGB, colorspace.Unpack(b.PixAt(x, lower)))
			w.WriteRune(upperHalf)
		}
		w.WriteString(csiReset)
		w.WriteByte('\n')
	}
}

func writeSGR(w *bufio.Writer, csi string, c colorspace.RGB) {
	var buf [16]byte
	w.WriteString(csi)
	w.Write(strconv.AppendUint(buf[:0], uint64(c.R), 10))
	w.WriteByte(';')
	w.Write(strconv.AppendUint(buf[:0], uint64(c.G), 10))
	w.WriteByte(';')
	w.Write(strconv.AppendUint(buf[:0], uint64(c.B), 10))
	w.WriteByte('m')
}
