//go:build js && wasm

// HueSlice WASM - Client-side rasterizer and codec for a browser canvas.
// Compiled with: GOOS=js GOARCH=wasm go build -o hueslice.wasm ./clients/wasm/
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"log/slog"
	"sync"
	"syscall/js"

	"github.com/xob0t/hueslice/pkg/codec"
	"github.com/xob0t/hueslice/pkg/colorspace"
	"github.com/xob0t/hueslice/pkg/generator"
	"github.com/xob0t/hueslice/pkg/raster"
	"github.com/xob0t/hueslice/pkg/swatch"
)

// In-memory font store (replaces the server-side asset manager).
var (
	fontsMu sync.RWMutex
	fonts   = make(map[string][]byte)
)

// The page owns a single picker, so one rasterizer serves every call and
// keeps its slice cached between hue changes.
var (
	rastMu sync.Mutex
	rast   *raster.Rasterizer
)

func main() {
	slog.Info("HueSlice WASM loaded")

	// Register JS-callable functions.
	js.Global().Set("goSlice", js.FuncOf(slice))
	js.Global().Set("goSpectrum", js.FuncOf(spectrum))
	js.Global().Set("goParse", js.FuncOf(parse))
	js.Global().Set("goValidatePartial", js.FuncOf(validatePartial))
	js.Global().Set("goCommit", js.FuncOf(commit))
	js.Global().Set("goCard", js.FuncOf(card))
	js.Global().Set("goExportAVI", js.FuncOf(exportAVI))
	js.Global().Set("goRegisterFont", js.FuncOf(registerFont))
	js.Global().Set("goRemoveFont", js.FuncOf(removeFont))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

func errorValue(msg string, err error) js.Value {
	return js.ValueOf("error: " + msg + ": " + err.Error())
}

// jsonValue marshals v into a JS string for JSON.parse on the page.
func jsonValue(v any) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return errorValue("marshal", err)
	}
	return js.ValueOf(string(data))
}

// pixels copies a buffer into a Uint8ClampedArray ready for ImageData.
func pixels(b *raster.Buffer) js.Value {
	pix := b.RGBA().Pix
	arr := js.Global().Get("Uint8ClampedArray").New(len(pix))
	js.CopyBytesToJS(arr, pix)
	return arr
}

// goSlice(hue, width, height) - RGBA bytes of the slice at hue.
func slice(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return js.ValueOf("error: need hue, width, height")
	}
	hue, w, h := args[0].Float(), args[1].Int(), args[2].Int()

	rastMu.Lock()
	defer rastMu.Unlock()

	if rast == nil {
		r, err := raster.New(w, h)
		if err != nil {
			return errorValue("slice", err)
		}
		rast = r
	} else if err := rast.SetSize(w, h); err != nil {
		return errorValue("slice", err)
	}

	buf, err := rast.SliceOf(hue)
	if err != nil {
		return errorValue("slice", err)
	}
	return pixels(buf)
}

// goSpectrum(width, saturation, value) - RGBA bytes of one spectrum row.
func spectrum(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return js.ValueOf("error: need width, saturation, value")
	}
	buf, err := raster.RenderSpectrum(args[0].Int(), args[1].Float(), args[2].Float())
	if err != nil {
		return errorValue("spectrum", err)
	}
	return pixels(buf)
}

func colorJSON(c colorspace.Color) map[string]any {
	rgb, hsv := c.ToRGB(), c.ToHSV()
	return map[string]any{
		"hex":    codec.FormatAs(c, codec.Hex, true),
		"rgb":    codec.FieldTexts(codec.RGB, c, true),
		"hsv":    codec.FieldTexts(codec.HSV, c, true),
		"values": []float64{float64(rgb.R), float64(rgb.G), float64(rgb.B), hsv.H, hsv.S, hsv.V},
	}
}

// goParse(text, focusField) - JSON paste result.
func parse(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("error: need text, focus")
	}
	focus, err := codec.ParseField(args[1].String())
	if err != nil {
		return errorValue("parse", err)
	}
	p, err := codec.Paste(args[0].String(), focus)
	if err != nil {
		return errorValue("parse", err)
	}
	if p.Whole() {
		return jsonValue(map[string]any{
			"whole":  true,
			"format": p.Format.String(),
			"color":  colorJSON(p.Color),
		})
	}
	return jsonValue(map[string]any{
		"whole": false,
		"field": p.Field.String(),
		"text":  p.Text,
	})
}

// goValidatePartial(field, committed, selStart, selEnd, inserted) - JSON edit.
func validatePartial(this js.Value, args []js.Value) any {
	if len(args) < 5 {
		return js.ValueOf("error: need field, committed, selStart, selEnd, inserted")
	}
	f, err := codec.ParseField(args[0].String())
	if err != nil {
		return errorValue("validate", err)
	}
	e := codec.ValidatePartial(f, args[1].String(), args[2].Int(), args[3].Int(), args[4].String())
	return jsonValue(map[string]any{
		"text":     e.Text,
		"cursor":   e.Cursor,
		"accepted": e.Accepted,
	})
}

// goCommit(format, fieldsJSON, currentCode) - JSON commit result.
func commit(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return js.ValueOf("error: need format, fields, current")
	}
	format, err := codec.ParseFormat(args[0].String())
	if err != nil {
		return errorValue("commit", err)
	}
	var fields []string
	if err := json.Unmarshal([]byte(args[1].String()), &fields); err != nil {
		return errorValue("commit: fields", err)
	}
	current, _, err := codec.Detect(args[2].String())
	if err != nil {
		return errorValue("commit: current", err)
	}

	c, texts, err := codec.Commit(format, fields, current, true)
	return jsonValue(map[string]any{
		"accepted": err == nil,
		"fields":   texts,
		"color":    colorJSON(c),
	})
}

// goCard(colorCode, fontID) - base64 PNG preview card.
func card(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("error: need colorCode")
	}
	c, _, err := codec.Detect(args[0].String())
	if err != nil {
		return errorValue("card", err)
	}

	var rd *swatch.Renderer
	var fontData []byte
	if len(args) > 1 && args[1].Type() == js.TypeString {
		fontsMu.RLock()
		fontData = fonts[args[1].String()]
		fontsMu.RUnlock()
	}
	if fontData != nil {
		rd, err = swatch.NewRendererFromBytes(nil, fontData)
	} else {
		rd, err = swatch.NewRenderer(nil) // embedded fallback
	}
	if err != nil {
		return errorValue("renderer", err)
	}

	img, err := rd.Render(c)
	if err != nil {
		return errorValue("render", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return errorValue("encode", err)
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// goExportAVI(hue, width, height, duration, sweep) - base64 MJPEG AVI.
func exportAVI(this js.Value, args []js.Value) any {
	if len(args) < 5 {
		return js.ValueOf("error: need hue, width, height, duration, sweep")
	}

	duration := max(args[3].Int(), 1)
	cfg := generator.Config{
		Hue:      args[0].Float(),
		Width:    args[1].Int(),
		Height:   args[2].Int(),
		Duration: duration,
		Sweep:    args[4].Bool(),
	}

	// Generate AVI in memory.
	var aviBuf bytes.Buffer
	if err := generator.GenerateToWriter(&aviBuf, ".avi", cfg); err != nil {
		return errorValue("generate AVI", err)
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(aviBuf.Bytes()))
}

// goRegisterFont(id, base64Data) - store a TTF in Go memory.
func registerFont(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("error: need id, base64Data")
	}
	data, err := base64.StdEncoding.DecodeString(args[1].String())
	if err != nil {
		return errorValue("invalid base64", err)
	}
	if _, err := swatch.NewFontManagerFromBytes(data); err != nil {
		return errorValue("font", err)
	}

	fontsMu.Lock()
	fonts[args[0].String()] = data
	fontsMu.Unlock()
	return js.ValueOf("ok")
}

// goRemoveFont(id) - remove a font from Go memory.
func removeFont(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("error: need id")
	}
	fontsMu.Lock()
	delete(fonts, args[0].String())
	fontsMu.Unlock()
	return js.ValueOf("ok")
}
