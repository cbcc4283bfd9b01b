// Package server provides the HueSlice web picker and HTTP API.
package server

import (
	"bytes"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/xob0t/hueslice/pkg/codec"
	"github.com/xob0t/hueslice/pkg/colorspace"
	"github.com/xob0t/hueslice/pkg/generator"
	"github.com/xob0t/hueslice/pkg/raster"
	"github.com/xob0t/hueslice/pkg/swatch"
)

//go:embed web/*
var webContent embed.FS

// Request limits.
const (
	maxRasterSide = 2048
	maxUpload     = 10 << 20
)

// ── Asset Manager ──

type asset struct {
	Name string
	Data []byte
}

// assetManager holds uploaded fonts for card rendering.
type assetManager struct {
	mu     sync.RWMutex
	assets map[string]*asset
}

func newAssetManager() *assetManager {
	return &assetManager{assets: make(map[string]*asset)}
}

func (am *assetManager) add(name string, data []byte) string {
	id := randomID()
	am.mu.Lock()
	am.assets[id] = &asset{Name: name, Data: data}
	am.mu.Unlock()
	return id
}

func (am *assetManager) get(id string) (*asset, bool) {
	am.mu.RLock()
	a, ok := am.assets[id]
	am.mu.RUnlock()
	return a, ok
}

func (am *assetManager) listAll() []map[string]any {
	am.mu.RLock()
	defer am.mu.RUnlock()
	result := make([]map[string]any, 0, len(am.assets))
	for id, a := range am.assets {
		result = append(result, map[string]any{
			"id":   id,
			"name": a.Name,
			"size": len(a.Data),
		})
	}
	return result
}

func (am *assetManager) remove(id string) bool {
	am.mu.Lock()
	defer am.mu.Unlock()
	if _, ok := am.assets[id]; !ok {
		return false
	}
	delete(am.assets, id)
	return true
}

func randomID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// ── Server ──

type srv struct {
	fonts *assetManager
	log   *slog.Logger
}

// NewHandler returns the HTTP handler serving the API and the embedded picker.
// Rasterizers are created per request; the handler is safe for concurrent use.
func NewHandler(logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &srv{fonts: newAssetManager(), log: logger}

	webFS, err := fs.Sub(webContent, "web")
	if err != nil {
		return nil, fmt.Errorf("embed web: %w", err)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/slice.png", s.handleSlice)
	mux.HandleFunc("GET /api/spectrum.png", s.handleSpectrum)
	mux.HandleFunc("GET /api/card.png", s.handleCard)
	mux.HandleFunc("GET /api/export/{file}", s.handleExport)
	mux.HandleFunc("POST /api/parse", s.handleParse)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("POST /api/commit", s.handleCommit)
	mux.HandleFunc("POST /api/upload/font", s.handleUploadFont)
	mux.HandleFunc("GET /api/assets", s.handleListAssets)
	mux.HandleFunc("DELETE /api/assets/{id}", s.handleDeleteAsset)

	mux.Handle("/", http.FileServer(http.FS(webFS)))

	return s.logRequests(mux), nil
}

// RunServe starts the web picker on the given port.
func RunServe(args []string) error {
	fset := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fset.String("port", "8080", "listen port")
	fset.StringVar(port, "p", "8080", "listen port (shorthand)")
	noBrowser := fset.Bool("no-browser", false, "do not open a browser")
	fset.Parse(args)

	h, err := NewHandler(slog.Default())
	if err != nil {
		return err
	}

	addr := ":" + *port
	slog.Info("HueSlice UI", "url", "http://localhost"+addr)

	if !*noBrowser {
		go openBrowser("http://localhost" + addr)
	}

	return http.ListenAndServe(addr, h)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *srv) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"dur", time.Since(start))
	})
}

// ── Raster ──

func (s *srv) handleSlice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hue, err := floatParam(q.Get("hue"), 0)
	if err != nil {
		s.fail(w, err)
		return
	}
	width, height, err := sizeParams(q.Get("w"), q.Get("h"), 256, 256)
	if err != nil {
		s.fail(w, err)
		return
	}

	buf, err := raster.RenderSlice(width, height, hue)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writePNG(w, buf)
}

func (s *srv) handleSpectrum(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, height, err := sizeParams(q.Get("w"), q.Get("h"), 256, 16)
	if err != nil {
		s.fail(w, err)
		return
	}
	sat, err := floatParam(q.Get("s"), colorspace.MaxPercent)
	if err != nil {
		s.fail(w, err)
		return
	}
	val, err := floatParam(q.Get("v"), colorspace.MaxPercent)
	if err != nil {
		s.fail(w, err)
		return
	}

	row, err := raster.RenderSpectrum(width, sat, val)
	if err != nil {
		s.fail(w, err)
		return
	}
	bar := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(bar, bar.Bounds(), row, row.Bounds(), xdraw.Src, nil)
	s.writePNG(w, bar)
}

func (s *srv) handleCard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, _, err := codec.Detect(q.Get("color"))
	if err != nil {
		s.fail(w, err)
		return
	}

	layout := swatch.DefaultLayout()
	if q.Get("units") == "false" {
		off := false
		layout.WithUnits = &off
	}

	var rd *swatch.Renderer
	if id := q.Get("font"); id != "" {
		a, ok := s.fonts.get(id)
		if !ok {
			http.Error(w, "unknown font "+id, http.StatusNotFound)
			return
		}
		rd, err = swatch.NewRendererFromBytes(layout, a.Data)
	} else {
		rd, err = swatch.NewRenderer(layout)
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	img, err := rd.Render(c)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writePNG(w, img)
}

// handleExport streams generator output. The file name picks the container:
// /api/export/slice.avi?hue=200&sweep=true&duration=2
func (s *srv) handleExport(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	ext := strings.ToLower(filepath.Ext(file))
	q := r.URL.Query()

	hue, err := floatParam(q.Get("hue"), 0)
	if err != nil {
		s.fail(w, err)
		return
	}
	width, height, err := sizeParams(q.Get("w"), q.Get("h"), 256, 256)
	if err != nil {
		s.fail(w, err)
		return
	}
	dur, err := strconv.Atoi(orDefault(q.Get("duration"), "1"))
	if err != nil || dur < 1 || dur > 60 {
		http.Error(w, "duration must be 1–60 seconds", http.StatusBadRequest)
		return
	}

	cfg := generator.Config{
		Width:    width,
		Height:   height,
		Duration: dur,
		Hue:      hue,
		Sweep:    q.Get("sweep") == "true",
		Spectrum: q.Get("spectrum") == "true",
	}

	var buf bytes.Buffer
	if err := generator.GenerateToWriter(&buf, ext, cfg); err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(ext))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sanitizeFilename(file)))
	w.Write(buf.Bytes())
}

// ── Codec ──

type colorResponse struct {
	Hex    string     `json:"hex"`
	RGB    string     `json:"rgb"`
	HSV    string     `json:"hsv"`
	Values colorValue `json:"values"`
}

type colorValue struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

func newColorResponse(c colorspace.Color, withUnits bool) colorResponse {
	rgb, hsv := c.ToRGB(), c.ToHSV()
	return colorResponse{
		Hex: codec.FormatAs(c, codec.Hex, withUnits),
		RGB: codec.FormatAs(c, codec.RGB, withUnits),
		HSV: codec.FormatAs(c, codec.HSV, withUnits),
		Values: colorValue{
			R: rgb.R, G: rgb.G, B: rgb.B,
			H: hsv.H, S: hsv.S, V: hsv.V,
		},
	}
}

func (s *srv) handleParse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string `json:"text"`
		Focus     string `json:"focus"`
		WithUnits *bool  `json:"withUnits"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	focus := codec.FieldHex
	if req.Focus != "" {
		f, err := codec.ParseField(req.Focus)
		if err != nil {
			s.fail(w, fmt.Errorf("%w: %v", errBadParam, err))
			return
		}
		focus = f
	}

	p, err := codec.Paste(req.Text, focus)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := map[string]any{"whole": p.Whole()}
	if p.Whole() {
		resp["format"] = p.Format.String()
		resp["color"] = newColorResponse(p.Color, req.WithUnits == nil || *req.WithUnits)
	} else {
		resp["field"] = p.Field.String()
		resp["text"] = p.Text
	}
	writeJSON(w, resp)
}

func (s *srv) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field     string `json:"field"`
		Committed string `json:"committed"`
		SelStart  int    `json:"selStart"`
		SelEnd    int    `json:"selEnd"`
		Inserted  string `json:"inserted"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	f, err := codec.ParseField(req.Field)
	if err != nil {
		s.fail(w, fmt.Errorf("%w: %v", errBadParam, err))
		return
	}

	e := codec.ValidatePartial(f, req.Committed, req.SelStart, req.SelEnd, req.Inserted)
	writeJSON(w, map[string]any{
		"text":     e.Text,
		"cursor":   e.Cursor,
		"accepted": e.Accepted,
	})
}

// handleCommit resolves a whole format's fields. Rejected commits still
// answer 200 with the field texts reset to the current colour.
func (s *srv) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Format    string   `json:"format"`
		Fields    []string `json:"fields"`
		Current   string   `json:"current"`
		WithUnits *bool    `json:"withUnits"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	format, err := codec.ParseFormat(req.Format)
	if err != nil {
		s.fail(w, fmt.Errorf("%w: %v", errBadParam, err))
		return
	}
	current, _, err := codec.Detect(req.Current)
	if err != nil {
		s.fail(w, fmt.Errorf("current: %w", err))
		return
	}

	units := req.WithUnits == nil || *req.WithUnits
	c, texts, err := codec.Commit(format, req.Fields, current, units)
	resp := map[string]any{
		"accepted": err == nil,
		"fields":   texts,
		"color":    newColorResponse(c, units),
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	writeJSON(w, resp)
}

// ── Upload ──

func (s *srv) handleUploadFont(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUpload))
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := swatch.NewFontManagerFromBytes(data); err != nil {
		s.fail(w, fmt.Errorf("%w: %v", errBadParam, err))
		return
	}
	id := s.fonts.add(header.Filename, data)
	s.log.Info("font uploaded", "id", id, "name", header.Filename, "size", len(data))

	writeJSON(w, map[string]string{
		"id":   id,
		"name": header.Filename,
	})
}

func (s *srv) handleListAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.fonts.listAll())
}

func (s *srv) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.fonts.remove(id) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted", "id": id})
}

// ── Helpers ──

// fail maps domain errors to 400 and everything else to 500.
func (s *srv) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, colorspace.ErrOutOfRange),
		errors.Is(err, colorspace.ErrMalformedHex),
		errors.Is(err, codec.ErrMalformedColorCode),
		errors.Is(err, raster.ErrInvalidDimension),
		errors.Is(err, generator.ErrUnsupportedFormat),
		errors.Is(err, errBadParam):
		status = http.StatusBadRequest
	default:
		s.log.Error("request failed", "err", err)
	}
	http.Error(w, err.Error(), status)
}

func (s *srv) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(v); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *srv) writePNG(w http.ResponseWriter, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.fail(w, fmt.Errorf("encode PNG: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

var errBadParam = errors.New("bad parameter")

func floatParam(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errBadParam, s)
	}
	return v, nil
}

func sizeParams(ws, hs string, defW, defH int) (int, int, error) {
	w, err := strconv.Atoi(orDefault(ws, strconv.Itoa(defW)))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: width %q", errBadParam, ws)
	}
	h, err := strconv.Atoi(orDefault(hs, strconv.Itoa(defH)))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: height %q", errBadParam, hs)
	}
	if w > maxRasterSide || h > maxRasterSide {
		return 0, 0, fmt.Errorf("%w: %dx%d exceeds %d", errBadParam, w, h, maxRasterSide)
	}
	return w, h, nil
}

// orDefault returns s, or def when s is empty.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func contentType(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".bmp":
		return "image/bmp"
	case ".avi":
		return "video/avi"
	}
	return "application/octet-stream"
}

func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, `"`, "_")
	return name
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Start()
}
