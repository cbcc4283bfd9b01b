package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/xob0t/hueslice/pkg/colorspace"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h, err := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return resp, out
}

func TestSlicePNG(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/slice.png?hue=240&w=8&h=4")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("bounds = %v, want 8x4", b)
	}
	// Top-left: s=0, v=100.
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("top-left = %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}
}

func TestSliceBadParams(t *testing.T) {
	ts := newTestServer(t)

	for _, q := range []string{
		"hue=361",
		"hue=abc",
		"w=0",
		"w=-3",
		"h=x",
		"w=100000",
	} {
		t.Run(q, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/slice.png?" + q)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestSpectrumPNG(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/spectrum.png?w=6&h=3")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Fatalf("bounds = %v, want 6x3", b)
	}
	// Column 2 is hue 120 on every row.
	for y := 0; y < 3; y++ {
		r, g, b, _ := img.At(2, y).RGBA()
		if r != 0 || g>>8 != 255 || b != 0 {
			t.Errorf("row %d col 2 = %d,%d,%d, want green", y, r>>8, g>>8, b>>8)
		}
	}
}

func TestParse(t *testing.T) {
	ts := newTestServer(t)

	_, out := postJSON(t, ts.URL+"/api/parse", map[string]any{"text": "rgb(255, 0, 0)"})
	if out == nil {
		t.Fatal("no response body")
	}
	if out["whole"] != true || out["format"] != "rgb" {
		t.Errorf("parse = %v", out)
	}
	color := out["color"].(map[string]any)
	if color["hex"] != "#FF0000" || color["hsv"] != "hsv(h:0, s:100, v:100)" {
		t.Errorf("color = %v", color)
	}

	_, out = postJSON(t, ts.URL+"/api/parse", map[string]any{"text": "200", "focus": "g"})
	if out["whole"] != false || out["field"] != "green" || out["text"] != "200" {
		t.Errorf("field paste = %v", out)
	}

	resp, _ := postJSON(t, ts.URL+"/api/parse", map[string]any{"text": "banana"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad paste status = %d, want 400", resp.StatusCode)
	}
}

func TestValidate(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		committed string
		inserted  string
		accepted  bool
		text      string
	}{
		{"25", "5", true, "255"},
		{"25", "6", false, ""},
		{"", "r:", true, "r:"},
	}
	for _, tt := range tests {
		_, out := postJSON(t, ts.URL+"/api/validate", map[string]any{
			"field":     "red",
			"committed": tt.committed,
			"selStart":  len(tt.committed),
			"selEnd":    len(tt.committed),
			"inserted":  tt.inserted,
		})
		if out["accepted"] != tt.accepted || out["text"] != tt.text {
			t.Errorf("%q+%q = %v, want accepted=%v text=%q", tt.committed, tt.inserted, out, tt.accepted, tt.text)
		}
	}

	resp, _ := postJSON(t, ts.URL+"/api/validate", map[string]any{"field": "alpha"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", resp.StatusCode)
	}
}

func TestCommit(t *testing.T) {
	ts := newTestServer(t)

	_, out := postJSON(t, ts.URL+"/api/commit", map[string]any{
		"format":  "rgb",
		"fields":  []string{"r:10", "g:20", "b:999"},
		"current": "#0A141E",
	})
	if out["accepted"] != false {
		t.Errorf("commit of b:999 accepted: %v", out)
	}
	fields := out["fields"].([]any)
	if fields[0] != "r:10" || fields[1] != "g:20" || fields[2] != "b:30" {
		t.Errorf("fields not reset: %v", fields)
	}

	_, out = postJSON(t, ts.URL+"/api/commit", map[string]any{
		"format":  "hsv",
		"fields":  []string{"120", "100", "100"},
		"current": "#000000",
	})
	if out["accepted"] != true {
		t.Fatalf("valid commit rejected: %v", out)
	}
	if hex := out["color"].(map[string]any)["hex"]; hex != "#00FF00" {
		t.Errorf("hex = %v, want #00FF00", hex)
	}
}

func TestCard(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/card.png?color=%23336699")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, err := png.Decode(resp.Body); err != nil {
		t.Fatal(err)
	}

	resp2, err := http.Get(ts.URL + "/api/card.png?color=nope")
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("bad colour status = %d, want 400", resp2.StatusCode)
	}
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/export/sweep.avi?w=8&h=8&sweep=true")
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "AVI " {
		t.Errorf("not an AVI: % x", data[:12])
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "sweep.avi") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	resp, err = http.Get(ts.URL + "/api/export/slice.gif")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif status = %d, want 400", resp.StatusCode)
	}
}

func TestFontAssets(t *testing.T) {
	ts := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "goregular.ttf")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(goregular.TTF)
	mw.Close()

	resp, err := http.Post(ts.URL+"/api/upload/font", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	var up map[string]string
	json.NewDecoder(resp.Body).Decode(&up)
	resp.Body.Close()
	id := up["id"]
	if id == "" {
		t.Fatalf("upload response = %v", up)
	}

	resp, err = http.Get(ts.URL + "/api/card.png?color=red&font=" + id)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	// "red" is not a colour code.
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/card.png?color=%23FF0000&font=" + id)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("card with uploaded font status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/assets/"+id, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", resp.StatusCode)
	}

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(data), "HueSlice") {
		t.Error("index page not served")
	}
}

func TestNewColorResponse(t *testing.T) {
	got := newColorResponse(colorspace.RGB{G: 255}, false)
	if got.RGB != "rgb(0, 255, 0)" || got.Values.H != 120 {
		t.Errorf("newColorResponse = %+v", got)
	}
}
