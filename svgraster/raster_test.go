package svgraster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/svgdib/svgdoc"
	"github.com/google/go-cmp/cmp"
)

const redRect = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 200 100">
	<rect x="0" y="0" width="200" height="100" fill="#ff0000"/>
</svg>`

const halfBlue = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
	<rect x="0" y="0" width="10" height="10" fill="#0000ff" fill-opacity="0.5"/>
</svg>`

const empty = `<svg xmlns="http://www.w3.org/2000/svg" width="8" height="4"/>`

func parse(t *testing.T, src string) *svgdoc.Document {
	t.Helper()
	doc, err := svgdoc.Parse([]byte(src), svgdoc.Options{})
	if err != nil {
		t.Fatalf("can't parse svg source: %s", err)
	}
	return doc
}

// saveToPngFile is a debugging helper, enabled with SVGDIB_DEBUG_DIR.
func saveToPngFile(t *testing.T, name string, m image.Image) {
	dir := os.Getenv("SVGDIB_DEBUG_DIR")
	if dir == "" {
		return
	}
	var b bytes.Buffer
	if err := png.Encode(&b, m); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".png"), b.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFit(t *testing.T) {
	for _, test := range []struct {
		docW, docH float64
		cx, cy     int
		scale      float64
		w, h       int
	}{
		{200, 100, 100, 100, 0.5, 100, 50},
		{100, 200, 100, 100, 0.5, 50, 100},
		{10, 10, 64, 32, 3.2, 32, 32},
		{3, 7, 10, 10, 10.0 / 7, 5, 10},
		{48, 48, 48, 48, 1, 48, 48},
		{0.5, 0.25, 3, 3, 6, 3, 2},
	} {
		scale, w, h := Fit(test.docW, test.docH, test.cx, test.cy)
		if scale != test.scale || w != test.w || h != test.h {
			t.Errorf("Fit(%g, %g, %d, %d) = %g, %d, %d; want %g, %d, %d",
				test.docW, test.docH, test.cx, test.cy, scale, w, h, test.scale, test.w, test.h)
		}
	}
}

func TestRasterize(t *testing.T) {
	doc := parse(t, redRect)
	scale, w, h := Fit(doc.Width, doc.Height, 100, 100)
	if w != 100 || h != 50 {
		t.Fatalf("unexpected raster size %dx%d", w, h)
	}
	buf := make([]byte, w*h*4)
	if err := NewRasterizer().Rasterize(doc, 0, 0, scale, buf, w, h, w*4); err != nil {
		t.Fatal(err)
	}
	img := &image.NRGBA{Pix: buf, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	saveToPngFile(t, "red_rect", img)
	for _, p := range []image.Point{{50, 25}, {1, 1}, {98, 48}} {
		if got := img.NRGBAAt(p.X, p.Y); got != (color.NRGBA{255, 0, 0, 255}) {
			t.Errorf("pixel %v: expected opaque red, got %v", p, got)
		}
	}
}

func TestRasterizeStraightAlpha(t *testing.T) {
	doc := parse(t, halfBlue)
	img, err := NewRasterizer().RasterDocumentToImage(doc, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	got := img.NRGBAAt(5, 5)
	// straight alpha: the color is not scaled down by the coverage
	if got.B < 250 || got.R != 0 || got.G != 0 || got.A < 120 || got.A > 135 {
		t.Errorf("expected half transparent straight blue, got %v", got)
	}
}

func TestRasterizeClears(t *testing.T) {
	doc := parse(t, empty)
	w, h := 8, 4
	buf := bytes.Repeat([]byte{0xAB}, w*h*4)
	if err := NewRasterizer().Rasterize(doc, 0, 0, 1, buf, w, h, w*4); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(make([]byte, w*h*4), buf); diff != "" {
		t.Errorf("expected a transparent raster (-want +got):\n%s", diff)
	}
}

func TestRasterizeStride(t *testing.T) {
	doc := parse(t, empty)
	w, h, stride := 8, 4, 40
	buf := bytes.Repeat([]byte{0xAB}, stride*h)
	ra := Rasterizer{Background: color.White}
	if err := ra.Rasterize(doc, 0, 0, 1, buf, w, h, stride); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		row := buf[y*stride : (y+1)*stride]
		for x := 0; x < w*4; x++ {
			if row[x] != 0xFF {
				t.Fatalf("pixel byte (%d, %d) = %x, expected opaque white", x, y, row[x])
			}
		}
		// row padding is left untouched
		for _, b := range row[w*4:] {
			if b != 0xAB {
				t.Fatalf("row %d: padding modified", y)
			}
		}
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	doc := parse(t, redRect)
	a, err := NewRasterizer().RasterDocumentToImage(doc, 37, 23)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRasterizer().RasterDocumentToImage(doc, 37, 23)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Pix, b.Pix); diff != "" {
		t.Errorf("rasterization is not deterministic:\n%s", diff)
	}
}

func TestRasterizeDestination(t *testing.T) {
	doc := parse(t, empty)
	ra := NewRasterizer()
	for _, test := range []struct {
		buf          []byte
		w, h, stride int
	}{
		{make([]byte, 16), 0, 1, 0},
		{make([]byte, 16), 2, -1, 8},
		{make([]byte, 16), 2, 2, 4},
		{make([]byte, 15), 2, 2, 8},
		{make([]byte, 16), 1 << 16, 1 << 16, 1 << 18},
		{make([]byte, 16), 2, 2, math.MaxInt},
		{make([]byte, 16), math.MaxInt, 1, math.MaxInt},
	} {
		err := ra.Rasterize(doc, 0, 0, 1, test.buf, test.w, test.h, test.stride)
		if !errors.Is(err, ErrDestination) {
			t.Errorf("%dx%d stride %d on %d bytes: expected ErrDestination, got %v",
				test.w, test.h, test.stride, len(test.buf), err)
		}
	}
}

func TestFitCapsSize(t *testing.T) {
	_, w, h := Fit(1, 1, math.MaxInt, math.MaxInt)
	if w != math.MaxInt32 || h != math.MaxInt32 {
		t.Errorf("expected capped size, got %dx%d", w, h)
	}
	doc := parse(t, `<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"/>`)
	if _, err := NewRasterizer().RasterDocumentToImage(doc, math.MaxInt, math.MaxInt); !errors.Is(err, ErrDestination) {
		t.Errorf("expected ErrDestination, got %v", err)
	}
}

func TestRasterSVGToImage(t *testing.T) {
	img, err := RasterSVGToImage(strings.NewReader(redRect), 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("unexpected bounds %v", b)
	}

	if _, err = RasterSVGToImage(strings.NewReader(""), 10, 10); !errors.Is(err, svgdoc.ErrParse) {
		t.Errorf("expected parse error, got %v", err)
	}
}
