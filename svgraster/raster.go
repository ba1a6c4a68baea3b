// Implements the raster backend turning a parsed SVG document
// into straight (non premultiplied) RGBA pixels, by wrapping rasterx.
package svgraster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/benoitkugler/svgdib/svgdoc"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// ErrDestination is returned when the pixel buffer can't hold the raster.
var ErrDestination = errors.New("invalid raster destination")

// Renderer draws into one destination image.
type Renderer struct {
	scanner *rasterx.ScannerGV
	dasher  *rasterx.Dasher // strokes, and fills through its embedded Filler
	bounds  image.Rectangle
}

// NewRenderer returns a renderer drawing into dst, clipped to its bounds.
func NewRenderer(dst draw.Image) *Renderer {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(w, h, dst, b)
	return &Renderer{scanner: scanner, dasher: rasterx.NewDasher(w, h, scanner), bounds: b}
}

func toFixed(x, y int) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
}

// FillRect paints r with the color c.
func (rd *Renderer) FillRect(r image.Rectangle, c color.Color) {
	r = r.Intersect(rd.bounds)
	if r.Empty() {
		return
	}
	filler := &rd.dasher.Filler
	filler.Clear()
	filler.SetWinding(true)
	filler.Start(toFixed(r.Min.X, r.Min.Y))
	filler.Line(toFixed(r.Max.X, r.Min.Y))
	filler.Line(toFixed(r.Max.X, r.Max.Y))
	filler.Line(toFixed(r.Min.X, r.Max.Y))
	filler.Stop(true)
	filler.SetColor(c)
	filler.Draw()
	filler.Clear()
}

// Draw paints the document, which must have been targeted with
// svgdoc.Document.SetTarget.
func (rd *Renderer) Draw(doc *svgdoc.Document, opacity float64) {
	doc.Icon().Draw(rd.dasher, opacity)
}

// Fit returns the uniform scale fitting a docW x docH document into
// a cx x cy box, and the size of the raster holding the scaled
// document, rounded up. Sizes are capped at math.MaxInt32.
func Fit(docW, docH float64, cx, cy int) (scale float64, w, h int) {
	scale = float64(cx) / docW
	if sy := float64(cy) / docH; sy < scale {
		scale = sy
	}
	return scale, ceilDim(docW * scale), ceilDim(docH * scale)
}

func ceilDim(v float64) int {
	v = math.Ceil(v)
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// checkSize rejects rasters whose buffer can't be addressed.
func checkSize(w, h int) error {
	if w <= 0 || h <= 0 || w > math.MaxInt32 || h > math.MaxInt32 || int64(w)*int64(h) > math.MaxInt/4 {
		return fmt.Errorf("%w: size %dx%d", ErrDestination, w, h)
	}
	return nil
}

// Rasterizer renders documents into caller provided pixel buffers.
// The zero value is ready to use and draws on a transparent background.
type Rasterizer struct {
	// Background, if not nil, is painted before the document.
	Background color.Color
}

// NewRasterizer returns a rasterizer with a transparent background.
func NewRasterizer() *Rasterizer { return &Rasterizer{} }

// Rasterize renders doc with offset (tx, ty) and uniform scale into dst,
// a top-down w x h buffer of 4 bytes per pixel with the given row stride.
// The pixels are written as straight R, G, B, A.
func (ra *Rasterizer) Rasterize(doc *svgdoc.Document, tx, ty, scale float64, dst []byte, w, h, stride int) error {
	if err := checkSize(w, h); err != nil {
		return err
	}
	if stride < w*4 || stride > math.MaxInt32 {
		return fmt.Errorf("%w: stride %d for width %d", ErrDestination, stride, w)
	}
	if int64(len(dst)) < int64(stride)*int64(h-1)+int64(w)*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrDestination, len(dst), w, h)
	}

	img := &image.NRGBA{Pix: dst, Stride: stride, Rect: image.Rect(0, 0, w, h)}
	for y := 0; y < h; y++ {
		row := img.Pix[y*stride : y*stride+w*4]
		for i := range row {
			row[i] = 0
		}
	}

	rd := NewRenderer(img)
	if ra.Background != nil {
		rd.FillRect(img.Rect, ra.Background)
	}
	doc.SetTarget(tx, ty, scale)
	rd.Draw(doc, 1)
	return nil
}

// RasterDocumentToImage renders doc fitted into a cx x cy box
// and returns the straight alpha image, of Fit size.
func (ra *Rasterizer) RasterDocumentToImage(doc *svgdoc.Document, cx, cy int) (*image.NRGBA, error) {
	scale, w, h := Fit(doc.Width, doc.Height, cx, cy)
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if err := ra.Rasterize(doc, 0, 0, scale, img.Pix, w, h, img.Stride); err != nil {
		return nil, err
	}
	return img, nil
}

// RasterSVGToImage parses the document read from r and renders it
// fitted into a cx x cy box, on a transparent background.
func RasterSVGToImage(r io.Reader, cx, cy int) (*image.NRGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc, err := svgdoc.Parse(data, svgdoc.Options{})
	if err != nil {
		return nil, err
	}
	return NewRasterizer().RasterDocumentToImage(doc, cx, cy)
}
