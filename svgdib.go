// Package svgdib loads SVG documents as premultiplied alpha bitmaps,
// ready to be painted by a windowing system.
//
// A document is read from a file or an embedded resource, fitted into
// a pixel box preserving its aspect ratio, rasterized, and converted to
// a top-down 32 bits bit-field device independent bitmap, which the host
// graphics subsystem (GDI on Windows) turns into a bitmap handle:
//
//	bm, err := svgdib.LoadVectorImageAsBitmap(nil, "icon.svg", svgdib.LoadFromFile, 64, 64)
//	if err != nil {
//		// use a placeholder
//	}
//	defer bm.Close()
package svgdib

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"

	"github.com/benoitkugler/svgdib/dib"
	"github.com/benoitkugler/svgdib/pixconv"
	"github.com/benoitkugler/svgdib/svgdoc"
	"github.com/benoitkugler/svgdib/svgraster"
	"github.com/benoitkugler/svgdib/svgsource"
)

// ErrZeroTarget is returned when the target width or height is not positive.
var ErrZeroTarget = errors.New("target size must be positive")

// LoadFlags selects how the source name is interpreted.
type LoadFlags uint

// LoadFromFile interprets the name as a file path.
// Without it, the name designates an entry of the module file system.
const LoadFromFile LoadFlags = 0x10

type config struct {
	host       dib.Host
	order      pixconv.ChannelOrder
	doc        svgdoc.Options
	background color.Color
}

// Option customizes the loading.
type Option func(*config)

// WithHost selects the graphics subsystem realizing the bitmap.
// The default is dib.DefaultHost().
func WithHost(h dib.Host) Option { return func(c *config) { c.host = h } }

// WithChannelOrder selects the red/blue placement of the packed pixels.
// The default is pixconv.Swapped.
func WithChannelOrder(o pixconv.ChannelOrder) Option { return func(c *config) { c.order = o } }

// WithUnits selects the unit the document size is resolved in.
// The fit scale maps one such unit to scale pixels. The default is "px".
func WithUnits(units string) Option { return func(c *config) { c.doc.Units = units } }

// WithDPI sets the resolution used to resolve physical units. The default is 96.
func WithDPI(dpi float64) Option { return func(c *config) { c.doc.DPI = dpi } }

// WithStrict makes elements the parser does not support a parse error,
// instead of skipping them.
func WithStrict(strict bool) Option { return func(c *config) { c.doc.Strict = strict } }

// WithBackground paints bg under the document. The default is transparent.
func WithBackground(bg color.Color) Option { return func(c *config) { c.background = bg } }

func newConfig(opts []Option) config {
	c := config{order: pixconv.Swapped, doc: svgdoc.Options{Units: "px", DPI: svgdoc.DefaultDPI}}
	for _, opt := range opts {
		opt(&c)
	}
	if c.host == nil {
		c.host = dib.DefaultHost()
	}
	return c
}

// Raster is a converted pixel buffer, ready to be realized.
type Raster struct {
	Header dib.BitmapV4Header
	// Bits holds the rows, top-down, as little endian 0xAARRGGBB
	// premultiplied words.
	Bits          []byte
	Width, Height int
	// Scale is the uniform scale applied to the document.
	Scale float64
	// Document is the parsed source.
	Document *svgdoc.Document
}

// LoadVectorImageAsBitmap loads the SVG named name, either from the file
// system when flags contains LoadFromFile (module is then ignored), or
// from module, and returns it as a bitmap fitted into a cx x cy box.
// The caller owns the returned bitmap.
func LoadVectorImageAsBitmap(module fs.FS, name string, flags LoadFlags, cx, cy int, opts ...Option) (dib.Bitmap, error) {
	var src svgsource.Source
	if flags&LoadFromFile != 0 {
		src = svgsource.File(name)
	} else {
		src = svgsource.NewFS(module, name)
	}
	return LoadImage(src, cx, cy, opts...)
}

// LoadImage renders the document provided by src fitted into a cx x cy box
// and realizes it through the configured host.
func LoadImage(src svgsource.Source, cx, cy int, opts ...Option) (dib.Bitmap, error) {
	cfg := newConfig(opts)
	raster, err := render(src, cx, cy, &cfg)
	if err != nil {
		return nil, err
	}
	return realize(cfg.host, raster)
}

// Render runs the pipeline up to the pixel conversion, without
// involving any host.
func Render(src svgsource.Source, cx, cy int, opts ...Option) (*Raster, error) {
	cfg := newConfig(opts)
	return render(src, cx, cy, &cfg)
}

func render(src svgsource.Source, cx, cy int, cfg *config) (*Raster, error) {
	logger := Logger()
	if cx <= 0 || cy <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrZeroTarget, cx, cy)
	}

	data, err := src.Load()
	if err != nil {
		return nil, err
	}
	logger.Debug("svg source loaded", slog.String("source", svgsource.Describe(src)), slog.Int("bytes", len(data)))

	doc, err := svgdoc.Parse(data, cfg.doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", svgsource.Describe(src), err)
	}

	scale, w, h := svgraster.Fit(doc.Width, doc.Height, cx, cy)
	logger.Debug("svg document fitted",
		slog.Float64("width", doc.Width), slog.Float64("height", doc.Height), slog.String("units", doc.Units),
		slog.Float64("scale", scale), slog.Int("rasterWidth", w), slog.Int("rasterHeight", h))

	size, ok := dib.ImageSize(w, h)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%d raster for a %dx%d target", svgraster.ErrDestination, w, h, cx, cy)
	}
	out := &Raster{
		Header:   dib.NewHeader(w, h),
		Bits:     make([]byte, size),
		Width:    w,
		Height:   h,
		Scale:    scale,
		Document: doc,
	}
	ra := svgraster.Rasterizer{Background: cfg.background}
	stride := out.Header.Stride()
	if err := ra.Rasterize(doc, 0, 0, scale, out.Bits, w, h, stride); err != nil {
		return nil, err
	}
	pixconv.ConvertRows(out.Bits, w, h, stride, cfg.order)
	return out, nil
}

// Realize hands r to host and returns the resulting bitmap.
func (r *Raster) Realize(host dib.Host) (dib.Bitmap, error) {
	return realize(host, r)
}

func realize(host dib.Host, r *Raster) (bm dib.Bitmap, err error) {
	dc, err := host.AcquireDC()
	if err != nil {
		if !errors.Is(err, dib.ErrNoDeviceContext) {
			err = fmt.Errorf("%w: %s", dib.ErrNoDeviceContext, err)
		}
		return nil, err
	}
	defer func() {
		if rerr := dc.Release(); rerr != nil {
			Logger().Warn("releasing device context", slog.Any("error", rerr))
		}
	}()

	bm, err = dc.CreateBitmap(&r.Header, r.Bits)
	if err != nil {
		return nil, err
	}
	Logger().Debug("bitmap created", slog.Int("width", bm.Width()), slog.Int("height", bm.Height()))
	return bm, nil
}
