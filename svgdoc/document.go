// Provides parsing of SVG documents into a drawable icon
// together with the intrinsic size of the document,
// resolved in a caller chosen unit and resolution.
// Drawing elements are parsed by oksvg; this package
// reads the root element geometry (width, height, viewBox,
// preserveAspectRatio) the way a fixed size rasterization needs it.
package svgdoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"golang.org/x/net/html/charset"
)

var (
	// ErrParse is returned for input which is not an SVG document.
	ErrParse = errors.New("invalid svg document")
	// ErrDegenerate is returned when the document has no positive size.
	ErrDegenerate = errors.New("svg document has an empty size")
	// ErrUnits is returned for an unknown unit name.
	ErrUnits = errors.New("unknown svg unit")
)

// Box is a rectangle in user space, such as a viewBox.
type Box struct{ X, Y, W, H float64 }

// Options controls how the document size is resolved.
// The zero value selects pixels at 96 DPI with a 12px font size.
type Options struct {
	Units    string  // unit of Document.Width and Height, "px" if empty
	DPI      float64 // resolution used to convert physical units, 96 if zero
	FontSize float64 // reference for "em" and "ex", 12 if zero
	Strict   bool    // fail on elements oksvg does not support
}

// DefaultDPI is the reference resolution of CSS pixels.
const DefaultDPI = 96

func (o Options) withDefaults() Options {
	if o.Units == "" {
		o.Units = "px"
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.FontSize <= 0 {
		o.FontSize = 12
	}
	return o
}

// Document is a parsed SVG document.
// Drawing it changes the target transform of the underlying
// icon, so a Document must not be rasterized concurrently.
type Document struct {
	// Width and Height are the intrinsic size, in Units.
	Width, Height float64
	Units         string
	ViewBox       Box
	Aspect        AspectRatio

	icon *oksvg.SvgIcon
}

// Icon returns the drawable representation of the document.
func (doc *Document) Icon() *oksvg.SvgIcon { return doc.icon }

// rootAttrs are the geometry attributes of the <svg> element.
type rootAttrs struct {
	width, height, viewBox, aspect string
	hasViewBox                     bool
	// byte range of the start tag in the input
	start, end int64
}

// scanRoot decodes tokens up to the first element, which must be <svg>.
func scanRoot(data []byte) (rootAttrs, error) {
	var out rootAttrs
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		off := decoder.InputOffset()
		t, err := decoder.Token()
		if err == io.EOF {
			return out, fmt.Errorf("%w: no root element", ErrParse)
		}
		if err != nil {
			return out, fmt.Errorf("%w: %s", ErrParse, err)
		}
		se, ok := t.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" {
			return out, fmt.Errorf("%w: unexpected root element <%s>", ErrParse, se.Name.Local)
		}
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "width":
				out.width = attr.Value
			case "height":
				out.height = attr.Value
			case "viewBox":
				out.viewBox, out.hasViewBox = attr.Value, true
			case "preserveAspectRatio":
				out.aspect = attr.Value
			}
		}
		out.start, out.end = off, decoder.InputOffset()
		return out, nil
	}
}

func parseViewBox(v string) (Box, error) {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return Box{}, fmt.Errorf("%w: viewBox %q", ErrParse, v)
	}
	var vals [4]float64
	for i, f := range fields {
		var err error
		vals[i], err = strconv.ParseFloat(f, 64)
		if err != nil {
			return Box{}, fmt.Errorf("%w: viewBox %q", ErrParse, v)
		}
	}
	return Box{vals[0], vals[1], vals[2], vals[3]}, nil
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// rewriteRootSize replaces the width and height of the root element
// by their values in pixels, since oksvg only reads plain numbers there.
// The start tag is walked attribute by attribute, so that quoted values
// are never rewritten.
func rewriteRootSize(data []byte, root rootAttrs, w, h float64) []byte {
	if root.start < 0 || root.start >= root.end || root.end > int64(len(data)) || data[root.start] != '<' {
		return data
	}
	tag := data[root.start:root.end]
	out := make([]byte, 0, len(data)+32)
	out = append(out, data[:root.start]...)

	skipSpaces := func(i int) int {
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		return i
	}
	i := 1
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' { // element name
		i++
	}
	last := 0
	for i < len(tag) {
		i = skipSpaces(i)
		nameStart := i
		for i < len(tag) && tag[i] != '=' && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
			i++
		}
		name := string(tag[nameStart:i])
		i = skipSpaces(i)
		if i >= len(tag) || tag[i] != '=' {
			break
		}
		i = skipSpaces(i + 1)
		if i >= len(tag) || (tag[i] != '"' && tag[i] != '\'') {
			break
		}
		valStart := i + 1
		n := bytes.IndexByte(tag[valStart:], tag[i])
		if n < 0 {
			break
		}
		valEnd := valStart + n
		if name == "width" || name == "height" {
			v := w
			if name == "height" {
				v = h
			}
			out = append(out, tag[last:valStart]...)
			out = strconv.AppendFloat(out, v, 'f', -1, 64)
			last = valEnd
		}
		i = valEnd + 1
	}
	out = append(out, tag[last:]...)
	return append(out, data[root.end:]...)
}

// Parse parses data as an SVG document. Empty or malformed input
// fails with ErrParse, a document without a positive width and height
// with ErrDegenerate.
func Parse(data []byte, opts Options) (*Document, error) {
	opts = opts.withDefaults()
	pxPerUnit, err := unitSize(opts.Units, opts)
	if err != nil {
		return nil, err
	}

	root, err := scanRoot(data)
	if err != nil {
		return nil, err
	}

	doc := &Document{Units: opts.Units}
	if root.hasViewBox {
		if doc.ViewBox, err = parseViewBox(root.viewBox); err != nil {
			return nil, err
		}
	}
	if doc.Aspect, err = ParseAspectRatio(root.aspect); err != nil {
		return nil, err
	}
	widthPx, err := resolveLength(root.width, doc.ViewBox.W, opts)
	if err != nil {
		return nil, err
	}
	heightPx, err := resolveLength(root.height, doc.ViewBox.H, opts)
	if err != nil {
		return nil, err
	}
	// no fallback to the drawing bounds: a root without size nor viewBox is rejected
	if !(widthPx > 0 && heightPx > 0) {
		return nil, fmt.Errorf("%w: %gx%g", ErrDegenerate, widthPx, heightPx)
	}

	errMode := oksvg.IgnoreErrorMode
	if opts.Strict {
		errMode = oksvg.StrictErrorMode
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(rewriteRootSize(data, root, widthPx, heightPx)), errMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}
	doc.icon = icon
	if !(doc.ViewBox.W > 0 && doc.ViewBox.H > 0) {
		doc.ViewBox = Box{W: widthPx, H: heightPx}
	}
	icon.ViewBox.X, icon.ViewBox.Y = doc.ViewBox.X, doc.ViewBox.Y
	icon.ViewBox.W, icon.ViewBox.H = doc.ViewBox.W, doc.ViewBox.H

	doc.Width, doc.Height = widthPx/pxPerUnit, heightPx/pxPerUnit
	return doc, nil
}

// Placement returns the rectangle, in raster pixels, the viewBox
// is mapped to when the document is drawn at offset (tx, ty)
// with a uniform scale.
func (doc *Document) Placement(tx, ty, scale float64) Box {
	box := Box{tx, ty, doc.Width * scale, doc.Height * scale}
	return doc.Aspect.Place(doc.ViewBox, box)
}

// SetTarget prepares the icon to be drawn at offset (tx, ty)
// with a uniform scale.
func (doc *Document) SetTarget(tx, ty, scale float64) {
	p := doc.Placement(tx, ty, scale)
	doc.icon.SetTarget(p.X, p.Y, p.W, p.H)
}
