// Package dib describes 32 bits bit-field device independent bitmaps
// and realizes them as host bitmaps: GDI handles on Windows,
// in-memory images elsewhere.
package dib

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Header constants, as defined by wingdi.h.
const (
	BI_RGB       = 0
	BI_BITFIELDS = 3

	LCS_CALIBRATED_RGB = 0

	RedMask   = 0x00FF0000
	GreenMask = 0x0000FF00
	BlueMask  = 0x000000FF
	AlphaMask = 0xFF000000
)

// BitmapV4Header mirrors the BITMAPV4HEADER structure.
// Its in-memory layout matches the Windows one (108 bytes, no padding).
type BitmapV4Header struct {
	Size          uint32
	Width         int32
	Height        int32 // negative for top-down bitmaps
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
	RedMask       uint32
	GreenMask     uint32
	BlueMask      uint32
	AlphaMask     uint32
	CSType        uint32
	Endpoints     [9]int32 // CIEXYZTRIPLE, unused for calibrated RGB
	GammaRed      uint32
	GammaGreen    uint32
	GammaBlue     uint32
}

// HeaderSize is the encoded size of BitmapV4Header.
const HeaderSize = 108

// ImageSize returns the byte size w*h*4 of a 32 bits bitmap, and false
// if the bitmap can't be described by the header fields or addressed
// in memory.
func ImageSize(w, h int) (int, bool) {
	if w <= 0 || h <= 0 || w > math.MaxInt32 || h > math.MaxInt32 {
		return 0, false
	}
	// w*h fits in 62 bits
	if int64(w)*int64(h) > math.MaxUint32/4 {
		return 0, false
	}
	n := int64(w) * int64(h) * 4
	if n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

// NewHeader returns the descriptor of a top-down w x h bitmap
// of premultiplied 0xAARRGGBB pixels.
// The size must be accepted by ImageSize.
func NewHeader(w, h int) BitmapV4Header {
	return BitmapV4Header{
		Size:        HeaderSize,
		Width:       int32(w),
		Height:      -int32(h),
		Planes:      1,
		BitCount:    32,
		Compression: BI_BITFIELDS,
		SizeImage:   uint32(w * h * 4),
		RedMask:     RedMask,
		GreenMask:   GreenMask,
		BlueMask:    BlueMask,
		AlphaMask:   AlphaMask,
		CSType:      LCS_CALIBRATED_RGB,
	}
}

// Dims returns the width and the (positive) height of the bitmap,
// and whether its rows are stored top-down.
func (h *BitmapV4Header) Dims() (width, height int, topDown bool) {
	width, height = int(h.Width), int(h.Height)
	if height < 0 {
		return width, -height, true
	}
	return width, height, false
}

// Stride returns the number of bytes between two rows,
// which are aligned on 4 bytes.
func (h *BitmapV4Header) Stride() int {
	return (int(h.Width)*int(h.BitCount) + 31) / 32 * 4
}

var errUnsupported = errors.New("unsupported bitmap format")

// check validates that bits can be interpreted with h.
func (h *BitmapV4Header) check(bits []byte) error {
	if h.BitCount != 32 || h.Compression != BI_BITFIELDS || h.Planes != 1 {
		return fmt.Errorf("%w: %d bits, compression %d", errUnsupported, h.BitCount, h.Compression)
	}
	w, ht, _ := h.Dims()
	if _, ok := ImageSize(w, ht); !ok {
		return fmt.Errorf("%w: size %dx%d", errUnsupported, w, ht)
	}
	if len(bits) < h.Stride()*ht {
		return fmt.Errorf("%w: %d bytes for %dx%d", errUnsupported, len(bits), w, ht)
	}
	return nil
}

// bitmapFileHeader mirrors BITMAPFILEHEADER.
type bitmapFileHeader struct {
	Type      [2]byte
	Size      uint32
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32
}

const fileHeaderSize = 14

// Encode writes a .bmp file made of hdr and the pixel rows in bits.
func Encode(w io.Writer, hdr *BitmapV4Header, bits []byte) error {
	if err := hdr.check(bits); err != nil {
		return err
	}
	_, height, _ := hdr.Dims()
	size := hdr.Stride() * height
	fh := bitmapFileHeader{
		Type:    [2]byte{'B', 'M'},
		Size:    uint32(fileHeaderSize + HeaderSize + size),
		OffBits: fileHeaderSize + HeaderSize,
	}
	if err := binary.Write(w, binary.LittleEndian, fh); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}
	_, err := w.Write(bits[:size])
	return err
}
