package dib

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

var (
	// ErrNoDeviceContext is returned when the host can't provide
	// the reference device context.
	ErrNoDeviceContext = errors.New("device context unavailable")
	// ErrCreateBitmap is returned when the host refuses the bitmap.
	ErrCreateBitmap = errors.New("bitmap creation failed")
)

// Host is a graphics subsystem able to realize bitmaps.
type Host interface {
	// AcquireDC returns a reference device context, which must be
	// released after use.
	AcquireDC() (DC, error)
}

// DC is a device context, used as reference to create bitmaps.
type DC interface {
	// CreateBitmap returns a bitmap initialized with bits, laid out
	// as described by hdr. bits is not retained.
	CreateBitmap(hdr *BitmapV4Header, bits []byte) (Bitmap, error)
	Release() error
}

// Bitmap is a host bitmap, owned by the caller.
type Bitmap interface {
	Width() int
	Height() int
	// Close releases the host resources of the bitmap.
	Close() error
}

// MemoryHost realizes bitmaps as *Image values.
type MemoryHost struct{}

type memoryDC struct{}

func (MemoryHost) AcquireDC() (DC, error) { return memoryDC{}, nil }

func (memoryDC) Release() error { return nil }

func (memoryDC) CreateBitmap(hdr *BitmapV4Header, bits []byte) (Bitmap, error) {
	img, err := NewImage(hdr, bits)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Image is an in-memory bitmap. It implements image.Image,
// with premultiplied colors.
type Image struct {
	Header BitmapV4Header
	// Bits holds the rows, top-down, as little endian 0xAARRGGBB words.
	Bits   []byte
	stride int
	w, h   int
}

// NewImage copies bits into a new top-down Image.
// Bottom-up input rows are reordered.
func NewImage(hdr *BitmapV4Header, bits []byte) (*Image, error) {
	if err := hdr.check(bits); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCreateBitmap, err)
	}
	w, h, topDown := hdr.Dims()
	img := &Image{Header: *hdr, stride: hdr.Stride(), w: w, h: h}
	img.Header.Height = -int32(h)
	img.Bits = make([]byte, img.stride*h)
	if topDown {
		copy(img.Bits, bits)
	} else {
		for y := 0; y < h; y++ {
			copy(img.Bits[y*img.stride:(y+1)*img.stride], bits[(h-1-y)*img.stride:])
		}
	}
	return img, nil
}

func (img *Image) Width() int  { return img.w }
func (img *Image) Height() int { return img.h }

// Close releases the pixel memory.
func (img *Image) Close() error {
	img.Bits = nil
	return nil
}

// Pixel returns the packed pixel at (x, y).
func (img *Image) Pixel(x, y int) uint32 {
	i := y*img.stride + x*4
	return binary.LittleEndian.Uint32(img.Bits[i : i+4])
}

func (img *Image) ColorModel() color.Model { return color.RGBAModel }

func (img *Image) Bounds() image.Rectangle { return image.Rect(0, 0, img.w, img.h) }

func channel(p, mask uint32) uint8 {
	switch mask {
	case 0xFF000000:
		return uint8(p >> 24)
	case 0x00FF0000:
		return uint8(p >> 16)
	case 0x0000FF00:
		return uint8(p >> 8)
	default:
		return uint8(p)
	}
}

func (img *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(img.Bounds())) || img.Bits == nil {
		return color.RGBA{}
	}
	p := img.Pixel(x, y)
	hd := &img.Header
	return color.RGBA{
		R: channel(p, hd.RedMask),
		G: channel(p, hd.GreenMask),
		B: channel(p, hd.BlueMask),
		A: channel(p, hd.AlphaMask),
	}
}

// EncodeImage writes img as a .bmp file.
func EncodeImage(w io.Writer, img *Image) error {
	return Encode(w, &img.Header, img.Bits)
}
