// Package pixconv converts straight alpha RGBA rasters into the
// premultiplied 32 bits pixels of a bit-field device independent bitmap,
// whose masks are alpha 0xFF000000, red 0x00FF0000, green 0x0000FF00
// and blue 0x000000FF.
package pixconv

import (
	"encoding/binary"
	"fmt"
)

// ChannelOrder selects which rasterizer samples end up in the
// red and blue fields of the packed pixel.
type ChannelOrder uint8

const (
	// Swapped stores the blue sample in the red field and the red sample
	// in the blue field. Existing callers of the loader rely on it.
	Swapped ChannelOrder = iota
	// Straight stores each sample in its own field.
	Straight
)

func (o ChannelOrder) String() string {
	switch o {
	case Swapped:
		return "swapped"
	case Straight:
		return "straight"
	default:
		return fmt.Sprintf("ChannelOrder(%d)", uint8(o))
	}
}

// ParseChannelOrder is the inverse of ChannelOrder.String.
func ParseChannelOrder(s string) (ChannelOrder, error) {
	switch s {
	case "swapped", "":
		return Swapped, nil
	case "straight":
		return Straight, nil
	}
	return 0, fmt.Errorf("invalid channel order %q (expected swapped or straight)", s)
}

// Premultiply returns floor(c * a / 255).
func Premultiply(c, a uint8) uint8 {
	return uint8(uint32(c) * uint32(a) / 255)
}

// Pack premultiplies the straight sample (r, g, b, a)
// and packs it as 0xAARRGGBB, following order.
func Pack(r, g, b, a uint8, order ChannelOrder) uint32 {
	if order == Swapped {
		r, b = b, r
	}
	return uint32(a)<<24 |
		uint32(Premultiply(r, a))<<16 |
		uint32(Premultiply(g, a))<<8 |
		uint32(Premultiply(b, a))
}

// ConvertInPlace replaces every R, G, B, A sample of pix by its
// packed pixel, stored in little endian order (the memory layout of
// a 32 bits DIB: blue, green, red, alpha).
func ConvertInPlace(pix []byte, order ChannelOrder) {
	for i := 0; i+4 <= len(pix); i += 4 {
		p := pix[i : i+4 : i+4]
		binary.LittleEndian.PutUint32(p, Pack(p[0], p[1], p[2], p[3], order))
	}
}

// ConvertRows is ConvertInPlace for a w x h raster whose rows
// are stride bytes apart. Row padding is left untouched.
func ConvertRows(pix []byte, w, h, stride int, order ChannelOrder) {
	for y := 0; y < h; y++ {
		ConvertInPlace(pix[y*stride:y*stride+w*4], order)
	}
}
