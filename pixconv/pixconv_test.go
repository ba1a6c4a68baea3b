package pixconv

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPremultiply(t *testing.T) {
	for c := 0; c < 256; c++ {
		for a := 0; a < 256; a++ {
			want := uint8(c * a / 255)
			if got := Premultiply(uint8(c), uint8(a)); got != want {
				t.Fatalf("Premultiply(%d, %d) = %d, want %d", c, a, got, want)
			}
		}
	}
	if Premultiply(255, 255) != 255 || Premultiply(255, 0) != 0 || Premultiply(128, 128) != 64 {
		t.Error("unexpected premultiplied values")
	}
}

func TestPackOpaqueRed(t *testing.T) {
	if got := Pack(255, 0, 0, 255, Swapped); got != 0xFF0000FF {
		t.Errorf("swapped: expected 0xFF0000FF, got %#08X", got)
	}
	if got := Pack(255, 0, 0, 255, Straight); got != 0xFFFF0000 {
		t.Errorf("straight: expected 0xFFFF0000, got %#08X", got)
	}
}

func TestPackFields(t *testing.T) {
	for _, test := range []struct {
		r, g, b, a uint8
	}{
		{255, 255, 255, 255},
		{10, 20, 30, 0},
		{200, 100, 50, 128},
		{1, 254, 77, 3},
		{255, 128, 0, 255},
	} {
		pm := func(c uint8) uint32 { return uint32(c) * uint32(test.a) / 255 }
		for _, order := range []ChannelOrder{Swapped, Straight} {
			got := Pack(test.r, test.g, test.b, test.a, order)
			if got>>24 != uint32(test.a) {
				t.Errorf("%v %s: alpha field %d", test, order, got>>24)
			}
			if (got>>8)&0xFF != pm(test.g) {
				t.Errorf("%v %s: green field %d", test, order, (got>>8)&0xFF)
			}
			wantRed, wantBlue := pm(test.r), pm(test.b)
			if order == Swapped {
				wantRed, wantBlue = wantBlue, wantRed
			}
			if (got>>16)&0xFF != wantRed || got&0xFF != wantBlue {
				t.Errorf("%v %s: got %#08X", test, order, got)
			}
		}
	}
}

func words(pix []byte) []uint32 {
	out := make([]uint32, len(pix)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(pix[4*i:])
	}
	return out
}

func TestConvertOrders(t *testing.T) {
	src := []byte{
		255, 0, 0, 255,
		0, 255, 0, 128,
		0, 0, 255, 0,
	}
	pix := append([]byte(nil), src...)
	ConvertInPlace(pix, Swapped)
	if diff := cmp.Diff([]uint32{0xFF0000FF, 0x80008000, 0x00000000}, words(pix)); diff != "" {
		t.Errorf("swapped (-want +got):\n%s", diff)
	}
	pix = append(pix[:0], src...)
	ConvertInPlace(pix, Straight)
	if diff := cmp.Diff([]uint32{0xFFFF0000, 0x80008000, 0x00000000}, words(pix)); diff != "" {
		t.Errorf("straight (-want +got):\n%s", diff)
	}
}

func TestConvertInPlace(t *testing.T) {
	pix := []byte{
		255, 0, 0, 255,
		10, 20, 30, 255,
	}
	want := []uint32{Pack(255, 0, 0, 255, Straight), Pack(10, 20, 30, 255, Straight)}

	ConvertInPlace(pix, Straight)
	// memory layout of the DIB: B, G, R, A
	if diff := cmp.Diff([]byte{0, 0, 255, 255, 30, 20, 10, 255}, pix); diff != "" {
		t.Errorf("unexpected layout (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, words(pix)); diff != "" {
		t.Errorf("unexpected words (-want +got):\n%s", diff)
	}
}

func TestConvertRows(t *testing.T) {
	pix := []byte{
		255, 0, 0, 255, 9, 9,
		0, 0, 255, 255, 9, 9,
	}
	ConvertRows(pix, 1, 2, 6, Swapped)
	want := []byte{
		255, 0, 0, 255, 9, 9,
		0, 0, 255, 255, 9, 9,
	}
	// swapping then storing as B, G, R, A gives back the rasterizer byte order
	if diff := cmp.Diff(want, pix); diff != "" {
		t.Errorf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestParseChannelOrder(t *testing.T) {
	for _, o := range []ChannelOrder{Swapped, Straight} {
		got, err := ParseChannelOrder(o.String())
		if err != nil || got != o {
			t.Errorf("round trip of %s: %v, %v", o, got, err)
		}
	}
	if got, _ := ParseChannelOrder(""); got != Swapped {
		t.Errorf("empty order should default to swapped, got %s", got)
	}
	if _, err := ParseChannelOrder("bgr"); err == nil {
		t.Error("expected an error")
	}
}
