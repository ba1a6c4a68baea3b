//go:build windows

package dib

import (
	"errors"
	"testing"
)

func TestGDIHost(t *testing.T) {
	if _, ok := DefaultHost().(GDIHost); !ok {
		t.Fatalf("unexpected default host %T", DefaultHost())
	}
	dc, err := GDIHost{}.AcquireDC()
	if err != nil {
		t.Skipf("no desktop device context: %s", err)
	}

	hdr := NewHeader(2, 2)
	bm, err := dc.CreateBitmap(&hdr, pixels(0xFF0000FF, 0x80008000, 0, 0xFFFFFFFF))
	if err != nil {
		t.Fatal(err)
	}
	hb := bm.(*HBitmap)
	if hb.Handle() == 0 || bm.Width() != 2 || bm.Height() != 2 {
		t.Errorf("unexpected bitmap %v %dx%d", hb.Handle(), bm.Width(), bm.Height())
	}
	if err := bm.Close(); err != nil {
		t.Error(err)
	}
	if err := bm.Close(); err != nil {
		t.Errorf("second Close should be a no-op: %s", err)
	}

	bm, err = dc.CreateBitmap(&hdr, make([]byte, 3))
	if !errors.Is(err, ErrCreateBitmap) || bm != nil {
		t.Errorf("expected ErrCreateBitmap and no bitmap, got %v, %v", bm, err)
	}

	if err := dc.Release(); err != nil {
		t.Error(err)
	}
}
