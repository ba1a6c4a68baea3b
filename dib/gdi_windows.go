//go:build windows

package dib

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procGetDesktopWindow = user32.NewProc("GetDesktopWindow")
	procGetDC            = user32.NewProc("GetDC")
	procReleaseDC        = user32.NewProc("ReleaseDC")
	procCreateDIBitmap   = gdi32.NewProc("CreateDIBitmap")
	procDeleteObject     = gdi32.NewProc("DeleteObject")
)

const (
	_CBM_INIT       = 4
	_DIB_RGB_COLORS = 0
)

// DefaultHost returns the host used when none is configured:
// GDI on Windows, MemoryHost elsewhere.
func DefaultHost() Host { return GDIHost{} }

// GDIHost realizes bitmaps as GDI device dependent bitmaps,
// compatible with the desktop window device context.
type GDIHost struct{}

type gdiDC struct {
	hwnd, hdc uintptr
}

func (GDIHost) AcquireDC() (DC, error) {
	hwnd, _, _ := procGetDesktopWindow.Call()
	hdc, _, err := procGetDC.Call(hwnd)
	if hdc == 0 {
		return nil, fmt.Errorf("%w: GetDC: %s", ErrNoDeviceContext, err)
	}
	return gdiDC{hwnd: hwnd, hdc: hdc}, nil
}

func (dc gdiDC) Release() error {
	if r, _, err := procReleaseDC.Call(dc.hwnd, dc.hdc); r == 0 {
		return fmt.Errorf("ReleaseDC: %s", err)
	}
	return nil
}

func (dc gdiDC) CreateBitmap(hdr *BitmapV4Header, bits []byte) (Bitmap, error) {
	if err := hdr.check(bits); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCreateBitmap, err)
	}
	// the V4 header starts with a BITMAPINFOHEADER, and with bit fields
	// masks no color table follows: it is also a valid BITMAPINFO
	h, _, err := procCreateDIBitmap.Call(
		dc.hdc,
		uintptr(unsafe.Pointer(hdr)),
		_CBM_INIT,
		uintptr(unsafe.Pointer(&bits[0])),
		uintptr(unsafe.Pointer(hdr)),
		_DIB_RGB_COLORS,
	)
	if h == 0 {
		return nil, fmt.Errorf("%w: CreateDIBitmap: %s", ErrCreateBitmap, err)
	}
	w, height, _ := hdr.Dims()
	return &HBitmap{handle: windows.Handle(h), w: w, h: height}, nil
}

// HBitmap is a GDI bitmap handle, released by Close.
type HBitmap struct {
	handle windows.Handle
	w, h   int
}

// Handle returns the HBITMAP, for use in paint routines.
func (b *HBitmap) Handle() windows.Handle { return b.handle }

func (b *HBitmap) Width() int  { return b.w }
func (b *HBitmap) Height() int { return b.h }

func (b *HBitmap) Close() error {
	if b.handle == 0 {
		return nil
	}
	r, _, err := procDeleteObject.Call(uintptr(b.handle))
	b.handle = 0
	if r == 0 {
		return fmt.Errorf("DeleteObject: %s", err)
	}
	return nil
}
