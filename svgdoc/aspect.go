package svgdoc

import (
	"fmt"
	"strings"
)

// Align is the alignment of the viewBox along one axis.
type Align uint8

const (
	AlignMid Align = iota // default
	AlignMin
	AlignMax
)

// AspectRatio is the value of the preserveAspectRatio attribute.
// The zero value is "xMidYMid meet".
type AspectRatio struct {
	// None stretches the viewBox non uniformly.
	None bool
	X, Y Align
	// Slice covers the box instead of fitting in it.
	Slice bool
}

var alignNames = map[string]Align{"Min": AlignMin, "Mid": AlignMid, "Max": AlignMax}

// ParseAspectRatio parses a preserveAspectRatio attribute.
// An empty string gives the default value.
func ParseAspectRatio(v string) (AspectRatio, error) {
	var out AspectRatio
	fields := strings.Fields(v)
	if len(fields) > 0 && fields[0] == "defer" {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return out, nil
	}
	if len(fields) > 2 {
		return out, fmt.Errorf("%w: preserveAspectRatio %q", ErrParse, v)
	}
	align := fields[0]
	switch {
	case align == "none":
		out.None = true
	case len(align) == 8 && align[0] == 'x' && align[4] == 'Y':
		x, okX := alignNames[align[1:4]]
		y, okY := alignNames[align[5:8]]
		if !okX || !okY {
			return out, fmt.Errorf("%w: preserveAspectRatio %q", ErrParse, v)
		}
		out.X, out.Y = x, y
	default:
		return out, fmt.Errorf("%w: preserveAspectRatio %q", ErrParse, v)
	}
	if len(fields) == 2 {
		switch fields[1] {
		case "meet":
		case "slice":
			out.Slice = true
		default:
			return out, fmt.Errorf("%w: preserveAspectRatio %q", ErrParse, v)
		}
	}
	return out, nil
}

func (a Align) offset(free float64) float64 {
	switch a {
	case AlignMin:
		return 0
	case AlignMax:
		return free
	default:
		return free / 2
	}
}

// Place returns the rectangle viewBox is mapped to inside box.
func (ar AspectRatio) Place(viewBox, box Box) Box {
	if ar.None || viewBox.W <= 0 || viewBox.H <= 0 {
		return box
	}
	sx, sy := box.W/viewBox.W, box.H/viewBox.H
	k := sx
	if (sy < k) != ar.Slice {
		k = sy
	}
	w, h := viewBox.W*k, viewBox.H*k
	return Box{
		X: box.X + ar.X.offset(box.W-w),
		Y: box.Y + ar.Y.offset(box.H-h),
		W: w,
		H: h,
	}
}

func (ar AspectRatio) String() string {
	if ar.None {
		return "none"
	}
	names := [...]string{AlignMin: "Min", AlignMid: "Mid", AlignMax: "Max"}
	s := "x" + names[ar.X] + "Y" + names[ar.Y]
	if ar.Slice {
		return s + " slice"
	}
	return s + " meet"
}
