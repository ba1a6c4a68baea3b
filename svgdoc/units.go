package svgdoc

import (
	"fmt"
	"strconv"
	"strings"
)

// unitSize returns the size of one unit, in pixels.
func unitSize(unit string, opts Options) (float64, error) {
	switch unit {
	case "", "px":
		return 1, nil
	case "pt":
		return opts.DPI / 72, nil
	case "pc":
		return opts.DPI / 6, nil
	case "mm":
		return opts.DPI / 25.4, nil
	case "cm":
		return opts.DPI / 2.54, nil
	case "in":
		return opts.DPI, nil
	case "em":
		return opts.FontSize, nil
	case "ex":
		return opts.FontSize * 0.52, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnits, unit)
}

// splitLength separates the number from its unit suffix.
func splitLength(s string) (number, unit string) {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c == '%' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			i--
			continue
		}
		break
	}
	return strings.TrimSpace(s[:i]), strings.ToLower(s[i:])
}

// resolveLength converts an attribute length to pixels.
// Percentages are relative to ref; an empty attribute resolves to ref.
func resolveLength(s string, ref float64, opts Options) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return ref, nil
	}
	number, unit := splitLength(s)
	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: length %q", ErrParse, s)
	}
	if unit == "%" {
		return v / 100 * ref, nil
	}
	size, err := unitSize(unit, opts)
	if err != nil {
		return 0, fmt.Errorf("%w: length %q", ErrParse, s)
	}
	return v * size, nil
}
