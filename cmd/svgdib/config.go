package main

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/colornames"

	"github.com/benoitkugler/svgdib"
	"github.com/benoitkugler/svgdib/pixconv"
)

const defaultConfigFile = "svgdib.toml"

// Config holds the defaults of the command line flags.
type Config struct {
	Size       string  `toml:"size"`
	Format     string  `toml:"format"`
	Out        string  `toml:"out"`
	Order      string  `toml:"order"`
	DPI        float64 `toml:"dpi"`
	Units      string  `toml:"units"`
	Background string  `toml:"background"`
	Strict     bool    `toml:"strict"`
}

func defaultConfig() Config {
	return Config{
		Size:   "64x64",
		Format: "bmp",
		Out:    ".",
		Order:  pixconv.Swapped.String(),
		DPI:    96,
		Units:  "px",
	}
}

// LoadConfig decodes the TOML file at path over the defaults.
// A missing file is an error only if required is true.
func LoadConfig(path string, required bool) (Config, error) {
	out := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !required {
		return out, nil
	}
	if _, err := toml.DecodeFile(path, &out); err != nil {
		return out, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return out, nil
}

// parseSize accepts "WxH" or a single number for square boxes.
func parseSize(raw string) (w, h int, err error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	ws, hs, found := strings.Cut(raw, "x")
	if !found {
		hs = ws
	}
	w, errW := strconv.Atoi(strings.TrimSpace(ws))
	h, errH := strconv.Atoi(strings.TrimSpace(hs))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q (expected WxH)", raw)
	}
	return w, h, nil
}

// parseBackground resolves an SVG color keyword, or "#rrggbb".
// An empty value, "none" and "transparent" mean no background.
func parseBackground(name string) (color.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "none", "transparent":
		return nil, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
		}
	}
	return nil, fmt.Errorf("unknown background color %q", name)
}

// options translates the configuration into loading options.
func (c Config) options() ([]svgdib.Option, error) {
	order, err := pixconv.ParseChannelOrder(c.Order)
	if err != nil {
		return nil, err
	}
	bg, err := parseBackground(c.Background)
	if err != nil {
		return nil, err
	}
	opts := []svgdib.Option{
		svgdib.WithChannelOrder(order),
		svgdib.WithUnits(c.Units),
		svgdib.WithDPI(c.DPI),
		svgdib.WithStrict(c.Strict),
	}
	if bg != nil {
		opts = append(opts, svgdib.WithBackground(bg))
	}
	return opts, nil
}
