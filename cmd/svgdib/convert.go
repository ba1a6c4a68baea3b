package main

import (
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgdib"
	"github.com/benoitkugler/svgdib/dib"
	"github.com/benoitkugler/svgdib/svgsource"
)

func newConvertCommand(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Render SVG files as .bmp or .png bitmaps",
		Long: `Render every SVG file fitted into the target box, preserving its aspect ratio.

The output keeps the premultiplied 32 bits pixels handed to the host graphics
subsystem. BMP files use a BITMAPV4HEADER with bit field masks.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.cfg
			cx, cy, err := parseSize(cfg.Size)
			if err != nil {
				return err
			}
			opts, err := cfg.options()
			if err != nil {
				return err
			}
			format := strings.ToLower(cfg.Format)
			if format != "bmp" && format != "png" {
				return fmt.Errorf("unsupported format %q (expected bmp or png)", cfg.Format)
			}
			if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
				return fmt.Errorf("failed to create output dir: %w", err)
			}

			bar := progressbar.NewOptions(
				len(args),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetWidth(30),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("svg"),
				progressbar.OptionThrottle(80*time.Millisecond),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)

			var errs []error
			for _, path := range args {
				out := outputPath(cfg.Out, path, format)
				if err := convertFile(path, out, format, cx, cy, opts); err != nil {
					slog.Error("conversion failed", "file", path, "error", err)
					errs = append(errs, fmt.Errorf("%s: %w", path, err))
				} else {
					slog.Debug("converted", "file", path, "output", out)
				}
				_ = bar.Add(1)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d of %d files failed: %w", len(errs), len(args), errors.Join(errs...))
			}
			return nil
		},
	}
	bindConfigFlags(cmd, &s.cfg)
	def := defaultConfig()
	cmd.Flags().StringVarP(&s.cfg.Format, "format", "f", def.Format, "Output format: bmp or png")
	cmd.Flags().StringVarP(&s.cfg.Out, "out", "o", def.Out, "Output directory")
	cmd.Flags().StringVar(&s.cfg.Background, "background", "", "Color painted under the document (SVG color keyword or #rrggbb)")
	return cmd
}

// outputPath replaces the extension of the input base name.
func outputPath(dir, input, format string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"."+format)
}

func convertFile(input, output, format string, cx, cy int, opts []svgdib.Option) error {
	raster, err := svgdib.Render(svgsource.File(input), cx, cy, opts...)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "png":
		bm, err := raster.Realize(dib.MemoryHost{})
		if err != nil {
			return err
		}
		defer bm.Close()
		err = png.Encode(f, bm.(*dib.Image))
		if err != nil {
			return err
		}
	default:
		if err := dib.Encode(f, &raster.Header, raster.Bits); err != nil {
			return err
		}
	}
	return f.Close()
}
