package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgdib/svgdoc"
	"github.com/benoitkugler/svgdib/svgraster"
	"github.com/benoitkugler/svgdib/svgsource"
)

func newInfoCommand(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [files...]",
		Short: "Print the size of SVG files and of their raster for --size",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cx, cy, err := parseSize(s.cfg.Size)
			if err != nil {
				return err
			}
			opts := svgdoc.Options{Units: s.cfg.Units, DPI: s.cfg.DPI, Strict: s.cfg.Strict}
			for _, path := range args {
				if err := printInfo(cmd.OutOrStdout(), path, opts, cx, cy); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}
	bindConfigFlags(cmd, &s.cfg)
	return cmd
}

func printInfo(w io.Writer, path string, opts svgdoc.Options, cx, cy int) error {
	data, err := svgsource.File(path).Load()
	if err != nil {
		return err
	}
	doc, err := svgdoc.Parse(data, opts)
	if err != nil {
		return err
	}
	scale, rw, rh := svgraster.Fit(doc.Width, doc.Height, cx, cy)
	vb := doc.ViewBox
	_, err = fmt.Fprintf(w, "%s: %gx%g %s, viewBox %g %g %g %g, %s, raster %dx%d (scale %g)\n",
		path, doc.Width, doc.Height, doc.Units, vb.X, vb.Y, vb.W, vb.H, doc.Aspect, rw, rh, scale)
	return err
}
