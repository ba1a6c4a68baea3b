// Command svgdib renders SVG documents as premultiplied bitmaps,
// the way applications load their icons with the svgdib package.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgdib"
)

// flags shared by the sub commands, layered over the config file.
type settings struct {
	configPath string
	verbose    bool
	cfg        Config
}

func bindConfigFlags(cmd *cobra.Command, cfg *Config) {
	def := defaultConfig()
	cmd.Flags().StringVarP(&cfg.Size, "size", "s", def.Size, "Target box, as WxH")
	cmd.Flags().StringVar(&cfg.Order, "order", def.Order, "Red/blue placement of packed pixels: swapped or straight")
	cmd.Flags().Float64Var(&cfg.DPI, "dpi", def.DPI, "Resolution used for physical units")
	cmd.Flags().StringVar(&cfg.Units, "units", def.Units, "Unit of the document size: px, pt, pc, mm, cm, in")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "Fail on SVG elements the parser does not support")
}

// applyConfig loads the config file and keeps the flags explicitly set.
func (s *settings) applyConfig(cmd *cobra.Command) error {
	required := cmd.Flags().Changed("config")
	fileCfg, err := LoadConfig(s.configPath, required)
	if err != nil {
		return err
	}
	merged := fileCfg
	set := func(name string, apply func()) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	set("size", func() { merged.Size = s.cfg.Size })
	set("format", func() { merged.Format = s.cfg.Format })
	set("out", func() { merged.Out = s.cfg.Out })
	set("order", func() { merged.Order = s.cfg.Order })
	set("dpi", func() { merged.DPI = s.cfg.DPI })
	set("units", func() { merged.Units = s.cfg.Units })
	set("background", func() { merged.Background = s.cfg.Background })
	set("strict", func() { merged.Strict = s.cfg.Strict })
	s.cfg = merged
	return nil
}

func newRootCommand() *cobra.Command {
	s := &settings{}
	cmd := &cobra.Command{
		Use:           "svgdib",
		Short:         "svgdib - render SVG documents as device independent bitmaps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if s.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			svgdib.SetLogger(logger)
			return s.applyConfig(c)
		},
	}
	cmd.PersistentFlags().StringVarP(&s.configPath, "config", "c", defaultConfigFile, "TOML file with flag defaults")
	cmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newConvertCommand(s), newInfoCommand(s))
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "svgdib:", err)
		os.Exit(1)
	}
}
