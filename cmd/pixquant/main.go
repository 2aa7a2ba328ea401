// Command pixquant converts an image to a reduced-palette approximation.
//
// Usage:
//
//	pixquant [flags] <input>   PNG/JPEG/GIF/WebP -> quantized PNG (use "-" for stdin)
//
// Examples:
//
//	pixquant --scale 0.25 --dither photo.jpg
//	pixquant --palette "#000000,#ffffff,#ed1c24" --method lab -o out.png photo.png
package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/pixquant"
	_ "github.com/gogpu/pixquant/gpu"
)

// defaultPalette is the 16-color canvas palette used when --palette is empty.
var defaultPalette = []string{
	"#ffffff", "#e4e4e4", "#888888", "#222222",
	"#ffa7d1", "#e50000", "#e59500", "#a06a42",
	"#e5d900", "#94e044", "#02be01", "#00d3dd",
	"#0083c7", "#0000ea", "#cf6ee4", "#820080",
}

// config holds the parsed command-line flags.
type config struct {
	output  string
	timeout time.Duration
	verbose bool

	scale      float64
	brightness float64
	contrast   float64
	saturation float64
	sharpness  float64

	palette   string
	method    string
	dither    bool
	threshold float64
	amplitude float64
	backend   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config
	cmd := &cobra.Command{
		Use:   "pixquant [flags] <input>",
		Short: "Convert an image to a reduced palette",
		Long: `pixquant resizes an image with nearest-neighbor sampling, applies
brightness, contrast, saturation and sharpening, then maps every pixel to the
nearest palette color, optionally with 4x4 ordered dithering.

Use "-" as input to read from stdin, "-o -" to write to stdout.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &cfg, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.output, "output", "o", "", `output PNG path (default: <input>.pixquant.png, "-" for stdout)`)
	f.DurationVar(&cfg.timeout, "timeout", 0, "abort processing after this long (0 = no limit)")
	f.BoolVarP(&cfg.verbose, "verbose", "v", false, "log backend selection and fallbacks to stderr")

	f.Float64VarP(&cfg.scale, "scale", "s", 1, "resize factor in (0,1]")
	f.Float64Var(&cfg.brightness, "brightness", 0, "brightness -100..100")
	f.Float64Var(&cfg.contrast, "contrast", 0, "contrast -100..100")
	f.Float64Var(&cfg.saturation, "saturation", 0, "saturation -100..100")
	f.Float64Var(&cfg.sharpness, "sharpness", 0, "sharpness 0..100")

	f.StringVarP(&cfg.palette, "palette", "p", "", "comma-separated hex colors (default: 16-color canvas palette)")
	f.StringVarP(&cfg.method, "method", "m", "rgb", "color distance: rgb, weighted or lab")
	f.BoolVarP(&cfg.dither, "dither", "d", false, "enable 4x4 ordered dithering")
	f.Float64Var(&cfg.threshold, "threshold", 0, "dither snap threshold 0..1500 (squared distance)")
	f.Float64Var(&cfg.amplitude, "amplitude", 0, fmt.Sprintf("dither amplitude 0..255 (0 = %d)", pixquant.DefaultDitherAmplitude))
	f.StringVarP(&cfg.backend, "backend", "b", "auto", "execution backend: auto, gpu or cpu")

	return cmd
}

// parsePalette parses a comma-separated list of hex colors. Empty entries
// are ignored; an empty list selects defaultPalette.
func parsePalette(s string) (pixquant.Palette, error) {
	tokens := lo.Filter(strings.Split(s, ","), func(tok string, _ int) bool {
		return strings.TrimSpace(tok) != ""
	})
	if len(tokens) == 0 {
		tokens = defaultPalette
	}
	colors := make([]pixquant.RGB, 0, len(tokens))
	for _, tok := range tokens {
		c, err := pixquant.ParseHexColor(tok)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return pixquant.PaletteFromColors(colors...), nil
}

// buildOptions converts flags to processing options.
func buildOptions(cfg *config) (pixquant.Options, error) {
	palette, err := parsePalette(cfg.palette)
	if err != nil {
		return pixquant.Options{}, err
	}
	method, err := pixquant.ParseMethod(cfg.method)
	if err != nil {
		return pixquant.Options{}, err
	}
	backend, err := pixquant.ParseBackend(cfg.backend)
	if err != nil {
		return pixquant.Options{}, err
	}
	opts := pixquant.Options{
		Scale: cfg.scale,
		Adjustments: pixquant.Adjustments{
			Brightness: cfg.brightness,
			Contrast:   cfg.contrast,
			Saturation: cfg.saturation,
			Sharpness:  cfg.sharpness,
		},
		Palette: palette,
		Dither: pixquant.DitherConfig{
			Enabled:   cfg.dither,
			Threshold: cfg.threshold,
			Amplitude: cfg.amplitude,
		},
		Method:  method,
		Backend: backend,
	}
	return opts, opts.Validate()
}

// outputPath returns the destination for input when -o is not given.
func outputPath(cfg *config, input string) string {
	if cfg.output != "" {
		return cfg.output
	}
	if input == "-" {
		return "-"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pixquant.png"
}

func run(cmd *cobra.Command, cfg *config, input string) error {
	if cfg.verbose {
		pixquant.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}
	src, err := decode(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := pixquant.Process(ctx, src, opts)
	if err != nil {
		return err
	}

	out := outputPath(cfg, input)
	if err := encode(cmd.OutOrStdout(), out, res.Image); err != nil {
		return err
	}
	if out != "-" {
		cmd.PrintErrf("%s: %dx%d, %d colors, %s backend, %v\n",
			out, res.Width, res.Height, len(opts.Palette), res.Backend, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// decode reads any registered image format from path, or from stdin when
// path is "-".
func decode(stdin io.Reader, path string) (*pixquant.RasterImage, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	pixquant.Logger().Debug("pixquant: decoded input", "format", format)
	return pixquant.RasterImageFromImage(img), nil
}

// encode writes img as PNG to path, or to stdout when path is "-".
func encode(stdout io.Writer, path string, img *pixquant.RasterImage) error {
	if path == "-" {
		return png.Encode(stdout, img.NRGBA())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img.NRGBA()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
