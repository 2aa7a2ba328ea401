package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/pixquant"
)

func TestParsePalette(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"default", "", len(defaultPalette), false},
		{"blank tokens only", " , ,", len(defaultPalette), false},
		{"two colors", "#000000,#ffffff", 2, false},
		{"skips empty entries", "#000000,,ffffff,", 2, false},
		{"short form", "#f00, #0f0", 2, false},
		{"invalid", "#000000,#zzzzzz", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePalette(tt.in)
			if tt.wantErr {
				if !errors.Is(err, pixquant.ErrInvalidOptions) {
					t.Errorf("parsePalette(%q) error = %v, want ErrInvalidOptions", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePalette(%q) = %v", tt.in, err)
			}
			if len(got) != tt.want {
				t.Errorf("parsePalette(%q) has %d colors, want %d", tt.in, len(got), tt.want)
			}
		})
	}
}

func TestBuildOptions(t *testing.T) {
	cfg := &config{
		scale:     0.5,
		contrast:  20,
		palette:   "#000000,#ffffff",
		method:    "lab",
		dither:    true,
		threshold: 100,
		backend:   "cpu",
	}
	opts, err := buildOptions(cfg)
	if err != nil {
		t.Fatalf("buildOptions() = %v", err)
	}
	if opts.Scale != 0.5 || opts.Adjustments.Contrast != 20 || opts.Method != pixquant.MethodLab ||
		!opts.Dither.Enabled || opts.Dither.Threshold != 100 || opts.Backend != pixquant.BackendCPU {
		t.Errorf("buildOptions() = %+v", opts)
	}

	for _, bad := range []*config{
		{scale: 2, method: "rgb", backend: "auto"},
		{scale: 1, method: "cie2000", backend: "auto"},
		{scale: 1, method: "rgb", backend: "tpu"},
	} {
		if _, err := buildOptions(bad); !errors.Is(err, pixquant.ErrInvalidOptions) {
			t.Errorf("buildOptions(%+v) error = %v, want ErrInvalidOptions", bad, err)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "photo.jpg", "photo.pixquant.png"},
		{"", "dir/a.b.png", "dir/a.b.pixquant.png"},
		{"", "-", "-"},
		{"out.png", "photo.jpg", "out.png"},
	}
	for _, tt := range tests {
		if got := outputPath(&config{output: tt.output}, tt.input); got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 30), B: 90, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRunWritesQuantizedPNG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, 8, 6)

	cmd := newRootCmd()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--scale", "0.5", "--palette", "#000000,#ffffff", "--backend", "cpu", "-o", out, in})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("output size = %dx%d, want 4x3", b.Dx(), b.Dy())
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if (r != 0 && r != 0xffff) || g != r || bl != r {
				t.Fatalf("pixel (%d,%d) = %d,%d,%d, want black or white", x, y, r, g, bl)
			}
		}
	}
	if !strings.Contains(stderr.String(), "software backend") {
		t.Errorf("summary = %q", stderr.String())
	}
}

func TestRunStdinToStdout(t *testing.T) {
	var in bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 250, G: 250, B: 250, A: 255})
	if err := png.Encode(&in, img); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetIn(&in)
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--palette", "#000000,#ffffff", "--backend", "cpu", "-"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	got, err := png.Decode(&stdout)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := got.At(0, 0).RGBA(); r != 0 {
		t.Errorf("pixel 0 red = %d, want 0", r)
	}
	if r, _, _, _ := got.At(1, 0).RGBA(); r != 0xffff {
		t.Errorf("pixel 1 red = %d, want 0xffff", r)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--backend", "cpu", filepath.Join(t.TempDir(), "missing.png")})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Execute() with a missing input succeeded")
	}
}
