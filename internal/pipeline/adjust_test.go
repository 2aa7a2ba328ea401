package pipeline

import (
	"math"
	"testing"
)

func TestNewAdjusterFactors(t *testing.T) {
	tests := []struct {
		name       string
		brightness float64
		contrast   float64
		saturation float64
		wantDelta  float64
		wantFactor float64
		wantSat    float64
	}{
		{"identity", 0, 0, 0, 0, 1, 1},
		{"max brightness", 100, 0, 0, 255, 1, 1},
		{"min brightness", -100, 0, 0, -255, 1, 1},
		{"max contrast", 0, 100, 0, 0, 259.0 * 355 / (255 * 159), 1},
		{"min contrast", 0, -100, 0, 0, 259.0 * 155 / (255 * 359), 1},
		{"desaturate", 0, 0, -100, 0, 1, 0},
		{"oversaturate", 0, 0, 100, 0, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdjuster(tt.brightness, tt.contrast, tt.saturation)
			if math.Abs(a.BrightnessDelta-tt.wantDelta) > 1e-9 {
				t.Errorf("BrightnessDelta = %v, want %v", a.BrightnessDelta, tt.wantDelta)
			}
			if math.Abs(a.ContrastFactor-tt.wantFactor) > 1e-9 {
				t.Errorf("ContrastFactor = %v, want %v", a.ContrastFactor, tt.wantFactor)
			}
			if math.Abs(a.SaturationFactor-tt.wantSat) > 1e-9 {
				t.Errorf("SaturationFactor = %v, want %v", a.SaturationFactor, tt.wantSat)
			}
		})
	}
}

func TestAdjusterIdentity(t *testing.T) {
	if !NewAdjuster(0, 0, 0).IsIdentity() {
		t.Error("zero sliders should be identity")
	}
	if NewAdjuster(0, 1, 0).IsIdentity() {
		t.Error("contrast 1 should not be identity")
	}

	a := NewAdjuster(0, 0, 0)
	for _, c := range []float64{0, 17, 128, 200, 255} {
		r, g, b := a.Apply(c, 255-c, c/2)
		if math.Abs(r-c) > 1e-9 || math.Abs(g-(255-c)) > 1e-9 || math.Abs(b-c/2) > 1e-9 {
			t.Errorf("identity Apply(%v) = (%v,%v,%v)", c, r, g, b)
		}
	}
}

func TestAdjusterDesaturateProducesGray(t *testing.T) {
	a := NewAdjuster(0, 0, -100)
	r, g, b := a.Apply(200, 40, 90)
	want := 0.299*200 + 0.587*40 + 0.114*90
	for _, c := range []float64{r, g, b} {
		if math.Abs(c-want) > 1e-9 {
			t.Errorf("channel = %v, want BT.601 luma %v", c, want)
		}
	}
}

func TestAdjusterNoIntermediateClamp(t *testing.T) {
	// Brightness pushes red far above 255; saturation -100 then pulls
	// every channel to luma computed from the unclamped values.
	a := NewAdjuster(100, 0, -100)
	r, _, _ := a.Apply(250, 0, 0)
	want := 0.299*505 + 0.587*255 + 0.114*255
	if math.Abs(r-want) > 1e-9 {
		t.Errorf("r = %v, want %v (unclamped luma)", r, want)
	}
}

func TestAdjustRowsPreservesAlpha(t *testing.T) {
	pix := []uint8{10, 20, 30, 0, 200, 100, 50, 77, 255, 255, 255, 255}
	AdjustRows(pix, 3, NewAdjuster(50, 50, 50), 0, 1)
	if pix[3] != 0 || pix[7] != 77 || pix[11] != 255 {
		t.Errorf("alpha changed: %v", []uint8{pix[3], pix[7], pix[11]})
	}
	if pix[8] != 255 {
		t.Errorf("white brightened should clamp to 255, got %d", pix[8])
	}
}

func TestMaterialize(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-10, 0},
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{127.5, 128},
		{254.4, 254},
		{254.5, 255},
		{300, 255},
	}
	for _, tt := range tests {
		if got := Materialize(tt.in); got != tt.want {
			t.Errorf("Materialize(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
