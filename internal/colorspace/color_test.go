package colorspace

import (
	"math"
	"testing"
)

func TestToLab_KnownColors(t *testing.T) {
	tests := []struct {
		name  string
		color RGB
		wantL float64
		wantA float64
		wantB float64
	}{
		{"black", RGB{0, 0, 0}, 0, 0, 0},
		{"white", RGB{255, 255, 255}, 100, 0, 0},
		{"red", RGB{255, 0, 0}, 53.24, 80.09, 67.20},
		{"blue", RGB{0, 0, 255}, 32.30, 79.19, -107.86},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lab := ToLab(tt.color)
			// go-colorful uses slightly different matrix constants than
			// some references; a unit of tolerance covers both.
			if math.Abs(lab.L-tt.wantL) > 1 {
				t.Errorf("L: got %.2f, want %.2f", lab.L, tt.wantL)
			}
			if math.Abs(lab.A-tt.wantA) > 1 {
				t.Errorf("a: got %.2f, want %.2f", lab.A, tt.wantA)
			}
			if math.Abs(lab.B-tt.wantB) > 1 {
				t.Errorf("b: got %.2f, want %.2f", lab.B, tt.wantB)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 17 {
				c := RGB{uint8(r), uint8(g), uint8(b)}
				back := ToRGB(ToLab(c))
				if absDiff(c.R, back.R) > 1 || absDiff(c.G, back.G) > 1 || absDiff(c.B, back.B) > 1 {
					t.Fatalf("round trip %v -> %v", c, back)
				}
			}
		}
	}
}

func TestToRGB_ClampsOutOfGamut(t *testing.T) {
	tests := []struct {
		name string
		lab  Lab
	}{
		{"too bright", Lab{L: 150, A: 0, B: 0}},
		{"too dark", Lab{L: -20, A: 0, B: 0}},
		{"extreme chroma", Lab{L: 50, A: 300, B: -300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must not panic and must produce a valid triple.
			_ = ToRGB(tt.lab)
		})
	}

	if got := ToRGB(Lab{L: 150}); got != (RGB{255, 255, 255}) {
		t.Errorf("L=150: got %v, want white", got)
	}
	if got := ToRGB(Lab{L: -20}); got != (RGB{0, 0, 0}) {
		t.Errorf("L=-20: got %v, want black", got)
	}
}

func TestDistance(t *testing.T) {
	a := Lab{L: 10, A: 2, B: -3}
	if d := Distance(a, a); d != 0 {
		t.Errorf("Distance(a, a): got %f, want 0", d)
	}

	b := Lab{L: 13, A: 6, B: -3}
	if d := Distance(a, b); d != 25 {
		t.Errorf("Distance: got %f, want 25", d)
	}
	if Distance(a, b) != Distance(b, a) {
		t.Error("Distance is not symmetric")
	}
}

func TestClampChannel(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-10, 0},
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{127.6, 128},
		{255, 255},
		{300, 255},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := ClampChannel(tt.in); got != tt.want {
			t.Errorf("ClampChannel(%v): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRGB_Hex(t *testing.T) {
	if got := (RGB{255, 128, 64}).Hex(); got != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", got)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
