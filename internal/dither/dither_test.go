package dither

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ironsheep/ditherum/internal/colorspace"
	"github.com/ironsheep/ditherum/internal/imaging"
	"github.com/ironsheep/ditherum/internal/palette"
)

func uniformGrid(w, h int, c colorspace.RGB) *imaging.Grid {
	g := imaging.NewGrid(w, h)
	for i := range g.Pix {
		g.Pix[i] = c
	}
	return g
}

func randomGrid(seed int64, w, h int) *imaging.Grid {
	r := rand.New(rand.NewSource(seed))
	g := imaging.NewGrid(w, h)
	for i := range g.Pix {
		g.Pix[i] = colorspace.RGB{R: uint8(r.Intn(256)), G: uint8(r.Intn(256)), B: uint8(r.Intn(256))}
	}
	return g
}

func TestDither_UniformIdentity(t *testing.T) {
	c := colorspace.RGB{R: 12, G: 200, B: 99}
	p, err := palette.New([]colorspace.RGB{{}, c, {R: 255, G: 255, B: 255}})
	if err != nil {
		t.Fatalf("palette.New failed: %v", err)
	}
	src := uniformGrid(16, 9, c)

	for _, alg := range Algorithms() {
		t.Run(alg.String(), func(t *testing.T) {
			out, err := Dither(src, p, alg)
			if err != nil {
				t.Fatalf("Dither failed: %v", err)
			}
			if !out.Equal(src) {
				t.Error("uniform image changed under a palette containing its color")
			}
		})
	}
}

func TestDither_GradientWindowMean(t *testing.T) {
	src := imaging.Gradient(128, 64, colorspace.RGB{}, colorspace.RGB{R: 255, G: 255, B: 255})
	p := palette.BlackAndWhite()

	for _, alg := range []Algorithm{FloydSteinberg, SierraLite, FloydSteinbergLab} {
		t.Run(alg.String(), func(t *testing.T) {
			out, err := Dither(src, p, alg)
			if err != nil {
				t.Fatalf("Dither failed: %v", err)
			}
			for y := 0; y < 64; y += 16 {
				for x := 0; x < 128; x += 16 {
					r := imaging.Region{X1: x, Y1: y, X2: x + 16, Y2: y + 16}
					want, _ := imaging.WindowMean(src, r)
					got, _ := imaging.WindowMean(out, r)
					if math.Abs(got[0]-want[0]) > 24 {
						t.Errorf("window (%d,%d): mean %.1f, want %.1f +/- 24", x, y, got[0], want[0])
					}
				}
			}
		})
	}
}

func TestDither_OutputUsesPaletteOnly(t *testing.T) {
	src := randomGrid(5, 40, 30)
	p := palette.Primary()
	allowed := make(map[colorspace.RGB]bool)
	for _, c := range p.Colors() {
		allowed[c] = true
	}

	for _, alg := range Algorithms() {
		out, err := Dither(src, p, alg)
		if err != nil {
			t.Fatalf("%v: Dither failed: %v", alg, err)
		}
		if out.Width != src.Width || out.Height != src.Height {
			t.Fatalf("%v: got %dx%d, want %dx%d", alg, out.Width, out.Height, src.Width, src.Height)
		}
		for i, c := range out.Pix {
			if !allowed[c] {
				t.Fatalf("%v: pixel %d is %v, not a palette entry", alg, i, c)
			}
		}
	}
}

func TestDither_Threshold(t *testing.T) {
	src := randomGrid(9, 20, 20)
	p := palette.Primary()

	out, err := Dither(src, p, Threshold)
	if err != nil {
		t.Fatalf("Dither failed: %v", err)
	}
	for i, c := range src.Pix {
		if _, want := p.Nearest(c); out.Pix[i] != want {
			t.Fatalf("pixel %d: got %v, want nearest %v", i, out.Pix[i], want)
		}
	}
}

func TestDither_SourceUntouchedAndDeterministic(t *testing.T) {
	src := randomGrid(13, 32, 32)
	before := src.Clone()
	p, _ := palette.Grayscale(4)

	a, err := Dither(src, p, FloydSteinberg)
	if err != nil {
		t.Fatalf("Dither failed: %v", err)
	}
	b, _ := Dither(src, p, FloydSteinberg)

	if !src.Equal(before) {
		t.Error("Dither modified its source")
	}
	if !a.Equal(b) {
		t.Error("two runs over the same input differ")
	}
}

func TestDither_InvalidParameters(t *testing.T) {
	src := uniformGrid(2, 2, colorspace.RGB{})

	if _, err := Dither(src, nil, FloydSteinberg); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("nil palette: got %v, want ErrInvalidParameter", err)
	}
	if _, err := Dither(src, palette.BlackAndWhite(), Algorithm(42)); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown algorithm: got %v, want ErrInvalidParameter", err)
	}
}

func TestDither_EmptyGrid(t *testing.T) {
	out, err := Dither(imaging.NewGrid(0, 0), palette.BlackAndWhite(), FloydSteinberg)
	if err != nil {
		t.Fatalf("Dither failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("got %d pixels, want 0", out.Len())
	}
}

func TestDither_SinglePixelClamped(t *testing.T) {
	// Only pure white is available; bright input must still map to it.
	p, _ := palette.New([]colorspace.RGB{{R: 255, G: 255, B: 255}})
	out, err := Dither(uniformGrid(3, 3, colorspace.RGB{R: 250, G: 10, B: 0}), p, FloydSteinberg)
	if err != nil {
		t.Fatalf("Dither failed: %v", err)
	}
	for _, c := range out.Pix {
		if c != (colorspace.RGB{R: 255, G: 255, B: 255}) {
			t.Fatalf("got %v, want white", c)
		}
	}
}

func TestDither_ThresholdRGB(t *testing.T) {
	src := randomGrid(17, 20, 20)
	p := palette.Primary()

	out, err := Dither(src, p, ThresholdRGB)
	if err != nil {
		t.Fatalf("Dither failed: %v", err)
	}
	for i, c := range src.Pix {
		if _, want := p.NearestRGB(c); out.Pix[i] != want {
			t.Fatalf("pixel %d: got %v, want nearest %v", i, out.Pix[i], want)
		}
	}
}

func TestDither_ThresholdDistance(t *testing.T) {
	// Mid gray 127 is nearer black in sRGB but nearer white in Lab.
	src := uniformGrid(2, 2, colorspace.RGB{R: 127, G: 127, B: 127})
	p := palette.BlackAndWhite()

	tests := []struct {
		alg  Algorithm
		want colorspace.RGB
	}{
		{Threshold, colorspace.RGB{R: 255, G: 255, B: 255}},
		{ThresholdRGB, colorspace.RGB{}},
	}
	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			out, err := Dither(src, p, tt.alg)
			if err != nil {
				t.Fatalf("Dither failed: %v", err)
			}
			for _, c := range out.Pix {
				if c != tt.want {
					t.Fatalf("got %v, want %v", c, tt.want)
				}
			}
		})
	}
}

func TestDither_FloydSteinbergExactOutput(t *testing.T) {
	// Worked by hand: gray 100 against {black, white}. The first pixel
	// pushes 43.75 right, lifting (1,0) to white; its -111.25 residual
	// keeps (2,0) and the row below dark except (1,1), which collects
	// 6.25 - 34.77 + 9.62 + 48.30 and crosses into white.
	src := uniformGrid(3, 2, colorspace.RGB{R: 100, G: 100, B: 100})
	p, err := palette.Grayscale(2)
	if err != nil {
		t.Fatalf("Grayscale failed: %v", err)
	}

	out, err := Dither(src, p, FloydSteinberg)
	if err != nil {
		t.Fatalf("Dither failed: %v", err)
	}

	want := [][]uint8{
		{0, 255, 0},
		{0, 255, 0},
	}
	for y, row := range want {
		for x, v := range row {
			if got := out.At(x, y); got != (colorspace.RGB{R: v, G: v, B: v}) {
				t.Errorf("pixel (%d,%d): got %v, want gray %d", x, y, got, v)
			}
		}
	}
}

// referenceFloydSteinberg dithers with a dense error matrix covering the
// whole image, applying the 7/3/5/1 taps literally.
func referenceFloydSteinberg(src *imaging.Grid, p *palette.Palette) *imaging.Grid {
	out := imaging.NewGrid(src.Width, src.Height)
	errs := make([][3]float64, src.Len())
	push := func(x, y int, e [3]float64, w float64) {
		if x < 0 || x >= src.Width || y >= src.Height {
			return
		}
		for ch := range e {
			errs[y*src.Width+x][ch] += e[ch] * w
		}
	}

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			c := src.At(x, y)
			acc := errs[y*src.Width+x]
			eff := [3]float64{
				clamp(float64(c.R) + acc[0]),
				clamp(float64(c.G) + acc[1]),
				clamp(float64(c.B) + acc[2]),
			}
			_, chosen := p.Nearest(colorspace.RGB{
				R: colorspace.ClampChannel(eff[0]),
				G: colorspace.ClampChannel(eff[1]),
				B: colorspace.ClampChannel(eff[2]),
			})
			out.Set(x, y, chosen)

			e := [3]float64{eff[0] - float64(chosen.R), eff[1] - float64(chosen.G), eff[2] - float64(chosen.B)}
			push(x+1, y, e, 7.0/16)
			push(x-1, y+1, e, 3.0/16)
			push(x, y+1, e, 5.0/16)
			push(x+1, y+1, e, 1.0/16)
		}
	}
	return out
}

func TestDither_FloydSteinbergMatchesDenseReference(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	var many []colorspace.RGB
	for i := 0; i < 40; i++ {
		many = append(many, colorspace.RGB{R: uint8(r.Intn(256)), G: uint8(r.Intn(256)), B: uint8(r.Intn(256))})
	}
	large, err := palette.New(many)
	if err != nil {
		t.Fatalf("palette.New failed: %v", err)
	}
	gray, _ := palette.Grayscale(3)

	tests := []struct {
		name string
		p    *palette.Palette
	}{
		{"primary", palette.Primary()},
		{"gray3", gray},
		{"random40", large},
	}
	src := randomGrid(21, 23, 17)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dither(src, tt.p, FloydSteinberg)
			if err != nil {
				t.Fatalf("Dither failed: %v", err)
			}
			want := referenceFloydSteinberg(src, tt.p)
			for i := range want.Pix {
				if got.Pix[i] != want.Pix[i] {
					t.Fatalf("pixel (%d,%d): got %v, want %v", i%src.Width, i/src.Width, got.Pix[i], want.Pix[i])
				}
			}
		})
	}
}

func TestDither_FloydSteinbergLabTracksLightness(t *testing.T) {
	// Diffusing in sRGB keeps the sRGB mean; diffusing in Lab keeps the
	// mean lightness, so gray 128 (L* ~53.6) comes out brighter.
	src := uniformGrid(128, 128, colorspace.RGB{R: 128, G: 128, B: 128})
	p := palette.BlackAndWhite()

	tests := []struct {
		alg       Algorithm
		wantWhite float64
	}{
		{FloydSteinberg, 128.0 / 255},
		{FloydSteinbergLab, colorspace.ToLab(colorspace.RGB{R: 128, G: 128, B: 128}).L / 100},
	}
	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			out, err := Dither(src, p, tt.alg)
			if err != nil {
				t.Fatalf("Dither failed: %v", err)
			}
			white := 0
			for _, c := range out.Pix {
				if c.R == 255 {
					white++
				}
			}
			frac := float64(white) / float64(out.Len())
			if math.Abs(frac-tt.wantWhite) > 0.015 {
				t.Errorf("white fraction %.3f, want %.3f +/- 0.015", frac, tt.wantWhite)
			}
		})
	}
}
