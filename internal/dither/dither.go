package dither

import (
	"fmt"

	"github.com/ironsheep/ditherum/internal/colorspace"
	"github.com/ironsheep/ditherum/internal/imaging"
	"github.com/ironsheep/ditherum/internal/palette"
)

// ErrInvalidParameter is returned for a missing palette or an unknown
// algorithm.
var ErrInvalidParameter = palette.ErrInvalidParameter

// Dither returns a new grid in which every pixel is an entry of p. The
// source grid is not modified.
//
// Pixels are visited in raster order, left to right and top to bottom.
// Error diffused past the image edges is dropped.
func Dither(src *imaging.Grid, p *palette.Palette, alg Algorithm) (*imaging.Grid, error) {
	if p == nil || p.Len() == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidParameter)
	}
	taps, ok := alg.kernel()
	if !ok {
		return nil, fmt.Errorf("%w: unknown dithering algorithm %d", ErrInvalidParameter, int(alg))
	}

	if alg == FloydSteinbergLab {
		return ditherLab(src, p, taps), nil
	}
	match := p.Nearest
	if alg == ThresholdRGB {
		match = p.NearestRGB
	}
	return ditherRGB(src, taps, match), nil
}

// ditherRGB carries error in sRGB. The effective color is clamped to
// [0,255] and rounded for matching; the residual is taken against the
// clamped, unrounded value.
func ditherRGB(src *imaging.Grid, taps []tap, match func(colorspace.RGB) (int, colorspace.RGB)) *imaging.Grid {
	out := imaging.NewGrid(src.Width, src.Height)
	buf := newErrorBuffer(src.Width)
	memo := make(map[colorspace.RGB]colorspace.RGB)

	for y := 0; y < src.Height; y++ {
		lastRow := y == src.Height-1
		for x := 0; x < src.Width; x++ {
			c := src.At(x, y)
			acc := buf.at(x)
			effective := [3]float64{
				clamp(float64(c.R) + acc[0]),
				clamp(float64(c.G) + acc[1]),
				clamp(float64(c.B) + acc[2]),
			}

			query := colorspace.RGB{
				R: colorspace.ClampChannel(effective[0]),
				G: colorspace.ClampChannel(effective[1]),
				B: colorspace.ClampChannel(effective[2]),
			}
			chosen, ok := memo[query]
			if !ok {
				_, chosen = match(query)
				memo[query] = chosen
			}
			out.Set(x, y, chosen)

			if len(taps) > 0 {
				residual := [3]float64{
					effective[0] - float64(chosen.R),
					effective[1] - float64(chosen.G),
					effective[2] - float64(chosen.B),
				}
				buf.spread(x, lastRow, residual, taps)
			}
		}
		buf.advance()
	}
	return out
}

// labMatch is a memoized lookup: the gamut-clamped query in Lab and the
// chosen entry.
type labMatch struct {
	lab   colorspace.Lab
	index int
}

// ditherLab carries error in Lab. The effective color is clamped to the
// sRGB gamut through a round trip to bytes; the residual is taken between
// the clamped color and the chosen entry, both in Lab.
func ditherLab(src *imaging.Grid, p *palette.Palette, taps []tap) *imaging.Grid {
	out := imaging.NewGrid(src.Width, src.Height)
	buf := newErrorBuffer(src.Width)
	memo := make(map[colorspace.RGB]labMatch)

	for y := 0; y < src.Height; y++ {
		lastRow := y == src.Height-1
		for x := 0; x < src.Width; x++ {
			acc := buf.at(x)
			effective := colorspace.ToLab(src.At(x, y)).Add(colorspace.Lab{L: acc[0], A: acc[1], B: acc[2]})

			query := colorspace.ToRGB(effective)
			m, ok := memo[query]
			if !ok {
				m.lab = colorspace.ToLab(query)
				m.index = p.NearestLab(m.lab)
				memo[query] = m
			}
			out.Set(x, y, p.At(m.index))

			residual := m.lab.Add(p.Lab(m.index).Scale(-1))
			buf.spread(x, lastRow, [3]float64{residual.L, residual.A, residual.B}, taps)
		}
		buf.advance()
	}
	return out
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return v
	}
}
