package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/ironsheep/ditherum/internal/colorspace"
)

// ParseHexColor parses a color string like "#FF0000" or "FF0000".
func ParseHexColor(hex string) (colorspace.RGB, error) {
	if len(hex) == 0 {
		return colorspace.RGB{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return colorspace.RGB{}, fmt.Errorf("invalid hex color length")
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return colorspace.RGB{}, err
	}
	return colorspace.RGB{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val)}, nil
}

// Gradient builds a horizontal linear gradient from one color to another.
//
// Column x gets the mix factor x/(width-1); every row is identical. A
// single-column gradient is filled with from.
func Gradient(width, height int, from, to colorspace.RGB) *Grid {
	g := NewGrid(width, height)
	for x := 0; x < g.Width; x++ {
		f := 0.0
		if g.Width > 1 {
			f = float64(x) / float64(g.Width-1)
		}
		c := colorspace.RGB{
			R: mixChannel(f, from.R, to.R),
			G: mixChannel(f, from.G, to.G),
			B: mixChannel(f, from.B, to.B),
		}
		for y := 0; y < g.Height; y++ {
			g.Set(x, y, c)
		}
	}
	return g
}

func mixChannel(f float64, from, to uint8) uint8 {
	f = math.Max(0, math.Min(1, f))
	return colorspace.ClampChannel((1-f)*float64(from) + f*float64(to))
}

// Swatch renders colors as a row of square tiles, one per color, in order.
//
// tileSize defaults to 64 when not positive. Returns an error for an empty
// color list.
func Swatch(colors []colorspace.RGB, tileSize int) (*image.NRGBA, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	img := image.NewNRGBA(image.Rect(0, 0, tileSize*len(colors), tileSize))
	for i, c := range colors {
		x0 := i * tileSize
		for y := 0; y < tileSize; y++ {
			for x := x0; x < x0+tileSize; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
			}
		}
	}
	return img, nil
}
