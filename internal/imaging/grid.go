package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/ditherum/internal/colorspace"
)

// Grid is a width x height array of sRGB colors in row-major order.
//
// The invariant Width*Height == len(Pix) holds for every Grid produced by
// this package. Writes through Set replace all three channels at once.
type Grid struct {
	Width  int
	Height int
	Pix    []colorspace.RGB
}

// NewGrid allocates a black grid. Negative dimensions are treated as zero.
func NewGrid(width, height int) *Grid {
	width = max(width, 0)
	height = max(height, 0)
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]colorspace.RGB, width*height),
	}
}

// GridFromPixels wraps an existing row-major pixel slice.
//
// Returns an error if the dimensions are negative or do not match the
// number of pixels.
func GridFromPixels(width, height int, pix []colorspace.RGB) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", width, height)
	}
	if width*height != len(pix) {
		return nil, fmt.Errorf("grid %dx%d needs %d pixels, got %d", width, height, width*height, len(pix))
	}
	return &Grid{Width: width, Height: height, Pix: pix}, nil
}

// FromImage converts any image.Image into a Grid. Alpha is dropped.
//
// Opaque images are normalized through bild's shallow RGBA clone so
// paletted, YCbCr and 16-bit sources all take the same path. Images that
// may carry transparency go through a non-premultiplied NRGBA copy instead,
// so a semi-transparent pixel keeps its straight color rather than being
// darkened toward black. The grid origin is the image's Bounds().Min.
func FromImage(img image.Image) *Grid {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		rgba := clone.AsShallowRGBA(img)
		return gridFromPix(rgba.Pix, rgba.Stride, rgba.Bounds())
	}
	nrgba := imaging.Clone(img)
	return gridFromPix(nrgba.Pix, nrgba.Stride, nrgba.Bounds())
}

// gridFromPix copies the color channels of a 4-bytes-per-pixel buffer whose
// first row starts at pix[0].
func gridFromPix(pix []uint8, stride int, b image.Rectangle) *Grid {
	g := NewGrid(b.Dx(), b.Dy())
	for y := 0; y < g.Height; y++ {
		row := pix[y*stride : y*stride+g.Width*4]
		for x := 0; x < g.Width; x++ {
			g.Pix[y*g.Width+x] = colorspace.RGB{R: row[x*4], G: row[x*4+1], B: row[x*4+2]}
		}
	}
	return g
}

// Len returns the number of pixels in the grid.
func (g *Grid) Len() int {
	return len(g.Pix)
}

// In reports whether (x, y) lies inside the grid.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the color at (x, y). The caller must ensure the coordinate is
// inside the grid.
func (g *Grid) At(x, y int) colorspace.RGB {
	return g.Pix[y*g.Width+x]
}

// Set replaces the color at (x, y).
func (g *Grid) Set(x, y int, c colorspace.RGB) {
	g.Pix[y*g.Width+x] = c
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	pix := make([]colorspace.RGB, len(g.Pix))
	copy(pix, g.Pix)
	return &Grid{Width: g.Width, Height: g.Height, Pix: pix}
}

// Equal reports whether two grids have the same dimensions and pixels.
func (g *Grid) Equal(o *Grid) bool {
	if g.Width != o.Width || g.Height != o.Height || len(g.Pix) != len(o.Pix) {
		return false
	}
	for i := range g.Pix {
		if g.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// DistinctColors returns the number of distinct colors in the grid.
func (g *Grid) DistinctColors() int {
	seen := make(map[colorspace.RGB]struct{})
	for _, c := range g.Pix {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// Image returns the grid as an opaque *image.NRGBA anchored at (0,0).
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Pix[y*g.Width+x]
			img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return img
}
