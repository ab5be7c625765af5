package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/ditherum/internal/colorspace"
)

// BlackAndWhite returns the two-color palette {black, white}.
func BlackAndWhite() *Palette {
	p, _ := New([]colorspace.RGB{{}, {R: 255, G: 255, B: 255}})
	return p
}

// Primary returns the eight corners of the RGB cube: black, white, the
// three primaries and their complements.
func Primary() *Palette {
	p, _ := New([]colorspace.RGB{
		{},
		{R: 255, G: 255, B: 255},
		{R: 255},
		{G: 255},
		{B: 255},
		{G: 255, B: 255},
		{R: 255, B: 255},
		{R: 255, G: 255},
	})
	return p
}

// Grayscale returns n evenly spaced grays from black to white.
//
// Returns ErrInvalidParameter unless 2 <= n <= 256.
func Grayscale(n int) (*Palette, error) {
	if n < 2 || n > 256 {
		return nil, fmt.Errorf("%w: grayscale levels must be between 2 and 256, got %d", ErrInvalidParameter, n)
	}
	colors := make([]colorspace.RGB, n)
	for i := range colors {
		v := colorspace.ClampChannel(255 * float64(i) / float64(n-1))
		colors[i] = colorspace.RGB{R: v, G: v, B: v}
	}
	return New(colors)
}

// Preset returns a built-in palette by name: "bw", "primary" or "grayN"
// (for example "gray4").
func Preset(name string) (*Palette, error) {
	switch n := strings.ToLower(name); {
	case n == "bw" || n == "blackwhite":
		return BlackAndWhite(), nil
	case n == "primary":
		return Primary(), nil
	case strings.HasPrefix(n, "gray") || strings.HasPrefix(n, "grey"):
		levels, err := strconv.Atoi(n[4:])
		if err != nil {
			return nil, fmt.Errorf("invalid grayscale preset %q: %w", name, err)
		}
		return Grayscale(levels)
	default:
		return nil, fmt.Errorf("unknown preset %q", name)
	}
}

// IsPreset reports whether name refers to a built-in palette.
func IsPreset(name string) bool {
	_, err := Preset(name)
	return err == nil
}
