package dither

import (
	"fmt"
	"strings"
)

// Algorithm selects a diffusion kernel, the color space the error is
// carried in and the distance used to pick palette entries.
//
// Diffusing variants carry error in sRGB unless their name says Lab.
// Entries are matched by Lab distance except for ThresholdRGB.
type Algorithm int

const (
	// FloydSteinberg spreads sRGB error to four neighbours:
	//
	//	      *   7
	//	  3   5   1     (/16)
	FloydSteinberg Algorithm = iota

	// SierraLite is a cheaper three-tap kernel:
	//
	//	      *   2
	//	  1   1         (/4)
	SierraLite

	// Threshold maps every pixel to its nearest entry by Lab distance
	// without diffusion.
	Threshold

	// FloydSteinbergLab uses the Floyd-Steinberg kernel but carries the
	// error in Lab. The effective color is clamped to the sRGB gamut
	// before matching.
	FloydSteinbergLab

	// ThresholdRGB maps every pixel to its nearest entry by sRGB distance
	// without diffusion.
	ThresholdRGB
)

// tap is one kernel target relative to the current pixel. dy is 0 or 1.
type tap struct {
	dx, dy int
	weight float64
}

var (
	floydSteinbergTaps = []tap{
		{1, 0, 7.0 / 16},
		{-1, 1, 3.0 / 16},
		{0, 1, 5.0 / 16},
		{1, 1, 1.0 / 16},
	}
	sierraLiteTaps = []tap{
		{1, 0, 2.0 / 4},
		{-1, 1, 1.0 / 4},
		{0, 1, 1.0 / 4},
	}
)

// Algorithms lists every supported algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{FloydSteinberg, SierraLite, Threshold, FloydSteinbergLab, ThresholdRGB}
}

func (a Algorithm) kernel() ([]tap, bool) {
	switch a {
	case FloydSteinberg, FloydSteinbergLab:
		return floydSteinbergTaps, true
	case SierraLite:
		return sierraLiteTaps, true
	case Threshold, ThresholdRGB:
		return nil, true
	default:
		return nil, false
	}
}

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case FloydSteinberg:
		return "floyd-steinberg"
	case SierraLite:
		return "sierra-lite"
	case Threshold:
		return "threshold"
	case FloydSteinbergLab:
		return "floyd-steinberg-lab"
	case ThresholdRGB:
		return "threshold-rgb"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a name to an Algorithm. Matching ignores case; "fs",
// "fs-lab" and "sierra" are accepted as short forms.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "floyd-steinberg", "floydsteinberg", "fs", "":
		return FloydSteinberg, nil
	case "sierra-lite", "sierralite", "sierra":
		return SierraLite, nil
	case "threshold", "none", "threshold-lab":
		return Threshold, nil
	case "floyd-steinberg-lab", "floydsteinberglab", "fs-lab":
		return FloydSteinbergLab, nil
	case "threshold-rgb", "none-rgb":
		return ThresholdRGB, nil
	default:
		return 0, fmt.Errorf("%w: unknown dithering algorithm %q", ErrInvalidParameter, name)
	}
}
