package processor

import (
	"fmt"
	"strings"

	"github.com/ironsheep/ditherum/internal/cluster"
	"github.com/ironsheep/ditherum/internal/dither"
	"github.com/ironsheep/ditherum/internal/imaging"
	"github.com/ironsheep/ditherum/internal/palette"
)

// DefaultColors is the extraction size the CLI and tool server use when
// none is given.
const DefaultColors = 16

// Method selects the palette extractor.
type Method int

const (
	// MethodLab clusters the image's colors with weighted K-means in Lab.
	MethodLab Method = iota
	// MethodDominant uses the dominantcolor package.
	MethodDominant
)

// ParseMethod maps "lab" (or "kmeans") and "dominant" to a Method.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "", "lab", "kmeans":
		return MethodLab, nil
	case "dominant":
		return MethodDominant, nil
	default:
		return 0, fmt.Errorf("%w: unknown extraction method %q", palette.ErrInvalidParameter, name)
	}
}

func (m Method) String() string {
	if m == MethodDominant {
		return "dominant"
	}
	return "lab"
}

// Options configures Extract and Run.
type Options struct {
	// Palette is used as is when set; otherwise a palette of Colors
	// entries is extracted from the image.
	Palette *palette.Palette

	// Colors is the extraction size when Palette is nil. It must be at
	// least 1; callers apply DefaultColors when the user gave no size.
	Colors int

	// Method is the extractor used when Palette is nil.
	Method Method

	// ReduceTo, when positive, reduces the palette to at most this many
	// entries before dithering.
	ReduceTo int

	Algorithm dither.Algorithm
	Cluster   cluster.Config
}

// Result is the outcome of Run.
type Result struct {
	Image   *imaging.Grid
	Palette *palette.Palette

	// Quality is nil for an empty image.
	Quality *imaging.Quality
}

// Extract returns the palette described by opts for src.
func Extract(src *imaging.Grid, opts Options) (*palette.Palette, error) {
	if opts.ReduceTo < 0 {
		return nil, fmt.Errorf("%w: reduction target %d", palette.ErrInvalidParameter, opts.ReduceTo)
	}

	p := opts.Palette
	if p == nil {
		var err error
		if p, err = extract(src, opts); err != nil {
			return nil, err
		}
	}

	if opts.ReduceTo > 0 {
		reduced, err := p.TryReduce(opts.ReduceTo, opts.Cluster)
		if err != nil {
			return nil, err
		}
		p = reduced
	}
	return p, nil
}

func extract(src *imaging.Grid, opts Options) (*palette.Palette, error) {
	if opts.Method == MethodDominant {
		return palette.FromDominant(src.Image(), opts.Colors)
	}
	return palette.FromGrid(src, opts.Colors, opts.Cluster)
}

// Run extracts or reduces the palette per opts, dithers src with it and
// measures the result.
func Run(src *imaging.Grid, opts Options) (*Result, error) {
	p, err := Extract(src, opts)
	if err != nil {
		return nil, err
	}

	out, err := dither.Dither(src, p, opts.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to dither: %w", err)
	}

	res := &Result{Image: out, Palette: p}
	if src.Len() > 0 {
		if res.Quality, err = imaging.Compare(src, out); err != nil {
			return nil, fmt.Errorf("failed to measure result: %w", err)
		}
	}
	return res, nil
}
