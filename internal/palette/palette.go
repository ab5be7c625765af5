package palette

import (
	"fmt"
	"image"
	"math"

	"github.com/cenkalti/dominantcolor"

	"github.com/ironsheep/ditherum/internal/cluster"
	"github.com/ironsheep/ditherum/internal/colorspace"
	"github.com/ironsheep/ditherum/internal/imaging"
)

// ErrInvalidParameter is returned for empty palettes and invalid cluster
// counts. It is the same value as cluster.ErrInvalidParameter.
var ErrInvalidParameter = cluster.ErrInvalidParameter

// treeThreshold is the palette size from which Nearest switches from a
// linear scan to the k-d tree.
const treeThreshold = 32

// Palette is an ordered set of unique sRGB colors.
//
// Each entry carries a weight: the population it represented when the
// palette was produced by clustering, or 1 for palettes built from an
// explicit list. Weights steer TryReduce and are not persisted.
type Palette struct {
	colors  []colorspace.RGB
	labs    []colorspace.Lab
	weights []float64
	tree    *kdNode
}

// New builds a palette from an explicit color list. Duplicates collapse
// onto their first occurrence.
//
// Returns ErrInvalidParameter if colors is empty.
func New(colors []colorspace.RGB) (*Palette, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidParameter)
	}
	seen := make(map[colorspace.RGB]struct{}, len(colors))
	var unique []colorspace.RGB
	var weights []float64
	for _, c := range colors {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
		weights = append(weights, 1)
	}
	return build(unique, weights), nil
}

// build assumes colors are unique and non-empty.
func build(colors []colorspace.RGB, weights []float64) *Palette {
	p := &Palette{
		colors:  colors,
		labs:    make([]colorspace.Lab, len(colors)),
		weights: weights,
	}
	for i, c := range colors {
		p.labs[i] = colorspace.ToLab(c)
	}
	if len(colors) >= treeThreshold {
		p.tree = buildKDTree(p.labs)
	}
	return p
}

func fromResult(res *cluster.Result) *Palette {
	return build(res.Colors, res.Weights)
}

// FromPixels extracts a palette of at most k colors from a pixel list.
//
// When the pixels hold k or fewer distinct colors they are returned as is,
// ordered by descending frequency.
func FromPixels(pixels []colorspace.RGB, k int, cfg cluster.Config) (*Palette, error) {
	res, err := cluster.Run(cluster.Population(pixels), k, nil, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to extract palette: %w", err)
	}
	return fromResult(res), nil
}

// FromGrid extracts a palette of at most k colors from a pixel grid.
func FromGrid(g *imaging.Grid, k int, cfg cluster.Config) (*Palette, error) {
	return FromPixels(g.Pix, k, cfg)
}

// FromDominant extracts up to k colors with the dominantcolor package.
//
// This is faster than FromGrid on large images because dominantcolor
// downsamples first, at the cost of working in RGB rather than Lab.
func FromDominant(img image.Image, k int) (*Palette, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: cluster count must be at least 1, got %d", ErrInvalidParameter, k)
	}
	found := dominantcolor.FindWeight(img, k)
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: no colors found in image", ErrInvalidParameter)
	}

	seen := make(map[colorspace.RGB]int)
	var colors []colorspace.RGB
	var weights []float64
	for _, c := range found {
		rgb := colorspace.RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B}
		if i, ok := seen[rgb]; ok {
			weights[i] += c.Weight
			continue
		}
		seen[rgb] = len(colors)
		colors = append(colors, rgb)
		weights = append(weights, max(c.Weight, 1e-6))
	}
	return build(colors, weights), nil
}

// TryReduce clusters the palette down to at most k colors, seeding from
// the palette's own entries. The receiver is not modified.
//
// Returns ErrInvalidParameter unless 0 < k < Len().
func (p *Palette) TryReduce(k int, cfg cluster.Config) (*Palette, error) {
	if k < 1 || k >= p.Len() {
		return nil, fmt.Errorf("%w: reduction target %d must be between 1 and %d", ErrInvalidParameter, k, p.Len()-1)
	}

	samples := make([]cluster.Sample, p.Len())
	for i := range p.colors {
		samples[i] = cluster.Sample{RGB: p.colors[i], Color: p.labs[i], Weight: p.weights[i]}
	}
	res, err := cluster.Run(samples, k, p.labs, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to reduce palette: %w", err)
	}
	return fromResult(res), nil
}

// Nearest returns the index and color of the entry closest to c.
func (p *Palette) Nearest(c colorspace.RGB) (int, colorspace.RGB) {
	i := p.NearestLab(colorspace.ToLab(c))
	return i, p.colors[i]
}

// NearestLab returns the index of the entry closest to lab. Ties resolve to
// the lowest index.
func (p *Palette) NearestLab(lab colorspace.Lab) int {
	if p.tree != nil {
		i, _ := p.tree.nearest(lab, -1, inf)
		return i
	}
	best, bestDist := 0, colorspace.Distance(p.labs[0], lab)
	for i := 1; i < len(p.labs); i++ {
		if d := colorspace.Distance(p.labs[i], lab); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// NearestRGB returns the index and color of the entry closest to c by
// squared sRGB distance. Ties resolve to the lowest index.
func (p *Palette) NearestRGB(c colorspace.RGB) (int, colorspace.RGB) {
	best, bestDist := 0, math.MaxInt
	for i, e := range p.colors {
		dr := int(e.R) - int(c.R)
		dg := int(e.G) - int(c.G)
		db := int(e.B) - int(c.B)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, p.colors[best]
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Colors returns a copy of the entries in order.
func (p *Palette) Colors() []colorspace.RGB {
	return append([]colorspace.RGB(nil), p.colors...)
}

// At returns entry i.
func (p *Palette) At(i int) colorspace.RGB {
	return p.colors[i]
}

// Lab returns entry i in Lab space.
func (p *Palette) Lab(i int) colorspace.Lab {
	return p.labs[i]
}

// Weight returns the weight of entry i.
func (p *Palette) Weight(i int) float64 {
	return p.weights[i]
}

// Equal reports whether two palettes hold the same colors in the same
// order. Weights are ignored.
func (p *Palette) Equal(o *Palette) bool {
	if p.Len() != o.Len() {
		return false
	}
	for i := range p.colors {
		if p.colors[i] != o.colors[i] {
			return false
		}
	}
	return true
}

