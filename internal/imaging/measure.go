package imaging

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/ditherum/internal/colorspace"
)

// Quality summarizes how closely a quantized grid approximates its source.
type Quality struct {
	// MeanDeltaE is the mean per-pixel Euclidean Lab distance.
	MeanDeltaE float64 `json:"mean_delta_e"`

	// StdDevDeltaE is the standard deviation of the per-pixel Lab distance.
	StdDevDeltaE float64 `json:"stddev_delta_e"`

	// PSNR is the peak signal-to-noise ratio in dB over the sRGB channels.
	// +Inf when the grids are identical.
	PSNR float64 `json:"psnr"`

	// DistinctColors is the number of distinct colors in the quantized grid.
	DistinctColors int `json:"distinct_colors"`
}

// MarshalJSON encodes an infinite PSNR as null.
func (q Quality) MarshalJSON() ([]byte, error) {
	type plain Quality
	out := struct {
		plain
		PSNR *float64 `json:"psnr"`
	}{plain: plain(q)}
	if !math.IsInf(q.PSNR, 0) && !math.IsNaN(q.PSNR) {
		psnr := q.PSNR
		out.PSNR = &psnr
	}
	return json.Marshal(out)
}

// Compare measures per-pixel differences between a source grid and its
// quantized rendition.
//
// Returns an error if the grids differ in size or are empty.
func Compare(src, out *Grid) (*Quality, error) {
	if src.Width != out.Width || src.Height != out.Height {
		return nil, fmt.Errorf("grid size mismatch: %dx%d vs %dx%d", src.Width, src.Height, out.Width, out.Height)
	}
	if src.Len() == 0 {
		return nil, fmt.Errorf("empty grid")
	}

	deltas := make([]float64, src.Len())
	labs := make(map[colorspace.RGB]colorspace.Lab)
	lab := func(c colorspace.RGB) colorspace.Lab {
		if l, ok := labs[c]; ok {
			return l
		}
		l := colorspace.ToLab(c)
		labs[c] = l
		return l
	}

	var sq float64
	for i := range src.Pix {
		a, b := src.Pix[i], out.Pix[i]
		deltas[i] = math.Sqrt(colorspace.Distance(lab(a), lab(b)))
		dr := float64(a.R) - float64(b.R)
		dg := float64(a.G) - float64(b.G)
		db := float64(a.B) - float64(b.B)
		sq += dr*dr + dg*dg + db*db
	}

	mean, std := stat.MeanStdDev(deltas, nil)
	if len(deltas) == 1 {
		std = 0
	}
	mse := sq / float64(3*len(deltas))
	psnr := math.Inf(1)
	if mse > 0 {
		psnr = 10 * math.Log10(255*255/mse)
	}

	return &Quality{
		MeanDeltaE:     mean,
		StdDevDeltaE:   std,
		PSNR:           psnr,
		DistinctColors: out.DistinctColors(),
	}, nil
}

// WindowMean returns the mean of each channel over the rectangle r, clipped
// to the grid. ok is false when the clipped rectangle is empty.
func WindowMean(g *Grid, r Region) (mean [3]float64, ok bool) {
	x1, y1 := max(r.X1, 0), max(r.Y1, 0)
	x2, y2 := min(r.X2, g.Width), min(r.Y2, g.Height)
	if x1 >= x2 || y1 >= y2 {
		return mean, false
	}

	n := float64((x2 - x1) * (y2 - y1))
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			c := g.At(x, y)
			mean[0] += float64(c.R)
			mean[1] += float64(c.G)
			mean[2] += float64(c.B)
		}
	}
	for i := range mean {
		mean[i] /= n
	}
	return mean, true
}
