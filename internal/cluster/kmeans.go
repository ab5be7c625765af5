package cluster

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/ditherum/internal/colorspace"
)

// ErrInvalidParameter is returned for a cluster count below one or an
// empty population.
var ErrInvalidParameter = errors.New("invalid parameter")

// Sample is one distinct color of the population with its weight.
type Sample struct {
	RGB    colorspace.RGB
	Color  colorspace.Lab
	Weight float64
}

// Result holds the outcome of a clustering run.
type Result struct {
	// Colors are the cluster colors ordered by descending weight, ties by
	// centroid index. Entries are unique.
	Colors []colorspace.RGB

	// Weights holds the total sample weight assigned to each color.
	Weights []float64

	// Iterations is the number of update steps performed.
	Iterations int

	// Converged is false when the run stopped at MaxIterations.
	Converged bool
}

// Population builds the distinct-color population of a pixel list. Samples
// appear in the order their color is first seen; each weight is the number
// of occurrences.
func Population(pixels []colorspace.RGB) []Sample {
	index := make(map[colorspace.RGB]int)
	var samples []Sample
	for _, c := range pixels {
		if i, ok := index[c]; ok {
			samples[i].Weight++
			continue
		}
		index[c] = len(samples)
		samples = append(samples, Sample{RGB: c, Color: colorspace.ToLab(c), Weight: 1})
	}
	return samples
}

// Run clusters samples into at most k colors.
//
// When seed is empty the initial centroids are drawn from the samples and a
// population with k or fewer samples is returned as is, without iterating.
// When seed is given the initial centroids are drawn from it instead; this
// is how an existing palette is reduced.
//
// Returns ErrInvalidParameter if k < 1, samples is empty or a sample has a
// non-positive weight.
func Run(samples []Sample, k int, seed []colorspace.Lab, cfg Config) (*Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: cluster count must be at least 1, got %d", ErrInvalidParameter, k)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty population", ErrInvalidParameter)
	}
	for i, s := range samples {
		if !(s.Weight > 0) {
			return nil, fmt.Errorf("%w: sample %d has weight %v", ErrInvalidParameter, i, s.Weight)
		}
	}
	cfg = cfg.normalized()

	if len(seed) == 0 && len(samples) <= k {
		entries := make([]entry, len(samples))
		for i, s := range samples {
			entries[i] = entry{rgb: s.RGB, weight: s.Weight}
		}
		colors, weights := finalize(entries)
		return &Result{Colors: colors, Weights: weights, Converged: true}, nil
	}

	centroids := initialCentroids(samples, k, seed)

	p := newPool(samples, cfg.Workers, len(centroids))
	defer p.close()

	res := &Result{}
	for res.Iterations < cfg.MaxIterations {
		acc := p.assign(centroids)
		res.Iterations++

		var maxMove float64
		var empty []int
		for j := range centroids {
			if acc[j].weight == 0 {
				empty = append(empty, j)
				continue
			}
			next := acc[j].mean()
			maxMove = math.Max(maxMove, math.Sqrt(colorspace.Distance(next, centroids[j])))
			centroids[j] = next
		}

		if len(empty) > 0 {
			centroids = reseed(samples, centroids, empty)
			continue
		}
		if maxMove <= cfg.Epsilon {
			res.Converged = true
			break
		}
	}

	// Weights are taken from a final assignment against the settled
	// centroids; duplicates lose every tie and drop out here.
	acc := p.assign(centroids)
	entries := make([]entry, len(centroids))
	for j, c := range centroids {
		entries[j] = entry{rgb: colorspace.ToRGB(c), weight: acc[j].weight}
	}
	res.Colors, res.Weights = finalize(entries)
	return res, nil
}

// initialCentroids picks k starting centroids from the seed, or from the
// samples when no seed is given. Candidates are stably ordered by
// lightness and the midpoint of each of k equal bins is taken.
func initialCentroids(samples []Sample, k int, seed []colorspace.Lab) []colorspace.Lab {
	candidates := seed
	if len(candidates) == 0 {
		candidates = make([]colorspace.Lab, len(samples))
		for i, s := range samples {
			candidates[i] = s.Color
		}
	}

	n := len(candidates)
	if n <= k {
		return append([]colorspace.Lab(nil), candidates...)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return candidates[order[a]].L < candidates[order[b]].L
	})

	centroids := make([]colorspace.Lab, k)
	for i := range centroids {
		centroids[i] = candidates[order[(2*i+1)*n/(2*k)]]
	}
	return centroids
}

// reseed moves every empty centroid onto the sample farthest from its
// nearest live centroid. A centroid with no eligible sample (every sample
// already sits on a centroid) is removed.
func reseed(samples []Sample, centroids []colorspace.Lab, empty []int) []colorspace.Lab {
	live := make([]bool, len(centroids))
	for j := range live {
		live[j] = true
	}
	for _, j := range empty {
		live[j] = false
	}

	for _, j := range empty {
		best, bestDist := -1, 0.0
		for i, s := range samples {
			d := math.Inf(1)
			for c, ok := range live {
				if ok {
					d = math.Min(d, colorspace.Distance(centroids[c], s.Color))
				}
			}
			if d > bestDist {
				best, bestDist = i, d
			}
		}
		if best >= 0 {
			centroids[j] = samples[best].Color
			live[j] = true
		}
	}

	kept := centroids[:0]
	for j, c := range centroids {
		if live[j] {
			kept = append(kept, c)
		}
	}
	return kept
}

type entry struct {
	rgb    colorspace.RGB
	weight float64
}

// finalize merges entries with identical colors into the first occurrence,
// drops zero-weight entries and orders the rest by descending weight, ties
// by position.
func finalize(entries []entry) ([]colorspace.RGB, []float64) {
	index := make(map[colorspace.RGB]int)
	var merged []entry
	for _, e := range entries {
		if i, ok := index[e.rgb]; ok {
			merged[i].weight += e.weight
			continue
		}
		index[e.rgb] = len(merged)
		merged = append(merged, e)
	}

	kept := merged[:0]
	for _, e := range merged {
		if e.weight > 0 {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(a, b int) bool {
		return kept[a].weight > kept[b].weight
	})

	colors := make([]colorspace.RGB, len(kept))
	weights := make([]float64, len(kept))
	for i, e := range kept {
		colors[i] = e.rgb
		weights[i] = e.weight
	}
	return colors, weights
}
