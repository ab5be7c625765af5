package cluster

import (
	"sync"

	"github.com/ironsheep/ditherum/internal/colorspace"
)

// accumulator collects the weighted Lab sum of the samples assigned to one
// centroid during one iteration.
type accumulator struct {
	sum    colorspace.Lab
	weight float64
}

func (acc *accumulator) add(c colorspace.Lab, w float64) {
	acc.sum = acc.sum.Add(c.Scale(w))
	acc.weight += w
}

// mean returns the weighted mean of the accumulated colors.
func (acc *accumulator) mean() colorspace.Lab {
	return acc.sum.Scale(1 / acc.weight)
}

// worker owns a contiguous chunk of the population and one accumulator per
// centroid. The accumulator slice is allocated once with capacity k and
// re-zeroed every iteration.
type worker struct {
	samples []Sample
	acc     []accumulator
	start   chan []colorspace.Lab
}

func (w *worker) loop(done *sync.WaitGroup) {
	for centroids := range w.start {
		w.assign(centroids)
		done.Done()
	}
}

func (w *worker) assign(centroids []colorspace.Lab) {
	w.acc = w.acc[:len(centroids)]
	clear(w.acc)
	for _, s := range w.samples {
		j := nearest(centroids, s.Color)
		w.acc[j].add(s.Color, s.Weight)
	}
}

// pool is the fixed set of assignment workers for one Run.
type pool struct {
	workers []*worker
	done    sync.WaitGroup
	merged  []accumulator
}

// newPool splits samples into at most n contiguous chunks and starts one
// goroutine per chunk.
func newPool(samples []Sample, n, k int) *pool {
	n = max(1, min(n, len(samples)))
	size := (len(samples) + n - 1) / n

	p := &pool{merged: make([]accumulator, 0, k)}
	for lo := 0; lo < len(samples); lo += size {
		hi := min(lo+size, len(samples))
		w := &worker{
			samples: samples[lo:hi],
			acc:     make([]accumulator, 0, k),
			start:   make(chan []colorspace.Lab),
		}
		p.workers = append(p.workers, w)
		go w.loop(&p.done)
	}
	return p
}

// assign runs one assignment step on every worker, waits for all of them
// and returns the accumulators merged in worker order. The returned slice
// is reused by the next call.
func (p *pool) assign(centroids []colorspace.Lab) []accumulator {
	p.done.Add(len(p.workers))
	for _, w := range p.workers {
		w.start <- centroids
	}
	p.done.Wait()

	p.merged = p.merged[:len(centroids)]
	clear(p.merged)
	for _, w := range p.workers {
		for j := range w.acc {
			p.merged[j].sum = p.merged[j].sum.Add(w.acc[j].sum)
			p.merged[j].weight += w.acc[j].weight
		}
	}
	return p.merged
}

// close stops the workers.
func (p *pool) close() {
	for _, w := range p.workers {
		close(w.start)
	}
}

// nearest returns the index of the centroid closest to c; ties go to the
// lowest index.
func nearest(centroids []colorspace.Lab, c colorspace.Lab) int {
	best, bestDist := 0, colorspace.Distance(centroids[0], c)
	for j := 1; j < len(centroids); j++ {
		if d := colorspace.Distance(centroids[j], c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}
