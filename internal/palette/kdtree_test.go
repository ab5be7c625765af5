package palette

import (
	"math/rand"
	"testing"

	"github.com/ironsheep/ditherum/internal/colorspace"
)

func randomColors(r *rand.Rand, n int) []colorspace.RGB {
	colors := make([]colorspace.RGB, n)
	for i := range colors {
		colors[i] = colorspace.RGB{R: uint8(r.Intn(256)), G: uint8(r.Intn(256)), B: uint8(r.Intn(256))}
	}
	return colors
}

func linearNearest(labs []colorspace.Lab, q colorspace.Lab) int {
	best, bestDist := 0, colorspace.Distance(labs[0], q)
	for i := 1; i < len(labs); i++ {
		if d := colorspace.Distance(labs[i], q); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func TestKDTree_MatchesLinearScan(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for _, size := range []int{treeThreshold, 100, 256} {
		p, err := New(randomColors(r, size))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if p.tree == nil {
			t.Fatalf("size %d: tree not built", p.Len())
		}

		for _, q := range randomColors(r, 2000) {
			lab := colorspace.ToLab(q)
			if got, want := p.NearestLab(lab), linearNearest(p.labs, lab); got != want {
				t.Fatalf("size %d query %v: tree %d, linear %d", p.Len(), q, got, want)
			}
		}
	}
}

func TestKDTree_TiesResolveToLowestIndex(t *testing.T) {
	labs := make([]colorspace.Lab, 40)
	for i := range labs {
		// Pairs of identical points; the even index must always win.
		labs[i] = colorspace.Lab{L: float64(i / 2 * 2), A: 1, B: -1}
	}
	tree := buildKDTree(labs)

	for i := 0; i < len(labs); i += 2 {
		if got, _ := tree.nearest(labs[i], -1, inf); got != i {
			t.Errorf("query at %d: got %d", i, got)
		}
	}
	// Equidistant between L=0 (index 0) and L=2 (index 2).
	if got, _ := tree.nearest(colorspace.Lab{L: 1, A: 1, B: -1}, -1, inf); got != 0 {
		t.Errorf("equidistant query: got %d, want 0", got)
	}
}

func TestChooseSplitAxis(t *testing.T) {
	labs := []colorspace.Lab{{L: 0, A: 0, B: 0}, {L: 1, A: 50, B: 2}, {L: 2, A: -50, B: 1}}
	if got := chooseSplitAxis(labs, []int{0, 1, 2}); got != 1 {
		t.Errorf("got axis %d, want 1", got)
	}
}
