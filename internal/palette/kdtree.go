package palette

import (
	"math"
	"sort"

	"github.com/ironsheep/ditherum/internal/colorspace"
)

var inf = math.Inf(1)

// kdNode is a node of a k-d tree over palette entries in Lab space. Each
// node stores one entry and splits its children on a single axis.
type kdNode struct {
	lab         colorspace.Lab
	index       int
	axis        int
	left, right *kdNode
}

// buildKDTree constructs a k-d tree over labs. Node indices refer back to
// positions in labs.
func buildKDTree(labs []colorspace.Lab) *kdNode {
	indices := make([]int, len(labs))
	for i := range indices {
		indices[i] = i
	}
	return buildKDNode(labs, indices)
}

func buildKDNode(labs []colorspace.Lab, indices []int) *kdNode {
	if len(indices) == 0 {
		return nil
	}

	axis := chooseSplitAxis(labs, indices)
	sort.SliceStable(indices, func(i, j int) bool {
		return component(labs[indices[i]], axis) < component(labs[indices[j]], axis)
	})

	median := len(indices) / 2
	return &kdNode{
		lab:   labs[indices[median]],
		index: indices[median],
		axis:  axis,
		left:  buildKDNode(labs, indices[:median]),
		right: buildKDNode(labs, indices[median+1:]),
	}
}

// chooseSplitAxis returns the axis with the largest variance.
func chooseSplitAxis(labs []colorspace.Lab, indices []int) int {
	var mean, variance [3]float64
	for _, i := range indices {
		for axis := range mean {
			mean[axis] += component(labs[i], axis)
		}
	}
	for axis := range mean {
		mean[axis] /= float64(len(indices))
	}
	for _, i := range indices {
		for axis := range variance {
			d := component(labs[i], axis) - mean[axis]
			variance[axis] += d * d
		}
	}

	if variance[0] >= variance[1] && variance[0] >= variance[2] {
		return 0
	} else if variance[1] >= variance[2] {
		return 1
	}
	return 2
}

func component(c colorspace.Lab, axis int) float64 {
	switch axis {
	case 0:
		return c.L
	case 1:
		return c.A
	default:
		return c.B
	}
}

// nearest returns the entry closest to target, comparing (distance, index)
// pairs so equal distances resolve to the lowest index. The far branch is
// visited whenever it could hold an equally close entry.
func (n *kdNode) nearest(target colorspace.Lab, best int, bestDist float64) (int, float64) {
	if n == nil {
		return best, bestDist
	}

	d := colorspace.Distance(n.lab, target)
	if d < bestDist || (d == bestDist && n.index < best) {
		best, bestDist = n.index, d
	}

	diff := component(target, n.axis) - component(n.lab, n.axis)
	near, far := n.left, n.right
	if diff >= 0 {
		near, far = n.right, n.left
	}

	best, bestDist = near.nearest(target, best, bestDist)
	if diff*diff <= bestDist {
		best, bestDist = far.nearest(target, best, bestDist)
	}
	return best, bestDist
}
