package palette

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ironsheep/ditherum/internal/colorspace"
)

// SortByLightness returns a copy of the palette ordered from dark to
// bright. Entries of equal lightness keep their relative order.
func (p *Palette) SortByLightness() *Palette {
	order := make([]int, p.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return p.labs[order[a]].L < p.labs[order[b]].L
	})

	colors := make([]colorspace.RGB, len(order))
	weights := make([]float64, len(order))
	for i, j := range order {
		colors[i] = p.colors[j]
		weights[i] = p.weights[j]
	}
	return build(colors, weights)
}

// ANSI renders the palette as a row of 24-bit terminal color swatches
// followed by the hex codes.
func (p *Palette) ANSI() string {
	var b strings.Builder
	for _, c := range p.colors {
		fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm    \x1b[0m", c.R, c.G, c.B)
	}
	b.WriteByte('\n')
	for i, c := range p.colors {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.Hex())
	}
	return b.String()
}
