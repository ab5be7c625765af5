package dither

// errorBuffer holds the diffused error for the row being processed and the
// row below it.
type errorBuffer struct {
	cur, next [][3]float64
}

func newErrorBuffer(width int) *errorBuffer {
	return &errorBuffer{
		cur:  make([][3]float64, width),
		next: make([][3]float64, width),
	}
}

// at returns the error accumulated for column x of the current row.
func (b *errorBuffer) at(x int) [3]float64 {
	return b.cur[x]
}

// spread distributes residual from column x through taps. Targets left or
// right of the image, or below the last row, are dropped.
func (b *errorBuffer) spread(x int, lastRow bool, residual [3]float64, taps []tap) {
	width := len(b.cur)
	for _, t := range taps {
		tx := x + t.dx
		if tx < 0 || tx >= width || (t.dy > 0 && lastRow) {
			continue
		}
		row := b.cur
		if t.dy > 0 {
			row = b.next
		}
		for ch := range residual {
			row[tx][ch] += residual[ch] * t.weight
		}
	}
}

// advance makes the next row current and clears the row after it.
func (b *errorBuffer) advance() {
	b.cur, b.next = b.next, b.cur
	clear(b.next)
}
