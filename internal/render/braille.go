package render

import "strings"

const brailleBase = 0x2800

// brailleBits maps a dot position within a cell, indexed [row][col], to its
// bit in the braille code point.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Braille rasterises logical canvas pixels onto a grid of terminal cells,
// each holding 2x4 braille dots.
type Braille struct {
	cols, rows    int
	width, height int // logical canvas size
	cells         []rune
}

// NewBraille returns a painter of cols x rows cells covering a logical
// canvas of width x height pixels.
func NewBraille(cols, rows, width, height int) *Braille {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Braille{
		cols:   cols,
		rows:   rows,
		width:  width,
		height: height,
		cells:  make([]rune, cols*rows),
	}
}

// Size returns the grid size in cells.
func (b *Braille) Size() (cols, rows int) {
	return b.cols, b.rows
}

func (b *Braille) Clear() {
	for i := range b.cells {
		b.cells[i] = 0
	}
}

func (b *Braille) Dot(x, y int) {
	dx, dy := b.toDots(x, y)
	b.set(dx, dy)
}

// Line walks the segment in dot space with Bresenham's algorithm.
func (b *Braille) Line(x0, y0, x1, y1 int) {
	ax, ay := b.toDots(x0, y0)
	bx, by := b.toDots(x1, y1)

	dx := abs(bx - ax)
	dy := -abs(by - ay)
	sx, sy := 1, 1
	if ax > bx {
		sx = -1
	}
	if ay > by {
		sy = -1
	}
	e := dx + dy
	for {
		b.set(ax, ay)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			ax += sx
		}
		if e2 <= dx {
			e += dx
			ay += sy
		}
	}
}

// Lines returns the grid as one string per row. Empty cells are spaces.
func (b *Braille) Lines() []string {
	out := make([]string, b.rows)
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		sb.Reset()
		for c := 0; c < b.cols; c++ {
			bits := b.cells[r*b.cols+c]
			if bits == 0 {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteRune(brailleBase + bits)
		}
		out[r] = sb.String()
	}
	return out
}

// Cell returns the braille rune at col, row and whether any dot is set.
func (b *Braille) Cell(col, row int) (rune, bool) {
	if col < 0 || row < 0 || col >= b.cols || row >= b.rows {
		return ' ', false
	}
	bits := b.cells[row*b.cols+col]
	if bits == 0 {
		return ' ', false
	}
	return brailleBase + bits, true
}

// CellAt maps a terminal cell back to the logical pixel at its centre.
func (b *Braille) CellAt(col, row int) (x, y float64) {
	x = (float64(col) + 0.5) * float64(b.width) / float64(b.cols)
	y = (float64(row) + 0.5) * float64(b.height) / float64(b.rows)
	return x, y
}

func (b *Braille) toDots(x, y int) (int, int) {
	return x * b.cols * 2 / b.width, y * b.rows * 4 / b.height
}

func (b *Braille) set(dx, dy int) {
	if dx < 0 || dy < 0 || dx >= b.cols*2 || dy >= b.rows*4 {
		return
	}
	i := (dy/4)*b.cols + dx/2
	b.cells[i] |= brailleBits[dy%4][dx%2]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
