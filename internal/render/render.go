// Package render turns the canvas display list into drawing operations.
package render

import "github.com/five82/penplot/internal/stroke"

// Painter is a drawing surface in logical canvas pixels.
type Painter interface {
	Clear()
	Line(x0, y0, x1, y1 int)
	Dot(x, y int)
}

// Render repaints the whole canvas from the authoritative list followed by
// the local stroke buffer. Consecutive points are joined; an End point closes
// its polyline and the next point opens a new one. A polyline of a single
// point is painted as a dot.
func Render(p Painter, authoritative, local []stroke.PixelPoint) {
	p.Clear()
	paint(p, authoritative, local)
}

func paint(p Painter, lists ...[]stroke.PixelPoint) {
	var (
		prev   stroke.PixelPoint
		open   bool
		joined bool
	)
	closePath := func() {
		if open && !joined {
			p.Dot(prev.X, prev.Y)
		}
		open, joined = false, false
	}

	for _, list := range lists {
		for _, pt := range list {
			if open && pt.Kind == stroke.Start {
				closePath()
			}
			if open {
				p.Line(prev.X, prev.Y, pt.X, pt.Y)
				joined = true
			}
			prev, open = pt, true
			if pt.Kind == stroke.End {
				closePath()
			}
		}
	}
	closePath()
}

// Marks paints a dot on each point, used to show which samples were sent.
func Marks(p Painter, points []stroke.PixelPoint) {
	for _, pt := range points {
		p.Dot(pt.X, pt.Y)
	}
}

// Op is one recorded painter call.
type Op struct {
	Kind           string // "clear", "line" or "dot"
	X0, Y0, X1, Y1 int
}

// Recorder is a Painter that records every call.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Kind: "clear"})
}

func (r *Recorder) Line(x0, y0, x1, y1 int) {
	r.Ops = append(r.Ops, Op{Kind: "line", X0: x0, Y0: y0, X1: x1, Y1: y1})
}

func (r *Recorder) Dot(x, y int) {
	r.Ops = append(r.Ops, Op{Kind: "dot", X0: x, Y0: y, X1: x, Y1: y})
}

// Count returns how many ops of kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
