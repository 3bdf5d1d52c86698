package stroke

// Buffer accumulates the points of the stroke currently drawn by this client
// until they can be folded into the authoritative list. Points stay in pixel
// form so the stroke redraws exactly while it is still local.
type Buffer struct {
	points []PixelPoint
}

// Append adds p in arrival order.
func (b *Buffer) Append(p PixelPoint) {
	b.points = append(b.points, p)
}

// IsComplete reports whether the last point ends the stroke.
func (b *Buffer) IsComplete() bool {
	return len(b.points) > 0 && b.points[len(b.points)-1].Kind == End
}

// Drain returns the buffered points and empties the buffer.
func (b *Buffer) Drain() []PixelPoint {
	out := b.points
	b.points = nil
	return out
}

// Points returns a copy of the buffered points.
func (b *Buffer) Points() []PixelPoint {
	return Clone(b.points)
}

// Len returns the number of buffered points.
func (b *Buffer) Len() int {
	return len(b.points)
}

// Empty reports whether nothing is buffered.
func (b *Buffer) Empty() bool {
	return len(b.points) == 0
}
