package stroke

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind marks where a point sits within its stroke.
type Kind int

const (
	Mid Kind = iota
	Start
	End
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return "mid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "start":
		*k = Start
	case "mid":
		*k = Mid
	case "end":
		*k = End
	default:
		return fmt.Errorf("unknown point type %q", string(text))
	}
	return nil
}

// Sample is a raw pointer sample in canvas pixels. Coordinates may be
// fractional or lie outside the canvas.
type Sample struct {
	X    float64
	Y    float64
	Kind Kind
}

// PixelPoint is the integer pixel form used for local buffering, rendering
// and the multi-client line list.
type PixelPoint struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Kind Kind `json:"pointType"`
}

// WirePoint is the resolution independent form sent to the plotter. X and Y
// are fixed-decimal fractions in [0, 1].
type WirePoint struct {
	X    json.Number `json:"x"`
	Y    json.Number `json:"y"`
	Kind Kind        `json:"t"`
}

const (
	// WirePlaces is the precision used for transmitted coordinates.
	WirePlaces = 6
	// DisplayPlaces is the precision used for the on-screen coordinate readout.
	DisplayPlaces = 4
)

// Canvas describes the logical drawing surface in pixels.
type Canvas struct {
	Width  int
	Height int
}

// Wire converts s into its transmitted form.
func (c Canvas) Wire(s Sample) WirePoint {
	return WirePoint{
		X:    json.Number(Normalize(s.X, float64(c.Width), WirePlaces)),
		Y:    json.Number(Normalize(s.Y, float64(c.Height), WirePlaces)),
		Kind: s.Kind,
	}
}

// Display returns the low precision coordinates shown to the user.
func (c Canvas) Display(s Sample) (x, y string) {
	return Normalize(s.X, float64(c.Width), DisplayPlaces),
		Normalize(s.Y, float64(c.Height), DisplayPlaces)
}

// Pixel truncates s to integer pixels. Out of range values are kept as-is so
// a stroke dragged past the edge still renders toward the border.
func (c Canvas) Pixel(s Sample) PixelPoint {
	return PixelPoint{X: truncate(s.X), Y: truncate(s.Y), Kind: s.Kind}
}

func truncate(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Trunc(v))
}

// Split cuts points into strokes at every End. A trailing incomplete stroke
// is returned as the last element.
func Split(points []PixelPoint) [][]PixelPoint {
	var strokes [][]PixelPoint
	start := 0
	for i, p := range points {
		if p.Kind == End {
			strokes = append(strokes, points[start:i+1])
			start = i + 1
		}
	}
	if start < len(points) {
		strokes = append(strokes, points[start:])
	}
	return strokes
}

// Equal reports whether a and b hold the same points in the same order.
func Equal(a, b []PixelPoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of points, or nil when empty.
func Clone(points []PixelPoint) []PixelPoint {
	if len(points) == 0 {
		return nil
	}
	dup := make([]PixelPoint, len(points))
	copy(dup, points)
	return dup
}
