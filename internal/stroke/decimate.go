package stroke

import (
	"math"
	"strconv"
)

// DefaultSiftQuantity keeps every ninth mid point.
const DefaultSiftQuantity = 9

// Decimator selects which samples of a stroke are worth transmitting. Start
// and End are always kept; of the Mid samples only every N-th is.
type Decimator struct {
	n       int
	counter int
}

// NewDecimator returns a Decimator keeping every n-th Mid sample.
func NewDecimator(n int) *Decimator {
	d := &Decimator{}
	d.SetQuantity(n)
	return d
}

// SetQuantity changes N. It applies from the next sample; values below 1 are
// treated as 1.
func (d *Decimator) SetQuantity(n int) {
	if n < 1 {
		n = 1
	}
	d.n = n
}

// Quantity returns the current N.
func (d *Decimator) Quantity() int {
	if d.n < 1 {
		return 1
	}
	return d.n
}

// Keep advances the counter for a sample of the given kind and reports
// whether the sample should be transmitted.
func (d *Decimator) Keep(kind Kind) bool {
	if kind != Mid {
		d.counter = 0
		return true
	}
	d.counter = (d.counter + 1) % d.Quantity()
	return d.counter == 0
}

// Reset clears the stroke-scoped counter.
func (d *Decimator) Reset() {
	d.counter = 0
}

// Normalize maps value on an axis of length axisMax to a fixed-decimal
// fraction in [0, 1] with the given number of places.
func Normalize(value, axisMax float64, places int) string {
	if places < 0 {
		places = 0
	}
	if axisMax <= 0 || math.IsNaN(value) || math.IsNaN(axisMax) {
		return strconv.FormatFloat(0, 'f', places, 64)
	}
	scale := math.Pow(10, float64(places))
	rounded := math.Round(value*scale) / scale
	frac := math.Max(math.Min(rounded/axisMax, 1), 0)
	return strconv.FormatFloat(frac, 'f', places, 64)
}
