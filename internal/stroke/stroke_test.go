package stroke

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"
)

func TestDecimator_Periodicity(t *testing.T) {
	cases := []struct {
		name string
		n    int
		mids int
	}{
		{"every point", 1, 7},
		{"sift 3", 3, 10},
		{"sift 9", 9, 20},
		{"shorter than N", 9, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDecimator(tc.n)
			if !d.Keep(Start) {
				t.Fatalf("Start not kept")
			}
			var kept []int
			for i := 1; i <= tc.mids; i++ {
				if d.Keep(Mid) {
					kept = append(kept, i)
				}
			}
			if !d.Keep(End) {
				t.Fatalf("End not kept")
			}
			if len(kept) != tc.mids/tc.n {
				t.Fatalf("kept %d mids, want %d", len(kept), tc.mids/tc.n)
			}
			for i, pos := range kept {
				if pos != (i+1)*tc.n {
					t.Fatalf("kept[%d] = %d, want %d", i, pos, (i+1)*tc.n)
				}
			}
		})
	}
}

func TestDecimator_CounterResetsAfterEnd(t *testing.T) {
	d := NewDecimator(3)
	d.Keep(Start)
	d.Keep(Mid)
	d.Keep(Mid)
	d.Keep(End)

	// A stroke resumed directly with Mid counts from zero again.
	if d.Keep(Mid) || d.Keep(Mid) {
		t.Fatalf("first two mids after End were kept")
	}
	if !d.Keep(Mid) {
		t.Fatalf("third mid after End was not kept")
	}
}

func TestDecimator_Reset(t *testing.T) {
	d := NewDecimator(2)
	d.Keep(Start)
	d.Keep(Mid)
	d.Reset()
	if d.Keep(Mid) {
		t.Fatalf("mid right after Reset was kept")
	}
	if !d.Keep(Mid) {
		t.Fatalf("second mid after Reset was not kept")
	}
}

func TestDecimator_QuantityChangeAppliesToNextSample(t *testing.T) {
	d := NewDecimator(9)
	d.Keep(Start)
	d.Keep(Mid)
	d.SetQuantity(2)
	if !d.Keep(Mid) {
		t.Fatalf("second mid not kept after switching to N=2")
	}
	d.SetQuantity(0)
	if d.Quantity() != 1 {
		t.Fatalf("Quantity = %d, want 1", d.Quantity())
	}
	if !d.Keep(Mid) {
		t.Fatalf("N=1 must keep every mid")
	}
}

func TestDecimator_ScenarioSiftNine(t *testing.T) {
	d := NewDecimator(9)
	var buf Buffer
	var sent []Kind
	var sentIdx []int

	samples := []Kind{Start}
	for i := 0; i < 20; i++ {
		samples = append(samples, Mid)
	}
	samples = append(samples, End)

	mid := 0
	for _, k := range samples {
		if k == Mid {
			mid++
		}
		if d.Keep(k) {
			sent = append(sent, k)
			sentIdx = append(sentIdx, mid)
		}
		buf.Append(PixelPoint{X: mid, Y: mid, Kind: k})
	}

	if len(sent) != 4 {
		t.Fatalf("sent %d points, want 4", len(sent))
	}
	if sent[0] != Start || sent[3] != End || sentIdx[1] != 9 || sentIdx[2] != 18 {
		t.Fatalf("sent = %v at %v, want Start, Mid#9, Mid#18, End", sent, sentIdx)
	}
	if buf.Len() != 22 {
		t.Fatalf("buffered %d points, want 22", buf.Len())
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		value  float64
		max    float64
		places int
		want   string
	}{
		{700, 650, 6, "1.000000"},
		{-12, 650, 6, "0.000000"},
		{325, 650, 6, "0.500000"},
		{325, 650, 4, "0.5000"},
		{100.123456789, 650, 6, "0.154036"},
		{1, 0, 4, "0.0000"},
		{math.NaN(), 650, 4, "0.0000"},
		{math.Inf(1), 650, 2, "1.00"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.value, tc.max, tc.places); got != tc.want {
			t.Fatalf("Normalize(%v, %v, %d) = %q, want %q", tc.value, tc.max, tc.places, got, tc.want)
		}
	}
}

func TestNormalize_AlwaysBounded(t *testing.T) {
	for _, v := range []float64{-1e9, -1, -0.0001, 0, 0.4, 649.99, 650, 651, 1e12, math.Inf(-1)} {
		for _, places := range []int{0, 4, 6} {
			s := Normalize(v, 650, places)
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				t.Fatalf("Normalize(%v) = %q, not a float: %v", v, s, err)
			}
			if f < 0 || f > 1 {
				t.Fatalf("Normalize(%v) = %q, out of [0,1]", v, s)
			}
		}
	}
}

func TestCanvas_Conversions(t *testing.T) {
	c := Canvas{Width: 650, Height: 650}
	s := Sample{X: 325.9, Y: -4, Kind: Start}

	px := c.Pixel(s)
	if px != (PixelPoint{X: 325, Y: -4, Kind: Start}) {
		t.Fatalf("Pixel = %#v", px)
	}

	wire, err := json.Marshal(c.Wire(s))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(wire) != `{"x":0.501385,"y":0.000000,"t":"start"}` {
		t.Fatalf("wire = %s", wire)
	}

	x, y := c.Display(s)
	if x != "0.5014" || y != "0.0000" {
		t.Fatalf("Display = %q, %q", x, y)
	}
}

func TestPixelPoint_JSON(t *testing.T) {
	raw := []byte(`[{"x":1,"y":2,"pointType":"start"},{"x":3,"y":4,"pointType":"end"}]`)
	var pts []PixelPoint
	if err := json.Unmarshal(raw, &pts); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(pts) != 2 || pts[0].Kind != Start || pts[1].Kind != End || pts[1].X != 3 {
		t.Fatalf("points = %#v", pts)
	}

	if err := json.Unmarshal([]byte(`[{"x":1,"y":2,"pointType":"bogus"}]`), &pts); err == nil {
		t.Fatalf("Unmarshal accepted unknown point type")
	}
}

func TestBuffer(t *testing.T) {
	var b Buffer
	if !b.Empty() || b.IsComplete() {
		t.Fatalf("new buffer should be empty and incomplete")
	}
	b.Append(PixelPoint{X: 1, Kind: Start})
	b.Append(PixelPoint{X: 2, Kind: Mid})
	if b.IsComplete() {
		t.Fatalf("IsComplete = true before End")
	}
	b.Append(PixelPoint{X: 3, Kind: End})
	if !b.IsComplete() {
		t.Fatalf("IsComplete = false after End")
	}

	snapshot := b.Points()
	snapshot[0].X = 99

	out := b.Drain()
	if len(out) != 3 || out[0].X != 1 {
		t.Fatalf("Drain = %#v", out)
	}
	if !b.Empty() {
		t.Fatalf("buffer not empty after Drain")
	}
}

func TestSplit(t *testing.T) {
	pts := []PixelPoint{
		{X: 1, Kind: Start}, {X: 2, Kind: End},
		{X: 3, Kind: Start}, {X: 4, Kind: Mid}, {X: 5, Kind: End},
		{X: 6, Kind: Start},
	}
	got := Split(pts)
	if len(got) != 3 || len(got[0]) != 2 || len(got[1]) != 3 || len(got[2]) != 1 {
		t.Fatalf("Split = %#v", got)
	}
	if Split(nil) != nil {
		t.Fatalf("Split(nil) should be nil")
	}
}
