package render

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/five82/penplot/internal/stroke"
)

func pp(x, y int, k stroke.Kind) stroke.PixelPoint {
	return stroke.PixelPoint{X: x, Y: y, Kind: k}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name          string
		authoritative []stroke.PixelPoint
		local         []stroke.PixelPoint
		want          []Op
	}{
		{
			name: "empty canvas",
			want: []Op{{Kind: "clear"}},
		},
		{
			name: "single stroke",
			authoritative: []stroke.PixelPoint{
				pp(0, 0, stroke.Start), pp(5, 0, stroke.Mid), pp(5, 5, stroke.End),
			},
			want: []Op{
				{Kind: "clear"},
				{Kind: "line", X0: 0, Y0: 0, X1: 5, Y1: 0},
				{Kind: "line", X0: 5, Y0: 0, X1: 5, Y1: 5},
			},
		},
		{
			name: "end terminates polyline",
			authoritative: []stroke.PixelPoint{
				pp(0, 0, stroke.Start), pp(1, 1, stroke.End),
				pp(9, 9, stroke.Start), pp(8, 8, stroke.End),
			},
			want: []Op{
				{Kind: "clear"},
				{Kind: "line", X0: 0, Y0: 0, X1: 1, Y1: 1},
				{Kind: "line", X0: 9, Y0: 9, X1: 8, Y1: 8},
			},
		},
		{
			name: "end joined to predecessor but not to successor",
			authoritative: []stroke.PixelPoint{
				pp(0, 0, stroke.Start), pp(1, 1, stroke.End),
				pp(4, 4, stroke.Mid), pp(5, 5, stroke.End),
			},
			want: []Op{
				{Kind: "clear"},
				{Kind: "line", X0: 0, Y0: 0, X1: 1, Y1: 1},
				{Kind: "line", X0: 4, Y0: 4, X1: 5, Y1: 5},
			},
		},
		{
			name: "local stroke drawn after list",
			authoritative: []stroke.PixelPoint{
				pp(0, 0, stroke.Start), pp(1, 1, stroke.End),
			},
			local: []stroke.PixelPoint{
				pp(4, 4, stroke.Start), pp(6, 6, stroke.Mid),
			},
			want: []Op{
				{Kind: "clear"},
				{Kind: "line", X0: 0, Y0: 0, X1: 1, Y1: 1},
				{Kind: "line", X0: 4, Y0: 4, X1: 6, Y1: 6},
			},
		},
		{
			name:  "lone start point is a dot",
			local: []stroke.PixelPoint{pp(3, 7, stroke.Start)},
			want: []Op{
				{Kind: "clear"},
				{Kind: "dot", X0: 3, Y0: 7, X1: 3, Y1: 7},
			},
		},
		{
			name: "lone end point is a dot",
			authoritative: []stroke.PixelPoint{
				pp(0, 0, stroke.Start), pp(2, 2, stroke.End), pp(5, 5, stroke.End),
			},
			want: []Op{
				{Kind: "clear"},
				{Kind: "line", X0: 0, Y0: 0, X1: 2, Y1: 2},
				{Kind: "dot", X0: 5, Y0: 5, X1: 5, Y1: 5},
			},
		},
		{
			name: "start without end opens new polyline",
			authoritative: []stroke.PixelPoint{
				pp(0, 0, stroke.Start), pp(1, 0, stroke.Mid),
				pp(7, 7, stroke.Start), pp(8, 7, stroke.End),
			},
			want: []Op{
				{Kind: "clear"},
				{Kind: "line", X0: 0, Y0: 0, X1: 1, Y1: 0},
				{Kind: "line", X0: 7, Y0: 7, X1: 8, Y1: 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec Recorder
			Render(&rec, tt.authoritative, tt.local)
			if !reflect.DeepEqual(rec.Ops, tt.want) {
				t.Fatalf("ops = %+v\nwant %+v", rec.Ops, tt.want)
			}
		})
	}
}

func TestRender_RepaintsFromScratch(t *testing.T) {
	var rec Recorder
	list := []stroke.PixelPoint{pp(0, 0, stroke.Start), pp(1, 1, stroke.End)}

	Render(&rec, list, nil)
	Render(&rec, list, nil)

	if got := rec.Count("clear"); got != 2 {
		t.Fatalf("clear count = %d, want 2", got)
	}
	if got := rec.Count("line"); got != 2 {
		t.Fatalf("line count = %d, want 2", got)
	}
}

func TestMarks(t *testing.T) {
	var rec Recorder
	Marks(&rec, []stroke.PixelPoint{pp(1, 2, stroke.Start), pp(3, 4, stroke.End)})
	if got := rec.Count("dot"); got != 2 {
		t.Fatalf("dot count = %d, want 2", got)
	}
}

func TestBraille_Dot(t *testing.T) {
	b := NewBraille(2, 1, 4, 4)
	b.Dot(0, 0)

	lines := b.Lines()
	if len(lines) != 1 {
		t.Fatalf("rows = %d, want 1", len(lines))
	}
	if lines[0] != "⠁ " {
		t.Fatalf("row = %q, want %q", lines[0], "⠁ ")
	}

	b.Clear()
	if got := b.Lines()[0]; got != "  " {
		t.Fatalf("after Clear row = %q, want blanks", got)
	}
}

func TestBraille_Lines(t *testing.T) {
	b := NewBraille(2, 1, 4, 4)
	b.Line(0, 0, 3, 0)
	if got := b.Lines()[0]; got != "⠉⠉" {
		t.Fatalf("horizontal = %q, want %q", got, "⠉⠉")
	}

	v := NewBraille(1, 1, 2, 4)
	v.Line(0, 3, 0, 0)
	if got := v.Lines()[0]; got != "⡇" {
		t.Fatalf("vertical = %q, want %q", got, "⡇")
	}
}

func TestBraille_ClipsOutOfRange(t *testing.T) {
	b := NewBraille(1, 1, 10, 10)
	b.Dot(-50, 5)
	b.Dot(500, 5)
	b.Line(20, 20, 30, 30)
	if got := b.Lines()[0]; got != " " {
		t.Fatalf("row = %q, want blank", got)
	}
}

func TestBraille_CellAt(t *testing.T) {
	b := NewBraille(10, 5, 650, 650)
	x, y := b.CellAt(0, 0)
	if x != 32.5 || y != 65 {
		t.Fatalf("CellAt(0,0) = %v,%v, want 32.5,65", x, y)
	}
	if cols, rows := b.Size(); cols != 10 || rows != 5 {
		t.Fatalf("Size = %d,%d", cols, rows)
	}
}

func TestExportPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.pdf")
	list := []stroke.PixelPoint{
		pp(0, 0, stroke.Start), pp(650, 650, stroke.End),
		pp(100, 100, stroke.Start), pp(100, 100, stroke.End),
	}

	if err := ExportPDF(path, stroke.Canvas{Width: 650, Height: 650}, list, nil); err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", data[:min(len(data), 8)])
	}
}

func TestExportPDF_InvalidCanvas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.pdf")
	if err := ExportPDF(path, stroke.Canvas{}, nil, nil); err == nil {
		t.Fatalf("expected error for zero canvas")
	}
}

func TestBrailleCell(t *testing.T) {
	b := NewBraille(2, 1, 4, 4)
	b.Dot(0, 0)

	if r, ok := b.Cell(0, 0); !ok || r != '⠁' {
		t.Fatalf("Cell(0,0) = %q, %v; want %q, true", r, ok, '⠁')
	}
	if r, ok := b.Cell(1, 0); ok || r != ' ' {
		t.Fatalf("Cell(1,0) = %q, %v; want space, false", r, ok)
	}
	if _, ok := b.Cell(5, 5); ok {
		t.Fatalf("Cell outside the grid reported a dot")
	}
}
