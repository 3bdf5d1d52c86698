package render

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/five82/penplot/internal/stroke"
)

const (
	pdfMargin    = 10.0 // mm
	pdfLineWidth = 0.5  // mm
	pdfDotRadius = 0.4  // mm
)

// pdfPainter draws onto a single A4 page, scaling the logical canvas to fit
// inside the margins while keeping its aspect ratio.
type pdfPainter struct {
	doc   *gofpdf.Fpdf
	scale float64
}

func (p *pdfPainter) Clear() {}

func (p *pdfPainter) Line(x0, y0, x1, y1 int) {
	p.doc.Line(p.mm(x0), p.mm(y0), p.mm(x1), p.mm(y1))
}

func (p *pdfPainter) Dot(x, y int) {
	p.doc.Circle(p.mm(x), p.mm(y), pdfDotRadius, "F")
}

func (p *pdfPainter) mm(v int) float64 {
	return pdfMargin + float64(v)*p.scale
}

// ExportPDF writes the canvas as it is currently displayed to path.
func ExportPDF(path string, canvas stroke.Canvas, authoritative, local []stroke.PixelPoint) error {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return fmt.Errorf("export pdf: invalid canvas %vx%v", canvas.Width, canvas.Height)
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetDrawColor(0, 0, 0)
	doc.SetFillColor(0, 0, 0)
	doc.SetLineWidth(pdfLineWidth)
	doc.SetLineCapStyle("round")

	pageW, pageH := doc.GetPageSize()
	scale := (pageW - 2*pdfMargin) / float64(canvas.Width)
	if s := (pageH - 2*pdfMargin) / float64(canvas.Height); s < scale {
		scale = s
	}

	Render(&pdfPainter{doc: doc, scale: scale}, authoritative, local)

	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export pdf %s: %w", path, err)
	}
	return nil
}
