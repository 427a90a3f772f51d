package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin       = 30.0
	pdfBottomLimit  = 40.0
	pdfHeaderHeight = 20.0
	pdfRowPadding   = 4.0
	pdfLineHeight   = 10.0
	pdfNewPageTop   = 50.0
	pdfFontSize     = 8.0
	pdfEmptyMessage = "No data for report"
)

// PDFRenderer draws an A4 portrait table. Without FontPath the core
// Helvetica font is used, which covers Latin-1 only; set FontPath to a UTF-8
// TrueType font to render Cyrillic names.
type PDFRenderer struct {
	FontPath string
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{FontPath: fontPath}
}

func (r *PDFRenderer) Extension() string {
	return "pdf"
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (r *PDFRenderer) Render(t Table) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)

	family := "Helvetica"
	text := pdf.UnicodeTranslatorFromDescriptor("")
	if r.FontPath != "" {
		family = "Report"
		pdf.AddUTF8Font(family, "", r.FontPath)
		pdf.AddUTF8Font(family, "B", r.FontPath)
		text = func(s string) string { return s }
	}

	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMargin

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(usable, 24, text("Report: "+t.Title), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont(family, "", 12)
	pdf.CellFormat(usable, 16, text("Generated: "+t.GeneratedAt.Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	if len(t.Rows) == 0 || len(t.Headers) == 0 {
		pdf.CellFormat(usable, 16, text(pdfEmptyMessage), "", 1, "C", false, 0, "")
		return output(pdf)
	}

	colWidth := usable / float64(len(t.Headers))
	y := pdf.GetY() + 10

	drawHeader := func() {
		pdf.SetFont(family, "B", pdfFontSize)
		pdf.SetFillColor(240, 240, 240)
		for i, header := range t.Headers {
			x := pdfMargin + float64(i)*colWidth
			pdf.Rect(x, y, colWidth, pdfHeaderHeight, "FD")
			pdf.SetXY(x+2, y+pdfRowPadding)
			pdf.MultiCell(colWidth-4, pdfLineHeight, text(header), "", "L", false)
		}
		y += pdfHeaderHeight
		pdf.SetFont(family, "", pdfFontSize)
	}
	drawHeader()

	for rowIndex, row := range t.Rows {
		cells := make([]string, len(t.Headers))
		rowHeight := 0.0
		for i := range t.Headers {
			cells[i] = "—"
			if i < len(row) && row[i] != "" {
				cells[i] = row[i]
			}
			lines := pdf.SplitLines([]byte(text(cells[i])), colWidth-4)
			if h := float64(len(lines))*pdfLineHeight + 2*pdfRowPadding; h > rowHeight {
				rowHeight = h
			}
		}

		if y+rowHeight > pageHeight-pdfBottomLimit {
			pdf.AddPage()
			y = pdfNewPageTop
			drawHeader()
		}

		if rowIndex%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(249, 249, 249)
		}
		for i, cell := range cells {
			x := pdfMargin + float64(i)*colWidth
			pdf.Rect(x, y, colWidth, rowHeight, "FD")
			pdf.SetXY(x+2, y+pdfRowPadding)
			pdf.MultiCell(colWidth-4, pdfLineHeight, text(cell), "", "L", false)
		}
		y += rowHeight
	}

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf, nil
}
