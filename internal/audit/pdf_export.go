package audit

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders an entity's transition history as a PDF table.
type PDFExporter struct {
	title string
}

// NewPDFExporter creates an exporter with a report title.
func NewPDFExporter(title string) *PDFExporter {
	if title == "" {
		title = "Transition History"
	}
	return &PDFExporter{title: title}
}

// Export writes the history of one entity as a landscape A4 PDF.
func (e *PDFExporter) Export(w io.Writer, entries []Entry) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, e.title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Timestamp", "Actor Role", "Action", "From", "To", "Comment"}
	widths := []float64{35, 40, 28, 38, 38, 88}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for _, entry := range entries {
		pdf.SetFillColor(242, 242, 242)
		row := []string{
			entry.Timestamp.Format("2006-01-02 15:04"),
			entry.ActorRole,
			entry.Action,
			entry.FromStatus,
			entry.ToStatus,
			entry.Comment,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render audit history PDF: %w", err)
	}
	return nil
}
