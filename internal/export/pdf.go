package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/MrJamesThe3rd/pawnbook/internal/report"
)

var pdfWidths = []float64{35, 40, 50, 45, 45, 45}

// WritePDF renders a landscape A4 report with one table per bucket.
func WritePDF(w io.Writer, c report.Classification) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Transaction Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, rangeLabel(c), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdfTable(pdf, "Loan Issuance", c.Issuance)
	pdfTable(pdf, "Installments", c.Installment)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("All transactions in range: %d", len(c.All)), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}

	return nil
}

func pdfTable(pdf *gofpdf.Fpdf, title string, b report.Bucket) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)

	for i, h := range header {
		pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, align(i), true, 0, "")
	}

	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)

	for _, r := range b.Rows {
		cells := []string{
			r.Date.Format(time.DateOnly),
			r.InvoiceNumber,
			r.CustomerNIC,
			r.SubTotal.StringFixed(2),
			r.InterestAmount.StringFixed(2),
			r.TotalAmount.StringFixed(2),
		}

		for i, s := range cells {
			pdf.CellFormat(pdfWidths[i], 6, s, "1", 0, align(i), false, 0, "")
		}

		pdf.Ln(-1)
	}

	col := totalColumn(b.Basis)

	var labelWidth float64
	for _, wd := range pdfWidths[:col] {
		labelWidth += wd
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(labelWidth, 7, b.Basis.Label(), "1", 0, "R", false, 0, "")
	pdf.CellFormat(pdfWidths[col], 7, b.Total.StringFixed(2), "1", 0, "R", false, 0, "")

	for _, wd := range pdfWidths[col+1:] {
		pdf.CellFormat(wd, 7, "", "1", 0, "R", false, 0, "")
	}

	pdf.Ln(-1)
	pdf.Ln(4)
}

func align(col int) string {
	if col >= 3 {
		return "R"
	}

	return "L"
}
