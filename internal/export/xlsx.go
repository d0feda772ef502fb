package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/pawnbook/internal/report"
)

var header = []string{"Date", "Invoice", "Customer NIC", "Sub Total", "Interest", "Total"}

// totalColumn is the header index of the amount a bucket total sums.
func totalColumn(b report.Basis) int {
	if b == report.BasisSubTotal {
		return 3
	}

	return len(header) - 1
}

// moneyFormat is excelize's built-in "#,##0.00".
const moneyFormat = 4

func rowValues(r report.Row) []any {
	return []any{
		r.Date.Format(time.DateOnly),
		r.InvoiceNumber,
		r.CustomerNIC,
		r.SubTotal.InexactFloat64(),
		r.InterestAmount.InexactFloat64(),
		r.TotalAmount.InexactFloat64(),
	}
}

// WriteXLSX writes one sheet per bucket, each ending in a total row, plus an "All" sheet
// that also names each transaction's type.
func WriteXLSX(w io.Writer, c report.Classification) error {
	f := excelize.NewFile()
	defer f.Close()

	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	buckets := []struct {
		name   string
		bucket report.Bucket
	}{
		{"Loan Issuance", c.Issuance},
		{"Installments", c.Installment},
	}

	for i, b := range buckets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", b.name); err != nil {
				return fmt.Errorf("naming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(b.name); err != nil {
			return fmt.Errorf("adding sheet: %w", err)
		}

		if err := writeSheet(f, b.name, header, b.bucket.Rows, rowValues, money, bold); err != nil {
			return err
		}

		totalRow := len(b.bucket.Rows) + 2

		cell, _ := excelize.CoordinatesToCellName(1, totalRow)
		if err := f.SetSheetRow(b.name, cell, &[]any{b.bucket.Basis.Label()}); err != nil {
			return fmt.Errorf("writing total: %w", err)
		}

		cell, _ = excelize.CoordinatesToCellName(totalColumn(b.bucket.Basis)+1, totalRow)
		if err := f.SetCellValue(b.name, cell, b.bucket.Total.InexactFloat64()); err != nil {
			return fmt.Errorf("writing total: %w", err)
		}

		if err := f.SetRowStyle(b.name, totalRow, totalRow, bold); err != nil {
			return fmt.Errorf("styling total: %w", err)
		}
	}

	if _, err := f.NewSheet("All"); err != nil {
		return fmt.Errorf("adding sheet: %w", err)
	}

	allHeader := append(append([]string{}, header...), "Type")
	allValues := func(r report.Row) []any {
		return append(rowValues(r), r.Type.String())
	}

	if err := writeSheet(f, "All", allHeader, c.All, allValues, money, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows []report.Row, values func(report.Row) []any, money, bold int) error {
	if err := f.SetColStyle(sheet, "D:F", money); err != nil {
		return fmt.Errorf("styling amounts: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "G", 16); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}

	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)

		vals := values(r)
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	return nil
}
