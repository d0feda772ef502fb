package export_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/pawnbook/internal/export"
	"github.com/MrJamesThe3rd/pawnbook/internal/report"
	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
)

var (
	from = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
)

func classification() report.Classification {
	txs := []*transaction.Transaction{
		{
			Type: transaction.TypeLoanIssuance, InvoiceNumber: "INV-000001", CustomerNIC: "123456789V",
			SubTotal: decimal.NewFromInt(5000), InterestAmount: decimal.NewFromInt(250), TotalAmount: decimal.NewFromInt(5250),
			CreatedAt: from.AddDate(0, 0, 2),
		},
		{
			Type: transaction.TypeInstallmentPayment, InvoiceNumber: "INV-000002", CustomerNIC: "123456789V",
			SubTotal: decimal.RequireFromString("999.4"), TotalAmount: decimal.RequireFromString("999.4"),
			CreatedAt: from.AddDate(0, 0, 5),
		},
		{
			Type: transaction.TypeInstallmentPayment, InvoiceNumber: "INV-000003", CustomerNIC: "987654321V",
			SubTotal: decimal.RequireFromString("500.1"), TotalAmount: decimal.RequireFromString("500.1"),
			CreatedAt: from.AddDate(0, 0, 6),
		},
		{
			Type: transaction.TypeLoanClosure, InvoiceNumber: "INV-000004", CustomerNIC: "987654321V",
			SubTotal: decimal.NewFromInt(700), TotalAmount: decimal.NewFromInt(700),
			CreatedAt: from.AddDate(0, 0, 7),
		},
	}

	return report.Classify(txs, from, to)
}

func TestGenerateSummary(t *testing.T) {
	body := export.GenerateSummary(classification())

	assert.Contains(t, body, "Transactions 2024-03-01 to 2024-04-01\n")
	assert.Contains(t, body, "Loan issuance: 1, sub total 5000.00\n")
	assert.Contains(t, body, "Installment payments: 2, total 1500.00\n")
	assert.Contains(t, body, "All transactions: 4\n")
	assert.Contains(t, body, "* 2024-03-03 | INV-000001 | 123456789V | loan_issuance | 5000.00 | 250.00 | 5250.00\n")
	assert.Contains(t, body, "* 2024-03-08 | INV-000004 | 987654321V | loan_closure | 700.00 | 0.00 | 700.00\n")
}

func TestGenerateSummary_OpenRange(t *testing.T) {
	body := export.GenerateSummary(report.Classify(nil, time.Time{}, time.Time{}))

	assert.True(t, strings.HasPrefix(body, "Transactions beginning to now\n"))
	assert.Contains(t, body, "All transactions: 0\n")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, classification()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer f.Close()

	assert.Equal(t, []string{"Loan Issuance", "Installments", "All"}, f.GetSheetList())

	rows, err := f.GetRows("Installments")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "INV-000002", rows[1][1])
	assert.Equal(t, "Total", rows[3][0])

	total, err := f.GetCellValue("Installments", "F4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1500", total)

	issuance, err := f.GetRows("Loan Issuance")
	require.NoError(t, err)
	require.Len(t, issuance, 3)
	assert.Equal(t, "Sub total", issuance[2][0])

	subTotal, err := f.GetCellValue("Loan Issuance", "D3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "5000", subTotal)

	beside, err := f.GetCellValue("Loan Issuance", "F3")
	require.NoError(t, err)
	assert.Empty(t, beside)

	all, err := f.GetRows("All")
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "Type", all[0][6])
	assert.Equal(t, "loan_closure", all[4][6])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WritePDF(&buf, classification()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

type stubSummarizer struct {
	c   report.Classification
	err error
}

func (s stubSummarizer) Summarize(context.Context, time.Time, time.Time) (report.Classification, error) {
	return s.c, s.err
}

func TestService_Export(t *testing.T) {
	svc := export.NewService(stubSummarizer{c: classification()})

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf, export.FormatText, from, to))
	assert.Contains(t, buf.String(), "Installment payments: 2")

	err := svc.Export(context.Background(), &buf, export.Format("csv"), from, to)
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestService_Export_SummarizeError(t *testing.T) {
	boom := errors.New("boom")
	svc := export.NewService(stubSummarizer{err: boom})

	err := svc.Export(context.Background(), &bytes.Buffer{}, export.FormatPDF, from, to)
	assert.ErrorIs(t, err, boom)
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)

	_, err = export.ParseFormat("doc")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "transactions_20240301_20240401.pdf", export.Filename(export.FormatPDF, from, to))
	assert.Equal(t, "transactions.txt", export.Filename(export.FormatText, time.Time{}, time.Time{}))
}
