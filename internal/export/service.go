package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pawnbook/internal/report"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Format is an output format for the transaction report.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatText Format = "txt"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatPDF, FormatText:
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}

	return "text/plain; charset=utf-8"
}

type Summarizer interface {
	Summarize(ctx context.Context, from, to time.Time) (report.Classification, error)
}

// Service renders the transaction report into downloadable files.
type Service struct {
	reports Summarizer
}

func NewService(reports Summarizer) *Service {
	return &Service{reports: reports}
}

// Export writes the report for [from, to) to w.
func (s *Service) Export(ctx context.Context, w io.Writer, format Format, from, to time.Time) error {
	c, err := s.reports.Summarize(ctx, from, to)
	if err != nil {
		return err
	}

	return Write(w, format, c)
}

// Write renders an already classified report.
func Write(w io.Writer, format Format, c report.Classification) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, c)
	case FormatPDF:
		return WritePDF(w, c)
	case FormatText:
		_, err := io.WriteString(w, GenerateSummary(c))
		return err
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Filename builds e.g. "transactions_20240301_20240401.xlsx". Open bounds are left out.
func Filename(format Format, from, to time.Time) string {
	parts := []string{"transactions"}

	if !from.IsZero() {
		parts = append(parts, from.Format("20060102"))
	}

	if !to.IsZero() {
		parts = append(parts, to.Format("20060102"))
	}

	return strings.Join(parts, "_") + "." + string(format)
}

func rangeLabel(c report.Classification) string {
	from, to := "beginning", "now"

	if !c.From.IsZero() {
		from = c.From.Format(time.DateOnly)
	}

	if !c.To.IsZero() {
		to = c.To.Format(time.DateOnly)
	}

	return fmt.Sprintf("%s to %s", from, to)
}

// GenerateSummary creates a plain text version of the report.
func GenerateSummary(c report.Classification) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Transactions %s\n", rangeLabel(c))
	for _, b := range []struct {
		title  string
		bucket report.Bucket
	}{
		{"Loan issuance", c.Issuance},
		{"Installment payments", c.Installment},
	} {
		fmt.Fprintf(&sb, "%s: %d, %s %s\n", b.title, len(b.bucket.Rows),
			strings.ToLower(b.bucket.Basis.Label()), b.bucket.Total.StringFixed(2))
	}

	fmt.Fprintf(&sb, "All transactions: %d\n", len(c.All))

	if len(c.All) > 0 {
		sb.WriteString("\n")
	}

	for _, row := range c.All {
		fmt.Fprintf(&sb, "* %s | %s | %s | %s | %s | %s | %s\n",
			row.Date.Format(time.DateOnly), row.InvoiceNumber, row.CustomerNIC, row.Type,
			row.SubTotal.StringFixed(2), row.InterestAmount.StringFixed(2), row.TotalAmount.StringFixed(2))
	}

	return sb.String()
}
