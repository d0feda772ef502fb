// Package csvimport reads pricing sheets exported from spreadsheets.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/pawnbook/internal/encoding"
)

// Row is one price from a sheet.
type Row struct {
	Line   int
	Karat  string
	Months int
	Price  decimal.Decimal
}

// Sheet is a parsed pricing file.
type Sheet struct {
	Profile string
	Charset enc.Charset
	Rows    []Row
}

// Parser reads pricing CSVs of any known layout, in any of the supported charsets,
// separated by semicolons or commas.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*Sheet, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.Comma = separator(string(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching pricing layout found: expected Karat;Loan Period;Price or Purity;Months;Rate")
	}

	parsed, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	if err != nil {
		return nil, err
	}

	return &Sheet{Profile: profile.Name, Charset: charset, Rows: parsed}, nil
}

// separator picks ';' unless the first line has none.
func separator(content string) rune {
	first, _, _ := strings.Cut(content, "\n")
	if strings.Contains(first, ";") {
		return ';'
	}

	return ','
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[strings.ToLower(name)]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips blank lines. Any other malformed row fails the whole sheet so a
// half-imported price list never reaches the counter.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]Row, error) {
	karatIdx := cols[strings.ToLower(p.KaratCol)]
	periodIdx := cols[strings.ToLower(p.PeriodCol)]
	priceIdx := cols[strings.ToLower(p.PriceCol)]

	var out []Row

	for i, row := range rows {
		line := headerRowNum + i + 1

		karat := cellValue(row, karatIdx)
		period := cellValue(row, periodIdx)
		price := cellValue(row, priceIdx)

		if karat == "" && period == "" && price == "" {
			continue
		}

		if karat == "" {
			return nil, fmt.Errorf("line %d: missing karat", line)
		}

		months, err := parseMonths(period)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		amount, err := parsePrice(price)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid price %q", line, price)
		}

		if !amount.IsPositive() {
			return nil, fmt.Errorf("line %d: price must be positive", line)
		}

		out = append(out, Row{Line: line, Karat: karat, Months: months, Price: amount})
	}

	return out, nil
}

// parseMonths accepts "6" as well as "6 months".
func parseMonths(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing loan period")
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid loan period %q", s)
	}

	return n, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
