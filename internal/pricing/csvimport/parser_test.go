package csvimport_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	enc "github.com/MrJamesThe3rd/pawnbook/internal/encoding"
	"github.com/MrJamesThe3rd/pawnbook/internal/pricing/csvimport"
)

func TestParser_CounterLayout(t *testing.T) {
	csv := `Gold loan rates;March 2024

Karat;Loan Period;Price
22K;6;18.500,00
22K;12 months;17.250,50
24K;6;20000

`

	sheet, err := csvimport.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "counter", sheet.Profile)
	assert.Equal(t, enc.UTF8, sheet.Charset)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "22K", sheet.Rows[0].Karat)
	assert.Equal(t, 6, sheet.Rows[0].Months)
	assert.True(t, sheet.Rows[0].Price.Equal(decimal.NewFromInt(18500)))

	assert.Equal(t, 12, sheet.Rows[1].Months)
	assert.True(t, sheet.Rows[1].Price.Equal(decimal.RequireFromString("17250.50")))

	assert.True(t, sheet.Rows[2].Price.Equal(decimal.NewFromInt(20000)))
}

func TestParser_RateCardLayout_CommaSeparated(t *testing.T) {
	csv := "purity,months,rate\n18K,3,\"12,400.75\"\n"

	sheet, err := csvimport.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "rate card", sheet.Profile)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "18K", sheet.Rows[0].Karat)
	assert.True(t, sheet.Rows[0].Price.Equal(decimal.RequireFromString("12400.75")))
}

func TestParser_Windows1252(t *testing.T) {
	content := "Karat;Loan Period;Price\nOr pur é;6;100,50\n"

	encoded, err := charmap.Windows1252.NewEncoder().String(content)
	require.NoError(t, err)

	sheet, err := csvimport.NewParser().Parse(bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)

	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "Or pur é", sheet.Rows[0].Karat)
	assert.NotEqual(t, enc.UTF8, sheet.Charset)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			name:    "UnknownLayout",
			csv:     "Date;Description;Amount\n01-01-2024;x;1\n",
			wantErr: "no matching pricing layout",
		},
		{
			name:    "MissingKarat",
			csv:     "Karat;Loan Period;Price\n;6;100\n",
			wantErr: "line 2: missing karat",
		},
		{
			name:    "BadPeriod",
			csv:     "Karat;Loan Period;Price\n22K;six;100\n",
			wantErr: "invalid loan period",
		},
		{
			name:    "BadPrice",
			csv:     "Karat;Loan Period;Price\n22K;6;abc\n",
			wantErr: "invalid price",
		},
		{
			name:    "NonPositivePrice",
			csv:     "Karat;Loan Period;Price\n22K;6;0\n",
			wantErr: "price must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := csvimport.NewParser().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
