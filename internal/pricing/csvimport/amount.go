package csvimport

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parsePrice accepts both "18.500,00" and "18,500.00" style figures. A lone comma is a
// decimal separator.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	clean := s

	switch {
	case lastComma > lastDot:
		clean = strings.ReplaceAll(s, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case lastComma >= 0:
		clean = strings.ReplaceAll(s, ",", "")
	}

	return decimal.NewFromString(clean)
}
