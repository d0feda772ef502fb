package csvimport

// Profile describes the column layout of a pricing sheet. Adding a new layout is just
// adding a Profile to the profiles slice.
type Profile struct {
	Name      string
	KaratCol  string
	PeriodCol string
	PriceCol  string
}

func (p Profile) requiredCols() []string {
	return []string{p.KaratCol, p.PeriodCol, p.PriceCol}
}

// profiles is tried in order during auto-detection.
var profiles = []Profile{
	{
		Name:      "counter",
		KaratCol:  "Karat",
		PeriodCol: "Loan Period",
		PriceCol:  "Price",
	},
	{
		Name:      "rate card",
		KaratCol:  "Purity",
		PeriodCol: "Months",
		PriceCol:  "Rate",
	},
}
