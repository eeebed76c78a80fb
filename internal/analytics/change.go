package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PercentageChange formats the relative change from open to close as a
// sign-preserving two-decimal percentage string. A zero open saturates at
// "100.00" ("0.00" when close is also zero), so the result is always finite.
func PercentageChange(open, close decimal.Decimal) string {
	switch {
	case open.IsZero() && close.IsZero():
		return "0.00"
	case open.IsZero():
		return "100.00"
	}
	return close.Sub(open).Div(open).Mul(hundred).StringFixed(2)
}
