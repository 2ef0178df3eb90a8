package perfolio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a display-boundary return value, e.g. 5.0 for +5%.
// It is the only place where decimal values degrade to binary float.
type Percent float64

// percentOf converts a decimal growth ratio (e.g. 1.05) to a Percent (+5%).
func percentOf(ratio decimal.Decimal) Percent {
	return Percent(100 * (ratio.InexactFloat64() - 1))
}

// Equal compares two percents with a fixed display precision.
func (p Percent) Equal(q Percent) bool {
	const precision = 0.0001
	diff := float64(p - q)
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", p) }

// SignedString renders the percent with an explicit sign, and "-" for zero.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
