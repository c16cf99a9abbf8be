package report

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	notAvailable = "n/a"
	never        = "never"
)

// Round2 rounds to cents, halves away from zero. Values are rounded from their
// shortest decimal representation, so 1.005 becomes 1.01.
func Round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Money formats v as dollars with thousands separators, e.g. -$1,234.50.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	d := Round2(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	whole, cents := s[:len(s)-3], s[len(s)-2:]
	return sign + "$" + group(whole) + "." + cents
}

// Percent formats a whole-number percent, e.g. 5.12%. NaN is "n/a".
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return Round2(v).StringFixed(2) + "%"
}

// Ratio formats a plain multiple such as DSCR or GRM.
func Ratio(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return Round2(v).StringFixed(2) + "x"
}

// Years formats a payback period; +Inf is "never".
func Years(v float64) string {
	if math.IsInf(v, 1) {
		return never
	}
	if math.IsNaN(v) {
		return notAvailable
	}
	return Round2(v).StringFixed(2) + " yrs"
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
