// Package units converts declared statement units and raw magnitudes into
// display figures.
package units

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// perT maps a declared unit to how many of that unit make one displayed "T".
// Statements declared in "million" are shown in thousands of millions.
var perT = map[string]decimal.Decimal{
	"unit":     decimal.New(1, 9),
	"thousand": decimal.New(1, 6),
	"million":  decimal.New(1, 3),
	"billion":  decimal.New(1, 0),
	"trillion": decimal.New(1, -3),
}

var printer = message.NewPrinter(language.English)

// NormalizeUnit lower-cases a declared unit and strips a plural suffix.
// An empty unit is treated as "million".
func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		return "million"
	}
	if u == "units" || u == "ones" || u == "one" {
		return "unit"
	}
	return strings.TrimSuffix(u, "s")
}

// TDivisor returns the divisor converting a value in the declared unit to
// "T" figures. Unknown units fall back to million and report ok=false.
func TDivisor(unit string) (decimal.Decimal, bool) {
	d, ok := perT[NormalizeUnit(unit)]
	if !ok {
		return perT["million"], false
	}
	return d, true
}

// ToT converts v, expressed in unit, to "T" figures.
func ToT(v float64, unit string) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	d, _ := TDivisor(unit)
	return decimal.NewFromFloat(v).Div(d).InexactFloat64()
}

// StatementValue renders a statement magnitude as "<currency> 1,234.5T".
func StatementValue(currency string, v float64, unit string) string {
	return fmt.Sprintf("%s %sT", currency, Grouped(ToT(v, unit), 1))
}

// Grouped formats v with English thousands separators and a fixed number of
// decimals.
func Grouped(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// Human formats a metric value with a K/M/B/T suffix when its magnitude is at
// least one thousand, otherwise as a decimal with at most four places and no
// trailing zeros. NaN and infinities render as an empty string.
func Human(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ""
	}
	d := decimal.NewFromFloat(x)
	switch a := math.Abs(x); {
	case a >= 1e12:
		return d.Shift(-12).StringFixed(2) + "T"
	case a >= 1e9:
		return d.Shift(-9).StringFixed(2) + "B"
	case a >= 1e6:
		return d.Shift(-6).StringFixed(2) + "M"
	case a >= 1e3:
		return d.Shift(-3).StringFixed(2) + "K"
	}
	s := d.StringFixed(4)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// AutoScale picks a display scale for a series from its largest absolute
// value: trillions, billions, millions, or none.
func AutoScale(maxAbs float64) (float64, string) {
	switch {
	case maxAbs >= 1e12:
		return 1e12, "T"
	case maxAbs >= 1e9:
		return 1e9, "B"
	case maxAbs >= 1e6:
		return 1e6, "M"
	}
	return 1, ""
}
