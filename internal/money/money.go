// Package money formats storefront amounts for humans.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale is the locale prices are displayed in.
var Locale = language.MustParse("es-CO")

// Format renders amount with a leading "$" and Colombian digit grouping,
// e.g. "$90.000".
func Format(amount decimal.Decimal) string {
	p := message.NewPrinter(Locale)
	f, _ := amount.Round(2).Float64()
	return "$" + p.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}
