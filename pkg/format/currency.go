// Package format renders monetary amounts for statement cells.
package format

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/finmodeler/statement-forge/pkg/constants"
)

// Currency renders an amount with the symbol of the given ISO 4217 code and a
// fixed number of decimals, grouping thousands (e.g. "-$1,234.56", "¥1,235").
// A negative decimals value falls back to the code's minor-unit convention.
// Unknown codes fall back to the default currency.
func Currency(amount float64, code string, decimals int) string {
	if decimals < 0 {
		decimals = Decimals(code)
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	p := message.NewPrinter(language.English)
	return sign + Symbol(code) + p.Sprintf(fmt.Sprintf("%%.%df", decimals), amount)
}

// Symbol returns the display symbol for an ISO 4217 code ("$" for USD).
func Symbol(code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(constants.DefaultCurrencyCode)
	}
	return cur.Grapheme
}

// Decimals returns the number of minor-unit digits conventionally shown for
// the given ISO 4217 code (2 for USD, 0 for JPY).
func Decimals(code string) int {
	cur := money.GetCurrency(code)
	if cur == nil {
		return constants.DefaultDecimals
	}
	return cur.Fraction
}
