// Package format renders dates and money for display.
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = "EUR"

const dateLayout = "Jan 02, 2006, 03:04 PM"

// Date formats t in loc, e.g. "Mar 15, 2024, 02:30 PM".
func Date(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	return t.In(loc).Format(dateLayout)
}

// Amount returns the absolute value of d with two decimals and
// thousands grouping, e.g. "1,234.50".
func Amount(d decimal.Decimal) string {
	return AmountIn(language.English, d)
}

// AmountIn is Amount with the grouping and decimal separators of tag.
func AmountIn(tag language.Tag, d decimal.Decimal) string {
	return message.NewPrinter(tag).Sprintf("%.2f", d.Abs().Round(2).InexactFloat64())
}

// Currency formats the absolute value of d with the symbol of the
// ISO 4217 currency code, e.g. "€1,234.50".
func Currency(d decimal.Decimal, code string) (string, error) {
	return CurrencyIn(language.English, d, code)
}

// CurrencyIn is Currency localized for tag.
func CurrencyIn(tag language.Tag, d decimal.Decimal, code string) (string, error) {
	if code == "" {
		code = DefaultCurrency
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", err
	}

	symbol := message.NewPrinter(tag).Sprint(currency.Symbol(unit))
	return symbol + AmountIn(tag, d), nil
}
