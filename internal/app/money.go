package app

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrencySymbol prefixes every rendered amount unless configured otherwise.
const DefaultCurrencySymbol = "₹"

// moneyFormat renders amounts with thousands grouping and two decimals, e.g. ₹4,280,000.00.
type moneyFormat struct {
	symbol  string
	printer *message.Printer
}

func newMoneyFormat(symbol string) moneyFormat {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return moneyFormat{symbol: symbol, printer: message.NewPrinter(language.English)}
}

// format works on the decimal digits only; amounts never pass through float64.
func (m moneyFormat) format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	whole, frac, _ := strings.Cut(rounded.StringFixed(2), ".")
	return sign + m.symbol + m.group(whole) + "." + frac
}

// group inserts thousands separators into a string of digits.
func (m moneyFormat) group(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return m.printer.Sprint(number.Decimal(n))
	}
	// Past int64 the digits are grouped by hand.
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
