package services

import (
	"strconv"

	"github.com/dustin/go-humanize"
)

// CurrencySymbol prefixes formatted currency amounts.
const CurrencySymbol = "$"

// FormatCurrency formats an amount with thousands separators and exactly
// 2 decimal places, e.g. $1,234.50 or -$20.00.
func FormatCurrency(amount float64) string {
	return FormatCurrencyWith(CurrencySymbol, amount)
}

// FormatCurrencyWith is FormatCurrency with a caller-provided symbol.
func FormatCurrencyWith(symbol string, amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	result := symbol + humanize.FormatFloat("#,###.##", amount)
	if negative && result != symbol+"0.00" {
		result = "-" + result
	}
	return result
}

// FormatPercent renders a percentage with the precision the value carries:
// 10 -> "10%", 12.5 -> "12.5%".
func FormatPercent(pct float64) string {
	return formatPlainNumber(pct) + "%"
}

// FormatDays renders a day count in its shortest decimal form.
func FormatDays(days float64) string {
	return formatPlainNumber(days)
}

func formatPlainNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
