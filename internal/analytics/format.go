package analytics

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatUSD renders an amount as whole dollars with thousands separators, e.g. "$8,000".
func FormatUSD(amount float64) string {
	rounded := math.Round(amount)
	if rounded == 0 {
		return "$0"
	}
	if rounded < 0 {
		return "-$" + printer.Sprintf("%.0f", -rounded)
	}
	return "$" + printer.Sprintf("%.0f", rounded)
}

// FormatShare renders a fraction as a percentage with one decimal, e.g. "46.3%".
func FormatShare(share float64) string {
	return printer.Sprintf("%.1f%%", share*100)
}
