// Package pricing extracts unit prices from menu label text and formats
// shilling amounts for display.
package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyMarker is the currency suffix used on the menu.
const CurrencyMarker = "Ksh"

var (
	dashReplacer = strings.NewReplacer("—", "-", "–", "-")

	// A number directly followed by the currency marker, e.g. "50 Ksh" or
	// "1,200Ksh". Separators inside the number are allowed and dropped.
	currencyPattern = regexp.MustCompile(`(?i)(\d[\d,]*)\s*` + CurrencyMarker)

	printer = message.NewPrinter(language.English)
)

// ParsePrice extracts the price written after the first dash of a label,
// e.g. "Large - 450 Ksh" gives 450. Em and en dashes count as dashes.
//
// Only the segment between the first dash and the next one is read, and every
// non-digit in it is discarded. A label without a dash, or without digits in
// that segment, gives 0.
func ParsePrice(text string) int {
	if text == "" {
		return 0
	}
	parts := strings.Split(dashReplacer.Replace(text), "-")
	if len(parts) < 2 {
		return 0
	}
	return digitsOf(parts[1])
}

// ParseCurrencyPrice extracts the first number followed by the currency
// marker from arbitrary text, e.g. "Chapati, soft and layered 50 Ksh" gives
// 50. Text without such a number gives 0.
func ParseCurrencyPrice(text string) int {
	m := currencyPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return digitsOf(m[1])
}

// LabelPrice reads a label with ParsePrice and falls back to
// ParseCurrencyPrice when the label has no dash price.
func LabelPrice(text string) int {
	if p := ParsePrice(text); p != 0 {
		return p
	}
	return ParseCurrencyPrice(text)
}

// FormatShillings renders an amount with thousands grouping, e.g. 1250 as
// "1,250".
func FormatShillings(n int) string {
	return printer.Sprintf("%d", n)
}

func digitsOf(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		// Overflowing digit runs are unparseable, same as no digits.
		return 0
	}
	return n
}
