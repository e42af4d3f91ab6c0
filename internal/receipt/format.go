package receipt

import (
	"fmt"
	"strings"
	"time"
)

// placeholder is rendered wherever the backend left a field empty.
const placeholder = "-"

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// FormatCurrency renders an amount for display. A nil amount renders the
// placeholder; an empty currency defaults to USD; unknown currencies render
// as "12.50 XYZ".
func FormatCurrency(amount *float64, currency string) string {
	if amount == nil {
		return placeholder
	}

	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "USD"
	}
	if symbol, ok := currencySymbols[code]; ok {
		return fmt.Sprintf("%s%.2f", symbol, *amount)
	}
	return fmt.Sprintf("%.2f %s", *amount, code)
}

// FormatTimestamp renders an RFC 3339 timestamp as "1/2/2006, 3:04:05 PM".
// An empty value renders the placeholder; anything unparseable passes
// through unchanged so the user still sees what the backend sent.
func FormatTimestamp(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return placeholder
	}
	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return trimmed
	}
	return t.Format("1/2/2006, 3:04:05 PM")
}

// TextOrDash renders a string field, substituting the placeholder when the
// backend left it empty.
func TextOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
