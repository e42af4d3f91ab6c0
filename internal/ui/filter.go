package ui

import (
	"strconv"
	"strings"

	"github.com/lakshman12791/receipt-console/internal/receipt"
)

// FilterReceipts returns the rows whose merchant, date, total amount or
// formatted upload timestamp contains the query, case-insensitively. An
// empty or whitespace-only query matches everything. Pure function,
// recomputed per render.
func FilterReceipts(receipts []receipt.Receipt, query string) []receipt.Receipt {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return receipts
	}

	matched := make([]receipt.Receipt, 0, len(receipts))
	for _, r := range receipts {
		if matchesQuery(r, q) {
			matched = append(matched, r)
		}
	}
	return matched
}

func matchesQuery(r receipt.Receipt, q string) bool {
	fields := []string{
		r.Merchant,
		r.Date,
		amountText(r.TotalAmount),
		receipt.FormatTimestamp(r.UploadedAt),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func amountText(amount *float64) string {
	if amount == nil {
		return ""
	}
	return strconv.FormatFloat(*amount, 'f', -1, 64)
}
