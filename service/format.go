package service

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// formatINR renders an amount with the Indian digit grouping, e.g.
// ₹10,50,000 or ₹36,547.79. Paise are shown only when non-zero.
func formatINR(v decimal.Decimal) string {
	v = v.Round(2)
	neg := v.IsNegative()
	if neg {
		v = v.Neg()
	}

	s := v.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	grouped := groupIndian(whole)
	out := "₹" + grouped
	if frac != "00" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// groupIndian inserts commas in the 3-then-2 pattern: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}

func formatMonths(n int) string {
	if n == 1 {
		return "1 month"
	}
	return pluralMonths(n)
}

func pluralMonths(n int) string {
	years := n / 12
	rem := n % 12
	switch {
	case years == 0:
		return itoa(n) + " months"
	case rem == 0 && years == 1:
		return itoa(n) + " months (1 year)"
	case rem == 0:
		return itoa(n) + " months (" + itoa(years) + " years)"
	default:
		return itoa(n) + " months"
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
