package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCents converts a decimal price string ("19.99", "19.9", "19") into
// integer cents. Prices are stored and summed as cents to avoid float drift.
// Only digits and a single decimal point are accepted; signs are rejected.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasDot := strings.Cut(s, ".")
	if !allDigits(whole) || len(frac) > 2 || (hasDot && frac == "") {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	cents := units * 100
	switch len(frac) {
	case 0:
	case 1, 2:
		if !allDigits(frac) {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		if len(frac) == 1 {
			d *= 10
		}
		cents += d
	}
	return cents, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatCents renders integer cents as a two-decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
