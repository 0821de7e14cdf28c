package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a ledger amount written in Brazilian ("1.234,56")
// or US ("1,234.56") notation to a float. A currency prefix "R$" is
// ignored. When both separators appear the rightmost one is the decimal
// point; a lone comma is a decimal comma.
func ParseAmount(s string) (float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}

// FormatAmount renders v in Brazilian notation with two decimals,
// e.g. -1234.5 -> "-1.234,50".
func FormatAmount(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	cents := int64(math.Round(v * 100))
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if negative && cents != 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s,%02d", sign, b.String(), frac)
}

// FormatCurrency prefixes FormatAmount with the real sign.
func FormatCurrency(v float64) string {
	return "R$ " + FormatAmount(v)
}

// FormatPercent renders a percentage value (already scaled by 100).
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
