package money

import (
	"strconv"
	"strings"
)

// Amount is a monetary value in minor currency units. IDR has no fractional
// denomination in practice, so one unit equals one rupiah.
type Amount = int64

// FormatIDR renders an amount the way the terminal UI displays rupiah,
// e.g. 115000 -> "Rp 115.000".
func FormatIDR(v Amount) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("Rp ")
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
		if len(digits) > pre {
			b.WriteString(".")
		}
	}
	for i := pre; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteString(".")
		}
	}
	return b.String()
}

// ParseAmount converts free-form numeric input from the terminal keypad into
// an amount. Grouping separators are tolerated; anything that does not parse
// is treated as zero, matching how the cashier UI handles malformed fields.
func ParseAmount(s string) Amount {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseRateBps converts a percentage entered as text (possibly fractional,
// e.g. "11" or "2.5") into basis points. The conversion is done in integer
// arithmetic; fraction digits beyond two are dropped. Malformed input is
// treated as zero.
func ParseRateBps(s string) int {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if trimmed == "" {
		return 0
	}
	sign := 1
	if strings.HasPrefix(trimmed, "-") {
		sign = -1
		trimmed = trimmed[1:]
	}
	whole, frac, _ := strings.Cut(trimmed, ".")
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.Atoi(whole)
	if err != nil {
		return 0
	}
	bps := w * 100
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.Atoi(frac)
		if err != nil {
			return 0
		}
		bps += f
	}
	return sign * bps
}
