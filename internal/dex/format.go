package dex

import (
	"fmt"
	"math"
	"strings"
)

// FormatCurrency renders a USD amount with a magnitude suffix. Non-finite
// and non-positive values render as "$0.00".
func FormatCurrency(v float64) string {
	if !isRenderable(v) {
		return "$0.00"
	}

	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	case v >= 1:
		return fmt.Sprintf("$%.2f", v)
	case v >= 0.01:
		return fmt.Sprintf("$%.4f", v)
	default:
		return fmt.Sprintf("$%.8f", v)
	}
}

// FormatPrice renders a USD unit price, keeping more precision the smaller
// the value gets.
func FormatPrice(v float64) string {
	if !isRenderable(v) {
		return "$0.00"
	}

	switch {
	case v >= 1000:
		return "$" + groupThousands(fmt.Sprintf("%.2f", v))
	case v >= 1:
		return fmt.Sprintf("$%.4f", v)
	case v >= 0.0001:
		return fmt.Sprintf("$%.6f", v)
	default:
		return fmt.Sprintf("$%.8f", v)
	}
}

// FormatTokenAmount renders a token quantity (supply, volume) with the same
// magnitude ladder as FormatCurrency but no currency prefix. Inputs above
// 1e15 are assumed to be raw 18-decimals fixed point and rescaled first.
func FormatTokenAmount(v float64) string {
	if !isRenderable(v) {
		return "0.00"
	}

	if v > 1e15 {
		v /= 1e18
	}

	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.2f", v)
	case v >= 0.01:
		return fmt.Sprintf("%.4f", v)
	default:
		return fmt.Sprintf("%.8f", v)
	}
}

func isRenderable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// groupThousands inserts comma separators into the integer part of an
// already-formatted decimal string.
func groupThousands(s string) string {
	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx:]
	}

	if len(intPart) <= 3 {
		return intPart + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + fracPart
}
