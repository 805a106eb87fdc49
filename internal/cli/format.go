// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatCompact formats a value with human-readable suffixes for narrow
// chart labels. e.g., 1234 -> "1.2K", 1234567 -> "1.2M"
func FormatCompact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
}

// FormatMoney formats an earnings amount with two decimals and thousands
// separators. e.g., 2000.5 -> "2,000.50"
func FormatMoney(amount float64) string {
	if !isFinite(amount) {
		return "-"
	}
	cents := int64(math.Round(math.Abs(amount) * 100))
	s := FormatNumber(cents/100) + fmt.Sprintf(".%02d", cents%100)
	if amount < 0 && cents != 0 {
		return "-" + s
	}
	return s
}

// FormatRate formats a per-pick rate, trimming trailing zeros past two
// decimals. e.g., 1.5 -> "1.50", 0.125 -> "0.125"
func FormatRate(rate float64) string {
	if !isFinite(rate) {
		return "-"
	}
	s := strconv.FormatFloat(rate, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 < 2 {
		s += strings.Repeat("0", 2-(len(s)-dot-1))
	}
	return s
}

// FormatHours formats a fractional hour count. e.g., 8 -> "8h", 7.5 -> "7.5h"
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// FormatMinutes formats minutes into a human-readable duration.
// e.g., 440 -> "7h 20m", 45 -> "45m"
func FormatMinutes(mins float64) string {
	if mins <= 0 {
		return "0m"
	}
	total := int64(math.Round(mins))
	hours := total / 60
	rest := total % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
	return fmt.Sprintf("%dm", rest)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats the difference between two amounts with a sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return "-" + FormatMoney(-delta)
}

// FormatDayOfWeek returns a 3-letter day abbreviation.
func FormatDayOfWeek(wd time.Weekday) string {
	if wd >= time.Sunday && wd <= time.Saturday {
		return wd.String()[:3]
	}
	return "???"
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
