package tui

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// formatTime renders a relative timestamp. Zero times render as "".
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// formatAmount renders a bid amount with thousands separators.
func formatAmount(amount int64, currency string) string {
	s := humanize.Comma(amount)
	if currency != "" {
		s += " " + currency
	}
	return s
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace for list rows.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
