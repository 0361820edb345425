package utils

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// The report layout is fixed, so grouping always uses English conventions
// regardless of the host locale.
var printer = message.NewPrinter(language.English)

// Commas formats n with comma thousands separators, e.g. 1,000,000.
func Commas(n int64) string {
	return printer.Sprintf("%d", n)
}

// Percent formats a 0..1 fraction with two decimals, e.g. 0.5 -> "50.00%".
func Percent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}

// Rule returns a horizontal rule of n copies of ch.
func Rule(ch string, n int) string {
	return strings.Repeat(ch, n)
}

// URL-safe name validation regex.
var urlSafeNameRegex = regexp.MustCompile(`^[\p{L}\p{N}._-]+$`)

// IsURLSafeName reports whether name can be used as a single path segment.
func IsURLSafeName(name string) bool {
	return name != "" && name != "." && name != ".." && urlSafeNameRegex.MatchString(name)
}

// ParseList splits a comma-separated string into trimmed, non-empty items.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
