package utils

import "strings"

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// NormalizeName collapses runs of whitespace into single spaces.
func NormalizeName(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
