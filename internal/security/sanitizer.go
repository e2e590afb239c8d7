package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup and control bytes from user supplied free text.
func SanitizeText(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = htmlPolicy.Sanitize(input)
	// StrictPolicy escapes what it keeps; store the plain text
	return strings.TrimSpace(html.UnescapeString(input))
}

// SanitizeOptional applies SanitizeText to a non-nil pointer in place.
func SanitizeOptional(input *string) {
	if input != nil {
		*input = SanitizeText(*input)
	}
}
