package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicy = bluemonday.UGCPolicy()
	plainPolicy    = bluemonday.StrictPolicy()
)

// SanitizeRichText keeps basic formatting and drops scripts, handlers and the like
func SanitizeRichText(content string) string {
	return strings.TrimSpace(richTextPolicy.Sanitize(content))
}

// StripMarkup removes every tag, leaving escaped text
func StripMarkup(content string) string {
	return strings.TrimSpace(plainPolicy.Sanitize(content))
}
