package validation

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = sync.OnceValue(bluemonday.StrictPolicy)

// SanitizeMessage strips markup from server supplied text so it can be shown
// verbatim in an error summary. Entities are decoded afterwards; renderers are
// expected to escape on output.
func SanitizeMessage(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ""
	}
	clean := strictPolicy().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(clean))
}
