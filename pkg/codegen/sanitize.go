package codegen

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText strips markup from titles and descriptions so they can be
// placed in doc comments and schema annotations. Whitespace is collapsed.
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.ContainsAny(trimmed, "<>") {
		trimmed = html.UnescapeString(textSanitizer().Sanitize(trimmed))
	}
	return strings.Join(strings.Fields(trimmed), " ")
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
