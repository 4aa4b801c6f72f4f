package rag

import (
	"strings"

	"policy-rag/internal/models"
)

var lineBreakReplacer = strings.NewReplacer("<br>", "\n", "<br/>", "\n")

// Postprocess normalizes the raw model output: embedded HTML line breaks
// become plain newlines, and answers that carry the citation block get the
// pagination disclaimer appended. Anything else, including the refusal
// sentence, passes through unchanged.
func Postprocess(raw string) string {
	clean := lineBreakReplacer.Replace(raw)
	if strings.Contains(clean, models.ReferencesHeader) {
		return clean + models.PaginationDisclaimer
	}
	return clean
}
