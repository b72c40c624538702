package extract

import (
	"strings"
	"unicode/utf8"
)

// extractText stores plain text verbatim. The text itself is the
// grounding, so no model call is needed.
func (e *Extractor) extractText(in Input, report ProgressFunc) (*Result, error) {
	report(30)

	text := string(in.Data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	report(90)

	return &Result{
		Kind:      KindText,
		Text:      text,
		MimeType:  in.MimeType,
		Grounding: text,
	}, nil
}
