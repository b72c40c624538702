package extract

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

// extractDocument converts office documents to plain text with docconv.
// The converted text is stored as the source content: the binary original
// has no further use once the text is out. A document that cannot be
// converted still becomes a ready source with a placeholder grounding, so
// one unreadable attachment does not fail a batch.
func (e *Extractor) extractDocument(in Input, mime string, report ProgressFunc) (*Result, error) {
	report(20)

	text := ""
	res, err := docconv.Convert(bytes.NewReader(in.Data), mime, false)
	if err == nil {
		text = strings.TrimSpace(res.Body)
	}
	report(80)

	if text == "" {
		text = fmt.Sprintf("[Document %q could not be converted to text; its contents are unavailable.]", in.Name)
	}

	return &Result{
		Kind:      KindText,
		Text:      text,
		MimeType:  in.MimeType,
		Grounding: text,
	}, nil
}
