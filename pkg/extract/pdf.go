package extract

import (
	"bytes"
	"context"
	"strings"

	"code.sajari.com/docconv"

	"notebooklm-be/pkg/llm"
)

const pdfTranscribePrompt = `Transcribe the full text content of this PDF document. Preserve reading order. Output the text only, no commentary.`

// extractPdf keeps the original bytes (the reader renders them) and grounds
// the document. The local text layer is tried first; scanned documents with
// no text layer go through the model for transcription.
func (e *Extractor) extractPdf(ctx context.Context, in Input, report ProgressFunc) (*Result, error) {
	report(15)

	grounding := ""
	pages := 1
	if res, err := docconv.Convert(bytes.NewReader(in.Data), "application/pdf", false); err == nil {
		grounding = strings.TrimSpace(res.Body)
		pages = countPdfPages(res.Body)
	}
	report(60)

	if grounding == "" {
		content, err := e.gen.Generate(ctx, &llm.Request{
			Messages: []llm.Message{{Role: llm.RoleUser, Content: pdfTranscribePrompt}},
			Parts:    []llm.Part{{MimeType: "application/pdf", Data: in.Data}},
		})
		if err != nil {
			return nil, err
		}
		grounding = strings.TrimSpace(content)
	}
	report(90)

	return &Result{
		Kind:      KindPdf,
		MimeType:  "application/pdf",
		Data:      in.Data,
		PageCount: pages,
		Grounding: grounding,
	}, nil
}

// countPdfPages derives the page count from the converted text: pdftotext
// separates pages with form feeds.
func countPdfPages(body string) int {
	if body == "" {
		return 1
	}
	return strings.Count(body, "\f") + 1
}
