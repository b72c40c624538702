package extract

import (
	"context"
	"strings"

	"notebooklm-be/pkg/llm"
)

// Kind classifies what a source's stored content is.
type Kind string

const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindPdf     Kind = "pdf"
	KindAudio   Kind = "audio"
	KindVideo   Kind = "video"
	KindWebsite Kind = "website"
	KindYoutube Kind = "youtube"
)

// Generator is the slice of the AI gateway the extractor needs. Multimodal
// types (images, pdf scans, audio, video, urls) are grounded by the model;
// plain documents are parsed locally.
type Generator interface {
	Generate(ctx context.Context, req *llm.Request, opts ...llm.Option) (string, error)
	GenerateJSON(ctx context.Context, req *llm.Request, target any, opts ...llm.Option) error
}

// Input is one item to extract. Either (MimeType, Data) or URL is set.
type Input struct {
	Name     string
	MimeType string
	Data     []byte
	URL      string
}

// Result carries the content to store and the grounding text that makes
// the source usable in chat and studio generation.
type Result struct {
	Kind      Kind
	Text      string
	MimeType  string
	Data      []byte
	PageCount int
	Title     string
	URL       string
	Grounding string
}

// ProgressFunc receives extraction progress in the range [0, 100].
type ProgressFunc func(progress int)

// Extractor turns uploaded files and urls into stored content plus
// grounding text.
type Extractor struct {
	gen Generator
}

func NewExtractor(gen Generator) *Extractor {
	return &Extractor{gen: gen}
}

// Extract dispatches on the input's MIME type (or url) and runs the
// matching strategy. Progress reported through report is monotonic and
// capped at 95; the caller owns the final step to 100.
func (e *Extractor) Extract(ctx context.Context, in Input, report ProgressFunc) (*Result, error) {
	report = monotonic(report)
	report(5)

	if in.URL != "" {
		return e.extractURL(ctx, in, report)
	}

	mime := normalizeMime(in.MimeType)
	switch {
	case isTextMime(mime):
		return e.extractText(in, report)
	case mime == "application/pdf":
		return e.extractPdf(ctx, in, report)
	case isDocumentMime(mime):
		return e.extractDocument(in, mime, report)
	case strings.HasPrefix(mime, "image/"):
		return e.extractMedia(ctx, in, mime, KindImage, report)
	case strings.HasPrefix(mime, "audio/"):
		return e.extractMedia(ctx, in, mime, KindAudio, report)
	case strings.HasPrefix(mime, "video/"):
		return e.extractMedia(ctx, in, mime, KindVideo, report)
	default:
		return nil, &UnsupportedTypeError{MimeType: in.MimeType}
	}
}

func normalizeMime(mimeType string) string {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime
}

func isTextMime(mime string) bool {
	switch mime {
	case "text/plain", "text/markdown", "text/csv", "application/json":
		return true
	}
	return strings.HasPrefix(mime, "text/")
}

func isDocumentMime(mime string) bool {
	switch mime {
	case "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.oasis.opendocument.text",
		"application/rtf":
		return true
	}
	return false
}

// monotonic wraps a progress callback so reported values never decrease
// and stay within [0, 95].
func monotonic(report ProgressFunc) ProgressFunc {
	if report == nil {
		return func(int) {}
	}
	best := 0
	return func(p int) {
		if p > 95 {
			p = 95
		}
		if p <= best {
			return
		}
		best = p
		report(p)
	}
}
