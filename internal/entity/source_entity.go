package entity

import (
	"time"

	"github.com/google/uuid"
)

// SourceStatus is the lifecycle state of an ingested source.
type SourceStatus string

const (
	SourceStatusProcessing SourceStatus = "processing"
	SourceStatusReady      SourceStatus = "ready"
	SourceStatusError      SourceStatus = "error"
)

// ContentKind tags the SourceContent union.
type ContentKind string

const (
	ContentKindText    ContentKind = "text"
	ContentKindImage   ContentKind = "image"
	ContentKindPdf     ContentKind = "pdf"
	ContentKindAudio   ContentKind = "audio"
	ContentKindVideo   ContentKind = "video"
	ContentKindWebsite ContentKind = "website"
	ContentKindYoutube ContentKind = "youtube"
)

// Synthetic type markers for URL sources (not real MIME types).
const (
	OriginalTypeWebsite = "source/website"
	OriginalTypeYoutube = "source/youtube"
)

// SourceContent is a tagged union keyed by Kind. Only the fields relevant
// to the kind are populated; Data holds raw binary payloads (image bytes,
// PDF bytes, audio/video bytes) and is stripped by the persistence
// projection.
type SourceContent struct {
	Kind      ContentKind `json:"kind"`
	Text      string      `json:"text,omitempty"`       // text
	MimeType  string      `json:"mime_type,omitempty"`  // image | pdf | audio | video
	Data      []byte      `json:"data,omitempty"`       // image | pdf | audio | video
	PageCount int         `json:"page_count,omitempty"` // pdf
	Title     string      `json:"title,omitempty"`      // website | youtube
	URL       string      `json:"url,omitempty"`        // website | youtube
}

// Source is one ingested unit of knowledge inside a notebook.
//
// Invariant: Content and Grounding are both non-nil iff Status is ready.
// Error is non-empty iff Status is error. Grounding may point to an empty
// string; only a present, non-empty value marks the source usable for
// generation.
type Source struct {
	Id           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	OriginalType string         `json:"original_type"`
	Status       SourceStatus   `json:"status"`
	Progress     int            `json:"progress"`
	Content      *SourceContent `json:"content"`
	Grounding    *string        `json:"grounding"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// IsTerminal reports whether the source reached a final state.
func (s *Source) IsTerminal() bool {
	return s.Status == SourceStatusReady || s.Status == SourceStatusError
}

// EligibleForGeneration reports whether the source can feed chat or studio
// jobs: it must be ready and carry non-empty grounding text.
func (s *Source) EligibleForGeneration() bool {
	return s.Status == SourceStatusReady && s.Grounding != nil && *s.Grounding != ""
}

// Clone returns a deep copy so callers can hand sources out of the store
// without aliasing its state.
func (s *Source) Clone() *Source {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Content != nil {
		content := *s.Content
		if s.Content.Data != nil {
			content.Data = make([]byte, len(s.Content.Data))
			copy(content.Data, s.Content.Data)
		}
		cp.Content = &content
	}
	if s.Grounding != nil {
		grounding := *s.Grounding
		cp.Grounding = &grounding
	}
	return &cp
}
