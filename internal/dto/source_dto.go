package dto

import (
	"time"

	"github.com/google/uuid"
)

// IngestFileItem is one uploaded file in an ingestion batch.
type IngestFileItem struct {
	Name     string
	MimeType string
	Data     []byte
}

type AddSourceURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type SourceResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	OriginalType string    `json:"original_type"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	Kind         string    `json:"kind,omitempty"`
	PageCount    int       `json:"page_count,omitempty"`
	URL          string    `json:"url,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type RenameSourceRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// SourceContentResponse carries the stored content of a single source for
// the reader view. Binary kinds expose the raw bytes; text kinds the text.
type SourceContentResponse struct {
	Id       uuid.UUID `json:"id"`
	Kind     string    `json:"kind"`
	MimeType string    `json:"mime_type,omitempty"`
	Text     string    `json:"text,omitempty"`
	Data     []byte    `json:"data,omitempty"`
	Title    string    `json:"title,omitempty"`
	URL      string    `json:"url,omitempty"`
}
