package dto

import (
	"time"

	"github.com/google/uuid"

	"notebooklm-be/internal/entity"
)

type GenerateStudioRequest struct {
	Type string `json:"type" validate:"required,oneof=mindmap audio report flashcards quiz video"`
}

type StudioItemResponse struct {
	Id          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Name        string    `json:"name"`
	Timestamp   string    `json:"timestamp"`
	SourceCount int       `json:"source_count"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StudioItemDetailResponse includes the generated payload. Binary payloads
// are served base64-encoded by the JSON layer.
type StudioItemDetailResponse struct {
	StudioItemResponse
	MindMap    *entity.MindMapNode   `json:"mindmap,omitempty"`
	ReportHTML string                `json:"report_html,omitempty"`
	Flashcards []entity.Flashcard    `json:"flashcards,omitempty"`
	Quiz       []entity.QuizQuestion `json:"quiz,omitempty"`
	Audio      []byte                `json:"audio,omitempty"`
	Video      []byte                `json:"video,omitempty"`
}
