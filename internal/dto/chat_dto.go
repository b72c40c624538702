package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	Chat string `json:"chat" validate:"required"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID     `json:"id"`
	Role      string        `json:"role"`
	Chat      string        `json:"chat"`
	Citations []CitationDTO `json:"citations,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type CitationDTO struct {
	Index      int       `json:"index"`
	SourceId   uuid.UUID `json:"source_id"`
	SourceName string    `json:"source_name"`
}

type SendChatResponse struct {
	Sent  *ChatMessageResponse `json:"sent"`
	Reply *ChatMessageResponse `json:"reply"`
}
