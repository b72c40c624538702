package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn in a notebook's conversation. Model replies may
// contain citation markers of the form [n] that resolve against the
// notebook's ready sources.
type ChatMessage struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"` // constant.ChatMessageRoleUser | constant.ChatMessageRoleModel
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *ChatMessage) Clone() *ChatMessage {
	if m == nil {
		return nil
	}
	cp := *m
	return &cp
}
