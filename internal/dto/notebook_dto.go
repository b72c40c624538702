package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNotebookRequest struct {
	Name string `json:"name" validate:"omitempty,max=255"`
}

type CreateNotebookResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type GetAllNotebookResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	SourceCount int        `json:"source_count"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ShowNotebookResponse struct {
	Id            uuid.UUID                `json:"id"`
	Name          string                   `json:"name"`
	Active        bool                     `json:"active"`
	Sources       []*SourceResponse        `json:"sources"`
	ChatHistory   []*ChatMessageResponse   `json:"chat_history"`
	StudioHistory []*StudioItemResponse    `json:"studio_history"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     *time.Time               `json:"updated_at,omitempty"`
}

type UpdateNotebookRequest struct {
	Id   uuid.UUID `json:"-"`
	Name string    `json:"name" validate:"required,max=255"`
}

type UpdateNotebookResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
