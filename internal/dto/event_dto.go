package dto

import "github.com/google/uuid"

// SourceProgressEvent is published while a source is being processed.
type SourceProgressEvent struct {
	NotebookId uuid.UUID `json:"notebook_id"`
	SourceId   uuid.UUID `json:"source_id"`
	Progress   int       `json:"progress"`
}

// SourceStatusEvent is published when a source reaches a terminal status.
type SourceStatusEvent struct {
	NotebookId uuid.UUID `json:"notebook_id"`
	SourceId   uuid.UUID `json:"source_id"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
}

// StudioStatusEvent is published when a studio job starts or finishes.
type StudioStatusEvent struct {
	NotebookId uuid.UUID `json:"notebook_id"`
	ItemId     uuid.UUID `json:"item_id"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
}
