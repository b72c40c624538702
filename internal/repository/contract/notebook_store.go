package contract

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"notebooklm-be/internal/entity"
)

var (
	ErrNotebookNotFound   = errors.New("notebook not found")
	ErrSourceNotFound     = errors.New("source not found")
	ErrStudioItemNotFound = errors.New("studio item not found")
)

// NotebookStore is the in-memory system of record for notebooks. Reads
// return deep copies; the only way to mutate stored state is Update, which
// applies the mutation atomically against the latest stored version.
type NotebookStore interface {
	Create(ctx context.Context, notebook *entity.Notebook) error
	Get(ctx context.Context, id uuid.UUID) (*entity.Notebook, error)
	List(ctx context.Context) ([]*entity.Notebook, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*entity.Notebook) error) (*entity.Notebook, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SetActive(ctx context.Context, id uuid.UUID) error
	ActiveId(ctx context.Context) (uuid.UUID, bool)

	// ReplaceAll swaps the entire store content, used when restoring a
	// persisted snapshot at startup.
	ReplaceAll(ctx context.Context, notebooks []*entity.Notebook, activeId uuid.UUID) error
}
