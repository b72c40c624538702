package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/repository/contract"
)

// NotebookStore keeps all notebooks in process memory. Insertion order is
// tracked separately because the cache itself is unordered; order matters
// for listing and for stable citation indexes.
type NotebookStore struct {
	mu        sync.Mutex
	cache     *cache.Cache
	order     []uuid.UUID
	activeId  uuid.UUID
	hasActive bool
}

var _ contract.NotebookStore = &NotebookStore{}

func NewNotebookStore() *NotebookStore {
	// Notebooks never expire; eviction happens only through Delete.
	return &NotebookStore{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (s *NotebookStore) Create(_ context.Context, notebook *entity.Notebook) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(notebook.Id.String(), notebook.Clone(), cache.NoExpiration)
	s.order = append(s.order, notebook.Id)
	return nil
}

func (s *NotebookStore) Get(_ context.Context, id uuid.UUID) (*entity.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *NotebookStore) get(id uuid.UUID) (*entity.Notebook, error) {
	x, found := s.cache.Get(id.String())
	if !found {
		return nil, contract.ErrNotebookNotFound
	}
	return x.(*entity.Notebook).Clone(), nil
}

func (s *NotebookStore) List(_ context.Context) ([]*entity.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notebooks := make([]*entity.Notebook, 0, len(s.order))
	for _, id := range s.order {
		if x, found := s.cache.Get(id.String()); found {
			notebooks = append(notebooks, x.(*entity.Notebook).Clone())
		}
	}
	return notebooks, nil
}

// Update applies fn to a private copy of the latest stored notebook and
// commits the copy if fn succeeds. Concurrent updates serialize on the
// store lock, so no interleaving can lose a write.
func (s *NotebookStore) Update(_ context.Context, id uuid.UUID, fn func(*entity.Notebook) error) (*entity.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := fn(current); err != nil {
		return nil, err
	}
	s.cache.Set(id.String(), current, cache.NoExpiration)
	return current.Clone(), nil
}

func (s *NotebookStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.cache.Get(id.String()); !found {
		return contract.ErrNotebookNotFound
	}
	s.cache.Delete(id.String())
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.hasActive && s.activeId == id {
		s.hasActive = false
	}
	return nil
}

func (s *NotebookStore) SetActive(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.cache.Get(id.String()); !found {
		return contract.ErrNotebookNotFound
	}
	s.activeId = id
	s.hasActive = true
	return nil
}

func (s *NotebookStore) ActiveId(_ context.Context) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeId, s.hasActive
}

func (s *NotebookStore) ReplaceAll(_ context.Context, notebooks []*entity.Notebook, activeId uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Flush()
	s.order = s.order[:0]
	for _, n := range notebooks {
		s.cache.Set(n.Id.String(), n.Clone(), cache.NoExpiration)
		s.order = append(s.order, n.Id)
	}
	s.hasActive = false
	if activeId != uuid.Nil {
		if _, found := s.cache.Get(activeId.String()); found {
			s.activeId = activeId
			s.hasActive = true
		}
	}
	return nil
}
