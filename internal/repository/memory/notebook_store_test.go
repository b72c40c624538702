package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/repository/contract"
)

func newNotebook(name string) *entity.Notebook {
	return &entity.Notebook{
		Id:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

func TestNotebookStoreCreateAndGet(t *testing.T) {
	store := NewNotebookStore()
	ctx := context.Background()

	nb := newNotebook("Oceanography")
	require.NoError(t, store.Create(ctx, nb))

	got, err := store.Get(ctx, nb.Id)
	require.NoError(t, err)
	assert.Equal(t, "Oceanography", got.Name)

	// Mutating the returned copy must not leak into the store.
	got.Name = "mutated"
	again, err := store.Get(ctx, nb.Id)
	require.NoError(t, err)
	assert.Equal(t, "Oceanography", again.Name)
}

func TestNotebookStoreGetMissing(t *testing.T) {
	store := NewNotebookStore()
	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, contract.ErrNotebookNotFound)
}

func TestNotebookStoreListKeepsInsertionOrder(t *testing.T) {
	store := NewNotebookStore()
	ctx := context.Background()

	first := newNotebook("first")
	second := newNotebook("second")
	third := newNotebook("third")
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, third))

	notebooks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, notebooks, 3)
	assert.Equal(t, "first", notebooks[0].Name)
	assert.Equal(t, "second", notebooks[1].Name)
	assert.Equal(t, "third", notebooks[2].Name)
}

func TestNotebookStoreUpdate(t *testing.T) {
	store := NewNotebookStore()
	ctx := context.Background()

	nb := newNotebook("draft")
	require.NoError(t, store.Create(ctx, nb))

	updated, err := store.Update(ctx, nb.Id, func(n *entity.Notebook) error {
		n.Name = "final"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Name)

	got, err := store.Get(ctx, nb.Id)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Name)
}

func TestNotebookStoreUpdateFailureLeavesStateUntouched(t *testing.T) {
	store := NewNotebookStore()
	ctx := context.Background()

	nb := newNotebook("original")
	require.NoError(t, store.Create(ctx, nb))

	_, err := store.Update(ctx, nb.Id, func(n *entity.Notebook) error {
		n.Name = "partially changed"
		return contract.ErrSourceNotFound
	})
	require.Error(t, err)

	got, err := store.Get(ctx, nb.Id)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Name)
}

func TestNotebookStoreConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	store := NewNotebookStore()
	ctx := context.Background()

	nb := newNotebook("counter")
	require.NoError(t, store.Create(ctx, nb))

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, nb.Id, func(n *entity.Notebook) error {
				n.ChatHistory = append(n.ChatHistory, &entity.ChatMessage{
					Id:      uuid.New(),
					Role:    "user",
					Content: "ping",
				})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, nb.Id)
	require.NoError(t, err)
	assert.Len(t, got.ChatHistory, writers)
}

func TestNotebookStoreDelete(t *testing.T) {
	store := NewNotebookStore()
	ctx := context.Background()

	nb := newNotebook("temp")
	require.NoError(t, store.Create(ctx, nb))
	require.NoError(t, store.SetActive(ctx, nb.Id))

	require.NoError(t, store.Delete(ctx, nb.Id))
	_, err := store.Get(ctx, nb.Id)
	assert.ErrorIs(t, err, contract.ErrNotebookNotFound)

	// Deleting the active notebook clears the active marker.
	_, ok := store.ActiveId(ctx)
	assert.False(t, ok)

	assert.ErrorIs(t, store.Delete(ctx, nb.Id), contract.ErrNotebookNotFound)
}

func TestNotebookStoreActive(t *testing.T) {
	store := NewNotebookStore()
	ctx := context.Background()

	_, ok := store.ActiveId(ctx)
	assert.False(t, ok)

	assert.ErrorIs(t, store.SetActive(ctx, uuid.New()), contract.ErrNotebookNotFound)

	nb := newNotebook("main")
	require.NoError(t, store.Create(ctx, nb))
	require.NoError(t, store.SetActive(ctx, nb.Id))

	active, ok := store.ActiveId(ctx)
	assert.True(t, ok)
	assert.Equal(t, nb.Id, active)
}

func TestNotebookStoreReplaceAll(t *testing.T) {
	store := NewNotebookStore()
	ctx := context.Background()

	old := newNotebook("stale")
	require.NoError(t, store.Create(ctx, old))

	restoredA := newNotebook("restored a")
	restoredB := newNotebook("restored b")
	require.NoError(t, store.ReplaceAll(ctx, []*entity.Notebook{restoredA, restoredB}, restoredB.Id))

	_, err := store.Get(ctx, old.Id)
	assert.ErrorIs(t, err, contract.ErrNotebookNotFound)

	notebooks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, notebooks, 2)
	assert.Equal(t, "restored a", notebooks[0].Name)

	active, ok := store.ActiveId(ctx)
	assert.True(t, ok)
	assert.Equal(t, restoredB.Id, active)
}

func TestNotebookStoreReplaceAllUnknownActive(t *testing.T) {
	store := NewNotebookStore()
	ctx := context.Background()

	nb := newNotebook("only")
	require.NoError(t, store.ReplaceAll(ctx, []*entity.Notebook{nb}, uuid.New()))

	_, ok := store.ActiveId(ctx)
	assert.False(t, ok)
}
