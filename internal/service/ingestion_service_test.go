package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebooklm-be/internal/constant"
	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/contract"
	"notebooklm-be/pkg/extract"
)

func newIngestionFixture(t *testing.T, extractor ISourceExtractor, gateway IAiGateway) (IIngestionService, contract.NotebookStore) {
	t.Helper()
	store := newTestStore()
	persistence := NewPersistenceService(store, newMemSnapshotRepo(), logger.NoopLogger{})
	svc := NewIngestionService(store, extractor, gateway, NewNoopPublisher(), persistence, logger.NoopLogger{})
	return svc, store
}

func waitForSource(t *testing.T, store contract.NotebookStore, notebookId, sourceId interface {
	String() string
}, predicate func(*entity.Source) bool) *entity.Source {
	t.Helper()
	var found *entity.Source
	require.Eventually(t, func() bool {
		nb, err := store.Get(context.Background(), mustUUID(notebookId.String()))
		if err != nil {
			return false
		}
		src := nb.FindSource(mustUUID(sourceId.String()))
		if src == nil || !predicate(src) {
			return false
		}
		found = src
		return true
	}, 3*time.Second, 10*time.Millisecond)
	return found
}

func TestAddFilesRegistersPlaceholdersImmediately(t *testing.T) {
	blocked := make(chan struct{})
	extractor := &fakeExtractor{fn: func(ctx context.Context, in extract.Input, _ extract.ProgressFunc) (*extract.Result, error) {
		<-blocked
		return &extract.Result{Kind: extract.KindText, Text: "x", Grounding: "x"}, nil
	}}
	svc, store := newIngestionFixture(t, extractor, &fakeGateway{})
	defer close(blocked)

	nb := seedNotebook(store, "My Notebook")
	responses, err := svc.AddFiles(context.Background(), nb.Id, []dto.IngestFileItem{
		{Name: "a.txt", MimeType: "text/plain", Data: []byte("alpha")},
		{Name: "b.txt", MimeType: "text/plain", Data: []byte("beta")},
	})
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "a.txt", responses[0].Name)
	assert.Equal(t, string(entity.SourceStatusProcessing), responses[0].Status)
	assert.Equal(t, 0, responses[0].Progress)

	// Placeholders are visible in the store before extraction finishes.
	got, err := store.Get(context.Background(), nb.Id)
	require.NoError(t, err)
	require.Len(t, got.Sources, 2)
	assert.Equal(t, "a.txt", got.Sources[0].Name)
	assert.Equal(t, "b.txt", got.Sources[1].Name)
}

func TestAddFilesProcessesToReady(t *testing.T) {
	svc, store := newIngestionFixture(t, textExtractor(), &fakeGateway{})

	nb := seedNotebook(store, "Already Named")
	responses, err := svc.AddFiles(context.Background(), nb.Id, []dto.IngestFileItem{
		{Name: "notes.txt", MimeType: "text/plain", Data: []byte("ocean currents move heat")},
	})
	require.NoError(t, err)

	src := waitForSource(t, store, nb.Id, responses[0].Id, func(s *entity.Source) bool {
		return s.Status == entity.SourceStatusReady
	})
	assert.Equal(t, 100, src.Progress)
	require.NotNil(t, src.Content)
	assert.Equal(t, "ocean currents move heat", src.Content.Text)
	require.NotNil(t, src.Grounding)
	assert.Equal(t, "ocean currents move heat", *src.Grounding)
	assert.Empty(t, src.Error)
}

func TestAddFilesProcessesSequentially(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var started []string
	extractor := &fakeExtractor{fn: func(_ context.Context, in extract.Input, _ extract.ProgressFunc) (*extract.Result, error) {
		mu.Lock()
		started = append(started, in.Name)
		mu.Unlock()
		if in.Name == "first.txt" {
			<-release
		}
		text := string(in.Data)
		return &extract.Result{Kind: extract.KindText, Text: text, Grounding: text}, nil
	}}
	svc, store := newIngestionFixture(t, extractor, &fakeGateway{})

	nb := seedNotebook(store, "Ordered")
	responses, err := svc.AddFiles(context.Background(), nb.Id, []dto.IngestFileItem{
		{Name: "first.txt", MimeType: "text/plain", Data: []byte("one")},
		{Name: "second.txt", MimeType: "text/plain", Data: []byte("two")},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(started) == 1
	}, 3*time.Second, 10*time.Millisecond)

	// The second item must not start while the first is still processing.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	require.Equal(t, []string{"first.txt"}, started)
	mu.Unlock()

	close(release)

	waitForSource(t, store, nb.Id, responses[1].Id, func(s *entity.Source) bool {
		return s.Status == entity.SourceStatusReady
	})

	mu.Lock()
	assert.Equal(t, []string{"first.txt", "second.txt"}, started)
	mu.Unlock()

	got, err := store.Get(context.Background(), nb.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.SourceStatusReady, got.Sources[0].Status)
}

func TestAddFilesFailureMarksError(t *testing.T) {
	extractor := &fakeExtractor{fn: func(context.Context, extract.Input, extract.ProgressFunc) (*extract.Result, error) {
		return nil, errors.New("corrupt file")
	}}
	svc, store := newIngestionFixture(t, extractor, &fakeGateway{})

	nb := seedNotebook(store, "My Notebook")
	responses, err := svc.AddFiles(context.Background(), nb.Id, []dto.IngestFileItem{
		{Name: "bad.bin", MimeType: "application/pdf", Data: []byte{1}},
	})
	require.NoError(t, err)

	src := waitForSource(t, store, nb.Id, responses[0].Id, func(s *entity.Source) bool {
		return s.Status == entity.SourceStatusError
	})
	assert.Equal(t, "corrupt file", src.Error)
	assert.Equal(t, 100, src.Progress)
	assert.Nil(t, src.Content)
	assert.Nil(t, src.Grounding)
}

func TestAddFilesNamesDefaultNotebookAndWelcomes(t *testing.T) {
	gateway := &fakeGateway{generateResp: []string{"Ocean Science"}}
	svc, store := newIngestionFixture(t, textExtractor(), gateway)

	nb := seedNotebook(store, constant.DefaultNotebookName)
	_, err := svc.AddFiles(context.Background(), nb.Id, []dto.IngestFileItem{
		{Name: "notes.txt", MimeType: "text/plain", Data: []byte("tides follow the moon")},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := store.Get(context.Background(), nb.Id)
		return err == nil && got.Name == "Ocean Science" && len(got.ChatHistory) == 1
	}, 3*time.Second, 10*time.Millisecond)

	got, err := store.Get(context.Background(), nb.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.ChatMessageRoleModel, got.ChatHistory[0].Role)
	assert.Contains(t, got.ChatHistory[0].Content, "Ocean Science")
}

func TestAddFilesWelcomeMessageOnlyOnce(t *testing.T) {
	svc, store := newIngestionFixture(t, textExtractor(), &fakeGateway{generateResp: []string{"Named"}})

	nb := seedNotebook(store, constant.DefaultNotebookName)
	_, err := svc.AddFiles(context.Background(), nb.Id, []dto.IngestFileItem{
		{Name: "one.txt", MimeType: "text/plain", Data: []byte("first")},
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		got, _ := store.Get(context.Background(), nb.Id)
		return got != nil && len(got.ChatHistory) == 1
	}, 3*time.Second, 10*time.Millisecond)

	_, err = svc.AddFiles(context.Background(), nb.Id, []dto.IngestFileItem{
		{Name: "two.txt", MimeType: "text/plain", Data: []byte("second")},
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		got, _ := store.Get(context.Background(), nb.Id)
		if got == nil {
			return false
		}
		src := got.Sources[1]
		return src.Status == entity.SourceStatusReady
	}, 3*time.Second, 10*time.Millisecond)

	got, err := store.Get(context.Background(), nb.Id)
	require.NoError(t, err)
	assert.Len(t, got.ChatHistory, 1)
}

func TestAddFilesNoWelcomeForNamedNotebook(t *testing.T) {
	svc, store := newIngestionFixture(t, textExtractor(), &fakeGateway{})

	nb := seedNotebook(store, "Already Named")
	responses, err := svc.AddFiles(context.Background(), nb.Id, []dto.IngestFileItem{
		{Name: "notes.txt", MimeType: "text/plain", Data: []byte("material")},
	})
	require.NoError(t, err)

	waitForSource(t, store, nb.Id, responses[0].Id, func(s *entity.Source) bool {
		return s.Status == entity.SourceStatusReady
	})

	// Give the batch finalizer a chance to run before checking.
	time.Sleep(50 * time.Millisecond)

	got, err := store.Get(context.Background(), nb.Id)
	require.NoError(t, err)
	assert.Equal(t, "Already Named", got.Name)
	assert.Empty(t, got.ChatHistory)
}

func TestAddFilesNamingFailureKeepsDefaultName(t *testing.T) {
	gateway := &fakeGateway{generateErr: errors.New("quota exhausted")}
	svc, store := newIngestionFixture(t, textExtractor(), gateway)

	nb := seedNotebook(store, constant.DefaultNotebookName)
	responses, err := svc.AddFiles(context.Background(), nb.Id, []dto.IngestFileItem{
		{Name: "notes.txt", MimeType: "text/plain", Data: []byte("material")},
	})
	require.NoError(t, err)

	waitForSource(t, store, nb.Id, responses[0].Id, func(s *entity.Source) bool {
		return s.Status == entity.SourceStatusReady
	})

	require.Eventually(t, func() bool {
		got, _ := store.Get(context.Background(), nb.Id)
		return got != nil && len(got.ChatHistory) == 1
	}, 3*time.Second, 10*time.Millisecond)

	got, err := store.Get(context.Background(), nb.Id)
	require.NoError(t, err)
	assert.Equal(t, constant.DefaultNotebookName, got.Name)
}

func TestAddURLUsesWebsiteType(t *testing.T) {
	extractor := &fakeExtractor{fn: func(_ context.Context, in extract.Input, _ extract.ProgressFunc) (*extract.Result, error) {
		return &extract.Result{
			Kind:      extract.KindWebsite,
			Text:      "page text",
			Title:     "Example Page",
			URL:       in.URL,
			Grounding: "page text",
		}, nil
	}}
	svc, store := newIngestionFixture(t, extractor, &fakeGateway{})

	nb := seedNotebook(store, "Sites")
	res, err := svc.AddURL(context.Background(), nb.Id, "https://example.com/article")
	require.NoError(t, err)
	assert.Equal(t, entity.OriginalTypeWebsite, res.OriginalType)
	assert.Equal(t, "https://example.com/article", res.Name)

	src := waitForSource(t, store, nb.Id, res.Id, func(s *entity.Source) bool {
		return s.Status == entity.SourceStatusReady
	})
	// The extracted page title replaces the raw url as display name.
	assert.Equal(t, "Example Page", src.Name)
}

func TestAddURLYoutubeType(t *testing.T) {
	extractor := &fakeExtractor{fn: func(_ context.Context, in extract.Input, _ extract.ProgressFunc) (*extract.Result, error) {
		return &extract.Result{Kind: extract.KindYoutube, Text: "t", Grounding: "t", URL: in.URL}, nil
	}}
	svc, store := newIngestionFixture(t, extractor, &fakeGateway{})

	nb := seedNotebook(store, "Videos")
	res, err := svc.AddURL(context.Background(), nb.Id, "https://youtu.be/abc123")
	require.NoError(t, err)
	assert.Equal(t, entity.OriginalTypeYoutube, res.OriginalType)
}

func TestAddFilesUnknownNotebook(t *testing.T) {
	svc, _ := newIngestionFixture(t, textExtractor(), &fakeGateway{})

	_, err := svc.AddFiles(context.Background(), mustUUID("e3b0c442-0000-0000-0000-000000000000"), []dto.IngestFileItem{
		{Name: "x.txt", MimeType: "text/plain", Data: []byte("x")},
	})
	assert.ErrorIs(t, err, contract.ErrNotebookNotFound)
}

func TestAddFilesEmptyBatchRejected(t *testing.T) {
	svc, store := newIngestionFixture(t, textExtractor(), &fakeGateway{})
	nb := seedNotebook(store, "Empty")

	_, err := svc.AddFiles(context.Background(), nb.Id, nil)
	assert.Error(t, err)
}
