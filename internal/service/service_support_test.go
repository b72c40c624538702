package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/repository/contract"
	"notebooklm-be/internal/repository/memory"
	"notebooklm-be/pkg/extract"
	"notebooklm-be/pkg/llm"
)

// fakeGateway scripts gateway responses for service tests.
type fakeGateway struct {
	mu           sync.Mutex
	generateResp []string
	generateErr  error
	jsonResp     string
	jsonErr      error
	audio        []byte
	audioErr     error
	video        []byte
	videoErr     error
	requests     []*llm.Request
}

func (g *fakeGateway) Generate(_ context.Context, req *llm.Request, _ ...llm.Option) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.generateErr != nil {
		return "", g.generateErr
	}
	if len(g.generateResp) == 0 {
		return "", nil
	}
	resp := g.generateResp[0]
	if len(g.generateResp) > 1 {
		g.generateResp = g.generateResp[1:]
	}
	return resp, nil
}

func (g *fakeGateway) GenerateJSON(_ context.Context, req *llm.Request, target any, _ ...llm.Option) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.jsonErr != nil {
		return g.jsonErr
	}
	return json.Unmarshal([]byte(g.jsonResp), target)
}

func (g *fakeGateway) Synthesize(context.Context, string) ([]byte, error) {
	return g.audio, g.audioErr
}

func (g *fakeGateway) SynthesizeVideo(context.Context, string) ([]byte, error) {
	return g.video, g.videoErr
}

func (g *fakeGateway) recordedRequests() []*llm.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*llm.Request(nil), g.requests...)
}

// fakeExtractor delegates to a scripted function.
type fakeExtractor struct {
	fn func(ctx context.Context, in extract.Input, report extract.ProgressFunc) (*extract.Result, error)
}

func (f *fakeExtractor) Extract(ctx context.Context, in extract.Input, report extract.ProgressFunc) (*extract.Result, error) {
	return f.fn(ctx, in, report)
}

func textExtractor() *fakeExtractor {
	return &fakeExtractor{fn: func(_ context.Context, in extract.Input, report extract.ProgressFunc) (*extract.Result, error) {
		if report != nil {
			report(50)
		}
		text := string(in.Data)
		return &extract.Result{
			Kind:      extract.KindText,
			Text:      text,
			MimeType:  in.MimeType,
			Grounding: text,
		}, nil
	}}
}

// memSnapshotRepo is an in-memory contract.SnapshotRepository.
type memSnapshotRepo struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemSnapshotRepo() *memSnapshotRepo {
	return &memSnapshotRepo{data: make(map[string][]byte)}
}

func (r *memSnapshotRepo) Save(_ context.Context, key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = append([]byte(nil), payload...)
	return nil
}

func (r *memSnapshotRepo) Load(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, ok := r.data[key]
	if !ok {
		return nil, contract.ErrSnapshotNotFound
	}
	return append([]byte(nil), payload...), nil
}

func mustUUID(s string) uuid.UUID {
	return uuid.MustParse(s)
}

func newTestStore() contract.NotebookStore {
	return memory.NewNotebookStore()
}

func seedNotebook(store contract.NotebookStore, name string) *entity.Notebook {
	nb := &entity.Notebook{
		Id:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	_ = store.Create(context.Background(), nb)
	return nb
}

func seedReadySource(store contract.NotebookStore, notebookId uuid.UUID, name, grounding string) *entity.Source {
	src := &entity.Source{
		Id:           uuid.New(),
		Name:         name,
		OriginalType: "text/plain",
		Status:       entity.SourceStatusReady,
		Progress:     100,
		Content: &entity.SourceContent{
			Kind: entity.ContentKindText,
			Text: grounding,
		},
		Grounding: &grounding,
		CreatedAt: time.Now(),
	}
	_, _ = store.Update(context.Background(), notebookId, func(n *entity.Notebook) error {
		n.Sources = append(n.Sources, src)
		return nil
	})
	return src
}
