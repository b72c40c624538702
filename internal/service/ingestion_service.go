package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"notebooklm-be/internal/constant"
	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/mapper"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/contract"
	"notebooklm-be/pkg/extract"
	"notebooklm-be/pkg/llm"
	"notebooklm-be/pkg/utils"
)

// ISourceExtractor is the extraction pipeline the ingestion service feeds.
type ISourceExtractor interface {
	Extract(ctx context.Context, in extract.Input, report extract.ProgressFunc) (*extract.Result, error)
}

// IIngestionService accepts new sources for a notebook. Placeholders are
// registered synchronously so the caller sees them immediately; extraction
// runs in the background, one source at a time per notebook.
type IIngestionService interface {
	AddFiles(ctx context.Context, notebookId uuid.UUID, items []dto.IngestFileItem) ([]*dto.SourceResponse, error)
	AddURL(ctx context.Context, notebookId uuid.UUID, url string) (*dto.SourceResponse, error)
}

type ingestItem struct {
	sourceId uuid.UUID
	input    extract.Input
}

type ingestionService struct {
	store       contract.NotebookStore
	extractor   ISourceExtractor
	gateway     IAiGateway
	publisher   IPublisherService
	persistence IPersistenceService
	mapper      *mapper.NotebookMapper
	logger      logger.ILogger

	// One worker per notebook at a time; batches on the same notebook
	// queue up behind each other.
	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	sourceTimeout time.Duration
}

func NewIngestionService(
	store contract.NotebookStore,
	extractor ISourceExtractor,
	gateway IAiGateway,
	publisher IPublisherService,
	persistence IPersistenceService,
	sysLogger logger.ILogger,
) IIngestionService {
	return &ingestionService{
		store:         store,
		extractor:     extractor,
		gateway:       gateway,
		publisher:     publisher,
		persistence:   persistence,
		mapper:        mapper.NewNotebookMapper(),
		logger:        sysLogger,
		locks:         make(map[uuid.UUID]*sync.Mutex),
		sourceTimeout: 10 * time.Minute,
	}
}

func (s *ingestionService) AddFiles(ctx context.Context, notebookId uuid.UUID, items []dto.IngestFileItem) ([]*dto.SourceResponse, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no files provided")
	}

	batch := make([]ingestItem, 0, len(items))
	for _, item := range items {
		batch = append(batch, ingestItem{
			sourceId: uuid.New(),
			input: extract.Input{
				Name:     item.Name,
				MimeType: item.MimeType,
				Data:     item.Data,
			},
		})
	}
	return s.enqueue(ctx, notebookId, batch)
}

func (s *ingestionService) AddURL(ctx context.Context, notebookId uuid.UUID, url string) (*dto.SourceResponse, error) {
	responses, err := s.enqueue(ctx, notebookId, []ingestItem{{
		sourceId: uuid.New(),
		input:    extract.Input{Name: url, URL: url},
	}})
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

// enqueue registers placeholder sources on the notebook and kicks off the
// background batch. The returned responses are the placeholders in
// processing state.
func (s *ingestionService) enqueue(ctx context.Context, notebookId uuid.UUID, batch []ingestItem) ([]*dto.SourceResponse, error) {
	placeholders := make([]*entity.Source, 0, len(batch))
	for _, item := range batch {
		placeholders = append(placeholders, placeholderSource(item))
	}

	_, err := s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		for _, src := range placeholders {
			n.Sources = append(n.Sources, src)
		}
		now := time.Now()
		n.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.processBatch(notebookId, batch)

	return s.mapper.ToSourceResponses(placeholders), nil
}

func placeholderSource(item ingestItem) *entity.Source {
	originalType := item.input.MimeType
	if item.input.URL != "" {
		originalType = entity.OriginalTypeWebsite
		if extract.IsYoutubeURL(item.input.URL) {
			originalType = entity.OriginalTypeYoutube
		}
	}
	return &entity.Source{
		Id:           item.sourceId,
		Name:         item.input.Name,
		OriginalType: originalType,
		Status:       entity.SourceStatusProcessing,
		Progress:     0,
		CreatedAt:    time.Now(),
	}
}

// processBatch runs in the background with its own context: the request
// that enqueued the batch is long gone before extraction finishes.
func (s *ingestionService) processBatch(notebookId uuid.UUID, batch []ingestItem) {
	lock := s.notebookLock(notebookId)
	lock.Lock()
	defer lock.Unlock()

	ctx := context.Background()
	for _, item := range batch {
		s.processOne(ctx, notebookId, item)
	}

	s.finishBatch(ctx, notebookId)
	if err := s.persistence.Persist(ctx); err != nil {
		s.logger.Warn("ingestion", "failed to persist snapshot", map[string]interface{}{"error": err.Error()})
	}
}

func (s *ingestionService) processOne(ctx context.Context, notebookId uuid.UUID, item ingestItem) {
	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	s.logger.Info("ingestion", "processing source", map[string]interface{}{
		"notebook_id": notebookId.String(),
		"source_id":   item.sourceId.String(),
		"name":        item.input.Name,
	})

	result, err := s.extractor.Extract(ctx, item.input, func(progress int) {
		s.reportProgress(ctx, notebookId, item.sourceId, progress)
	})
	if err != nil {
		s.failSource(ctx, notebookId, item.sourceId, err)
		return
	}
	s.completeSource(ctx, notebookId, item.sourceId, result)
}

func (s *ingestionService) reportProgress(ctx context.Context, notebookId, sourceId uuid.UUID, progress int) {
	_, err := s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		src := n.FindSource(sourceId)
		if src == nil {
			return contract.ErrSourceNotFound
		}
		if !src.IsTerminal() && progress > src.Progress {
			src.Progress = progress
		}
		return nil
	})
	if err != nil {
		return
	}
	_ = s.publisher.Publish(ctx, constant.TopicSourceProgress, dto.SourceProgressEvent{
		NotebookId: notebookId,
		SourceId:   sourceId,
		Progress:   progress,
	})
}

func (s *ingestionService) completeSource(ctx context.Context, notebookId, sourceId uuid.UUID, result *extract.Result) {
	grounding := result.Grounding
	_, err := s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		src := n.FindSource(sourceId)
		if src == nil {
			return contract.ErrSourceNotFound
		}
		src.Status = entity.SourceStatusReady
		src.Progress = 100
		src.Error = ""
		src.Content = &entity.SourceContent{
			Kind:      entity.ContentKind(result.Kind),
			Text:      result.Text,
			MimeType:  result.MimeType,
			Data:      result.Data,
			PageCount: result.PageCount,
			Title:     result.Title,
			URL:       result.URL,
		}
		src.Grounding = &grounding
		if result.Title != "" {
			src.Name = result.Title
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ingestion", "failed to store extracted source", map[string]interface{}{
			"source_id": sourceId.String(),
			"error":     err.Error(),
		})
		return
	}

	_ = s.publisher.Publish(ctx, constant.TopicSourceStatus, dto.SourceStatusEvent{
		NotebookId: notebookId,
		SourceId:   sourceId,
		Status:     string(entity.SourceStatusReady),
	})
}

func (s *ingestionService) failSource(ctx context.Context, notebookId, sourceId uuid.UUID, cause error) {
	s.logger.Error("ingestion", "source processing failed", map[string]interface{}{
		"notebook_id": notebookId.String(),
		"source_id":   sourceId.String(),
		"error":       cause.Error(),
	})

	_, err := s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		src := n.FindSource(sourceId)
		if src == nil {
			return contract.ErrSourceNotFound
		}
		src.Status = entity.SourceStatusError
		src.Progress = 100
		src.Error = cause.Error()
		src.Content = nil
		src.Grounding = nil
		return nil
	})
	if err != nil {
		return
	}

	_ = s.publisher.Publish(ctx, constant.TopicSourceStatus, dto.SourceStatusEvent{
		NotebookId: notebookId,
		SourceId:   sourceId,
		Status:     string(entity.SourceStatusError),
		Error:      cause.Error(),
	})
}

// finishBatch runs the post-batch steps for a still-unnamed notebook: an
// AI-suggested title and the one-time welcome message. Batches into an
// already-named notebook leave both alone.
func (s *ingestionService) finishBatch(ctx context.Context, notebookId uuid.UUID) {
	notebook, err := s.store.Get(ctx, notebookId)
	if err != nil {
		return
	}

	eligible := notebook.EligibleSources()
	if len(eligible) == 0 {
		return
	}

	wasDefault := notebook.Name == constant.DefaultNotebookName
	name := notebook.Name
	if wasDefault {
		if suggested := s.suggestName(ctx, eligible); suggested != "" {
			name = suggested
		}
	}

	_, err = s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		if n.Name != name {
			n.Name = name
			now := time.Now()
			n.UpdatedAt = &now
		}
		if wasDefault && len(n.ChatHistory) == 0 {
			n.ChatHistory = append(n.ChatHistory, &entity.ChatMessage{
				Id:        uuid.New(),
				Role:      constant.ChatMessageRoleModel,
				Content:   fmt.Sprintf(constant.WelcomeMessageFormat, n.Name),
				CreatedAt: time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("ingestion", "failed to finalize batch", map[string]interface{}{"error": err.Error()})
	}
}

// suggestName asks the model for a short notebook title based on the
// ingested material. Failures are not fatal: the default name stays.
func (s *ingestionService) suggestName(ctx context.Context, eligible []*entity.Source) string {
	var b strings.Builder
	for _, src := range eligible {
		b.WriteString(*src.Grounding)
		b.WriteString("\n\n")
	}
	material := utils.TruncateRunes(b.String(), constant.NamingTextCap)

	suggested, err := s.gateway.Generate(ctx, &llm.Request{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf(constant.NotebookNamingPrompt, material),
		}},
	})
	if err != nil {
		s.logger.Warn("ingestion", "notebook naming failed", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return strings.Trim(strings.TrimSpace(suggested), `"`)
}

func (s *ingestionService) notebookLock(notebookId uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[notebookId]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[notebookId] = lock
	}
	return lock
}
