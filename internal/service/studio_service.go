package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"notebooklm-be/internal/constant"
	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/mapper"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/contract"
	"notebooklm-be/pkg/llm"
	"notebooklm-be/pkg/utils"
)

// IStudioService runs artifact generation jobs. A job is registered in
// loading state synchronously and transitions exactly once to completed or
// error in the background.
type IStudioService interface {
	Generate(ctx context.Context, notebookId uuid.UUID, req *dto.GenerateStudioRequest) (*dto.StudioItemResponse, error)
	GetAll(ctx context.Context, notebookId uuid.UUID) ([]*dto.StudioItemResponse, error)
	GetDetail(ctx context.Context, notebookId, itemId uuid.UUID) (*dto.StudioItemDetailResponse, error)
	Delete(ctx context.Context, notebookId, itemId uuid.UUID) error
}

type studioService struct {
	store       contract.NotebookStore
	gateway     IAiGateway
	publisher   IPublisherService
	persistence IPersistenceService
	mapper      *mapper.NotebookMapper
	logger      logger.ILogger

	jobTimeout time.Duration
}

func NewStudioService(
	store contract.NotebookStore,
	gateway IAiGateway,
	publisher IPublisherService,
	persistence IPersistenceService,
	sysLogger logger.ILogger,
) IStudioService {
	return &studioService{
		store:       store,
		gateway:     gateway,
		publisher:   publisher,
		persistence: persistence,
		mapper:      mapper.NewNotebookMapper(),
		logger:      sysLogger,
		jobTimeout:  15 * time.Minute,
	}
}

func (s *studioService) Generate(ctx context.Context, notebookId uuid.UUID, req *dto.GenerateStudioRequest) (*dto.StudioItemResponse, error) {
	notebook, err := s.store.Get(ctx, notebookId)
	if err != nil {
		return nil, err
	}

	eligible := notebook.EligibleSources()
	if len(eligible) == 0 {
		return nil, ErrNoReadySources
	}

	studioType := entity.StudioType(req.Type)
	item := &entity.StudioItem{
		Id:          uuid.New(),
		Type:        studioType,
		Status:      entity.StudioStatusLoading,
		Name:        constant.StudioTypeNames[req.Type],
		Timestamp:   time.Now().Format("Jan 2, 2006 3:04 PM"),
		SourceCount: len(eligible),
		CreatedAt:   time.Now(),
	}

	_, err = s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		// Newest first.
		n.StudioHistory = append([]*entity.StudioItem{item}, n.StudioHistory...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.publisher.Publish(ctx, constant.TopicStudioStatus, dto.StudioStatusEvent{
		NotebookId: notebookId,
		ItemId:     item.Id,
		Type:       req.Type,
		Status:     string(entity.StudioStatusLoading),
	})

	material := buildMaterial(eligible)
	go s.runJob(notebookId, item.Id, studioType, material)

	return s.mapper.ToStudioItemResponse(item), nil
}

func (s *studioService) GetAll(ctx context.Context, notebookId uuid.UUID) ([]*dto.StudioItemResponse, error) {
	notebook, err := s.store.Get(ctx, notebookId)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToStudioItemResponses(notebook.StudioHistory), nil
}

func (s *studioService) GetDetail(ctx context.Context, notebookId, itemId uuid.UUID) (*dto.StudioItemDetailResponse, error) {
	notebook, err := s.store.Get(ctx, notebookId)
	if err != nil {
		return nil, err
	}
	item := notebook.FindStudioItem(itemId)
	if item == nil {
		return nil, contract.ErrStudioItemNotFound
	}
	return s.mapper.ToStudioItemDetailResponse(item), nil
}

func (s *studioService) Delete(ctx context.Context, notebookId, itemId uuid.UUID) error {
	_, err := s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		for i, item := range n.StudioHistory {
			if item.Id == itemId {
				n.StudioHistory = append(n.StudioHistory[:i], n.StudioHistory[i+1:]...)
				return nil
			}
		}
		return contract.ErrStudioItemNotFound
	})
	if err != nil {
		return err
	}
	if err := s.persistence.Persist(ctx); err != nil {
		s.logger.Warn("studio", "failed to persist snapshot", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

// runJob executes the generation in the background and commits the single
// loading -> terminal transition.
func (s *studioService) runJob(notebookId, itemId uuid.UUID, studioType entity.StudioType, material string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	data, err := s.generateData(ctx, studioType, material)
	if err != nil {
		s.logger.Error("studio", "generation failed", map[string]interface{}{
			"notebook_id": notebookId.String(),
			"item_id":     itemId.String(),
			"type":        string(studioType),
			"error":       err.Error(),
		})
		s.finishJob(ctx, notebookId, itemId, nil, err)
		return
	}
	s.finishJob(ctx, notebookId, itemId, data, nil)
}

func (s *studioService) generateData(ctx context.Context, studioType entity.StudioType, material string) (*entity.StudioData, error) {
	switch studioType {
	case entity.StudioTypeMindmap:
		return s.generateMindmap(ctx, material)
	case entity.StudioTypeReport:
		return s.generateReport(ctx, material)
	case entity.StudioTypeFlashcards:
		return s.generateFlashcards(ctx, material)
	case entity.StudioTypeQuiz:
		return s.generateQuiz(ctx, material)
	case entity.StudioTypeAudio:
		return s.generateAudio(ctx, material)
	case entity.StudioTypeVideo:
		return s.generateVideo(ctx, material)
	default:
		return nil, fmt.Errorf("unknown studio type: %s", studioType)
	}
}

func (s *studioService) finishJob(ctx context.Context, notebookId, itemId uuid.UUID, data *entity.StudioData, cause error) {
	var itemType, status, errMsg string
	_, err := s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		item := n.FindStudioItem(itemId)
		if item == nil {
			return contract.ErrStudioItemNotFound
		}
		if item.IsTerminal() {
			return nil
		}
		if cause != nil {
			item.Status = entity.StudioStatusError
			item.Error = cause.Error()
		} else {
			item.Status = entity.StudioStatusCompleted
			item.Data = data
		}
		itemType = string(item.Type)
		status = string(item.Status)
		errMsg = item.Error
		return nil
	})
	if err != nil {
		// Item or notebook deleted while the job ran; nothing to record.
		return
	}

	_ = s.publisher.Publish(ctx, constant.TopicStudioStatus, dto.StudioStatusEvent{
		NotebookId: notebookId,
		ItemId:     itemId,
		Type:       itemType,
		Status:     status,
		Error:      errMsg,
	})
	if err := s.persistence.Persist(ctx); err != nil {
		s.logger.Warn("studio", "failed to persist snapshot", map[string]interface{}{"error": err.Error()})
	}
}

func (s *studioService) generateMindmap(ctx context.Context, material string) (*entity.StudioData, error) {
	var root entity.MindMapNode
	err := s.gateway.GenerateJSON(ctx, &llm.Request{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf(constant.MindmapPrompt, material),
		}},
		Schema: mindmapSchema(3),
	}, &root)
	if err != nil {
		return nil, err
	}
	if root.Label == "" {
		return nil, fmt.Errorf("mindmap has no root label")
	}
	return &entity.StudioData{MindMap: &root}, nil
}

func (s *studioService) generateReport(ctx context.Context, material string) (*entity.StudioData, error) {
	html, err := s.gateway.Generate(ctx, &llm.Request{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf(constant.ReportPrompt, material),
		}},
	})
	if err != nil {
		return nil, err
	}
	html = strings.TrimSpace(llm.StripCodeFence(html))
	if html == "" {
		return nil, fmt.Errorf("report came back empty")
	}
	return &entity.StudioData{ReportHTML: html}, nil
}

func (s *studioService) generateFlashcards(ctx context.Context, material string) (*entity.StudioData, error) {
	var out struct {
		Cards []entity.Flashcard `json:"cards"`
	}
	err := s.gateway.GenerateJSON(ctx, &llm.Request{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf(constant.FlashcardsPrompt, material),
		}},
		Schema: flashcardsSchema(),
	}, &out)
	if err != nil {
		return nil, err
	}

	cards := make([]entity.Flashcard, 0, len(out.Cards))
	for _, card := range out.Cards {
		if card.Front != "" && card.Back != "" {
			cards = append(cards, card)
		}
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("no usable flashcards generated")
	}
	return &entity.StudioData{Flashcards: cards}, nil
}

func (s *studioService) generateQuiz(ctx context.Context, material string) (*entity.StudioData, error) {
	var out struct {
		Questions []entity.QuizQuestion `json:"questions"`
	}
	err := s.gateway.GenerateJSON(ctx, &llm.Request{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf(constant.QuizPrompt, material),
		}},
		Schema: quizSchema(),
	}, &out)
	if err != nil {
		return nil, err
	}

	questions := make([]entity.QuizQuestion, 0, len(out.Questions))
	for _, q := range out.Questions {
		if q.Question == "" || len(q.Options) < 2 {
			continue
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no usable quiz questions generated")
	}
	return &entity.StudioData{Quiz: questions}, nil
}

func (s *studioService) generateAudio(ctx context.Context, material string) (*entity.StudioData, error) {
	script, err := s.gateway.Generate(ctx, &llm.Request{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf(constant.AudioScriptPrompt, material),
		}},
	})
	if err != nil {
		return nil, err
	}

	audio, err := s.gateway.Synthesize(ctx, strings.TrimSpace(script))
	if err != nil {
		return nil, err
	}
	return &entity.StudioData{Audio: audio}, nil
}

func (s *studioService) generateVideo(ctx context.Context, material string) (*entity.StudioData, error) {
	topic, err := s.gateway.Generate(ctx, &llm.Request{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf(constant.VideoTopicPrompt, material),
		}},
	})
	if err != nil {
		return nil, err
	}

	video, err := s.gateway.SynthesizeVideo(ctx, fmt.Sprintf(constant.VideoOverviewPrompt, strings.TrimSpace(topic)))
	if err != nil {
		return nil, err
	}
	return &entity.StudioData{Video: video}, nil
}

// buildMaterial concatenates the grounding text of all eligible sources,
// each capped so one huge source cannot crowd out the rest.
func buildMaterial(eligible []*entity.Source) string {
	var b strings.Builder
	for _, src := range eligible {
		b.WriteString(src.Name)
		b.WriteString("\n")
		b.WriteString(utils.TruncateRunes(*src.Grounding, constant.GroundingTextCap))
		b.WriteString("\n\n")
	}
	return b.String()
}

// mindmapSchema builds the response schema to the given depth. Schemas
// cannot recurse, so the tree is bounded explicitly.
func mindmapSchema(depth int) *llm.Schema {
	node := &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"label": {Type: llm.TypeString},
		},
		Required: []string{"label"},
	}
	if depth > 1 {
		node.Properties["children"] = &llm.Schema{
			Type:  llm.TypeArray,
			Items: mindmapSchema(depth - 1),
		}
	}
	return node
}

func flashcardsSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"cards": {
				Type: llm.TypeArray,
				Items: &llm.Schema{
					Type: llm.TypeObject,
					Properties: map[string]*llm.Schema{
						"front": {Type: llm.TypeString},
						"back":  {Type: llm.TypeString},
					},
					Required: []string{"front", "back"},
				},
			},
		},
		Required: []string{"cards"},
	}
}

func quizSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"questions": {
				Type: llm.TypeArray,
				Items: &llm.Schema{
					Type: llm.TypeObject,
					Properties: map[string]*llm.Schema{
						"question":     {Type: llm.TypeString},
						"options":      {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}},
						"answer_index": {Type: llm.TypeInteger},
						"explanation":  {Type: llm.TypeString},
					},
					Required: []string{"question", "options", "answer_index"},
				},
			},
		},
		Required: []string{"questions"},
	}
}
