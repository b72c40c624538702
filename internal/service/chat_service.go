package service

import (
	"context"
	"errors"
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
	"notebooklm-be/pkg/ai/citation"
	"notebooklm-be/pkg/llm"
	"notebooklm-be/pkg/utils"
)

// ErrNoReadySources is returned when a notebook has nothing to ground an
// answer or a generation on.
var ErrNoReadySources = errors.New("notebook has no ready sources")

type IChatService interface {
	SendChat(ctx context.Context, notebookId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, notebookId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	ClearHistory(ctx context.Context, notebookId uuid.UUID) error
}

type chatService struct {
	store       contract.NotebookStore
	gateway     IAiGateway
	persistence IPersistenceService
	mapper      *mapper.NotebookMapper
	logger      logger.ILogger
}

func NewChatService(
	store contract.NotebookStore,
	gateway IAiGateway,
	persistence IPersistenceService,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		store:       store,
		gateway:     gateway,
		persistence: persistence,
		mapper:      mapper.NewNotebookMapper(),
		logger:      sysLogger,
	}
}

func (s *chatService) SendChat(ctx context.Context, notebookId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	notebook, err := s.store.Get(ctx, notebookId)
	if err != nil {
		return nil, err
	}

	ready := notebook.ReadySources()
	if len(ready) == 0 {
		return nil, ErrNoReadySources
	}

	// 1. Record the user message before calling the model, so it survives
	// a failed generation.
	sent := &entity.ChatMessage{
		Id:        uuid.New(),
		Role:      constant.ChatMessageRoleUser,
		Content:   req.Chat,
		CreatedAt: time.Now(),
	}
	_, err = s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		n.ChatHistory = append(n.ChatHistory, sent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 2. Generate the grounded answer.
	request := buildChatRequest(notebook, ready, req.Chat)
	answer, genErr := s.gateway.Generate(ctx, request)
	var citations []dto.CitationDTO
	if genErr != nil {
		// A failed generation still produces a model turn; the
		// conversation must not silently swallow the question.
		s.logger.Error("chat", "generation failed", map[string]interface{}{
			"notebook_id": notebookId.String(),
			"error":       genErr.Error(),
		})
		answer = constant.ChatErrorReply
	} else {
		citations = resolveCitations(answer, ready)
	}

	reply := &entity.ChatMessage{
		Id:        uuid.New(),
		Role:      constant.ChatMessageRoleModel,
		Content:   answer,
		CreatedAt: time.Now(),
	}
	_, err = s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		n.ChatHistory = append(n.ChatHistory, reply)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.persistence.Persist(ctx); err != nil {
		s.logger.Warn("chat", "failed to persist snapshot", map[string]interface{}{"error": err.Error()})
	}

	return &dto.SendChatResponse{
		Sent:  s.mapper.ToChatMessageResponse(sent, nil),
		Reply: s.mapper.ToChatMessageResponse(reply, citations),
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, notebookId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	notebook, err := s.store.Get(ctx, notebookId)
	if err != nil {
		return nil, err
	}

	ready := notebook.ReadySources()
	responses := make([]*dto.ChatMessageResponse, 0, len(notebook.ChatHistory))
	for _, msg := range notebook.ChatHistory {
		var citations []dto.CitationDTO
		if msg.Role == constant.ChatMessageRoleModel {
			citations = resolveCitations(msg.Content, ready)
		}
		responses = append(responses, s.mapper.ToChatMessageResponse(msg, citations))
	}
	return responses, nil
}

func (s *chatService) ClearHistory(ctx context.Context, notebookId uuid.UUID) error {
	_, err := s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		n.ChatHistory = n.ChatHistory[:0]
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.persistence.Persist(ctx); err != nil {
		s.logger.Warn("chat", "failed to persist snapshot", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

// buildChatRequest assembles the grounded request: the system prompt with
// the numbered source material, the prior conversation, and the new
// question. Source k in the system block matches citation marker [k].
func buildChatRequest(notebook *entity.Notebook, ready []*entity.Source, question string) *llm.Request {
	var b strings.Builder
	b.WriteString(constant.ChatSystemPrompt)
	b.WriteString("\n\nSources:\n")
	for i, src := range ready {
		grounding := ""
		if src.Grounding != nil {
			grounding = utils.TruncateRunes(*src.Grounding, constant.GroundingTextCap)
		}
		b.WriteString(fmt.Sprintf("\n[%d] %s\n%s\n", i+1, src.Name, grounding))
	}

	messages := make([]llm.Message, 0, len(notebook.ChatHistory)+1)
	for _, msg := range notebook.ChatHistory {
		role := llm.RoleUser
		if msg.Role == constant.ChatMessageRoleModel {
			role = llm.RoleModel
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	return &llm.Request{
		System:   b.String(),
		Messages: messages,
	}
}

func resolveCitations(answer string, ready []*entity.Source) []dto.CitationDTO {
	refs := make([]citation.SourceRef, 0, len(ready))
	for _, src := range ready {
		refs = append(refs, citation.SourceRef{Id: src.Id.String(), Name: src.Name})
	}

	resolved := citation.Resolve(answer, refs)
	if !resolved.HasCites {
		return nil
	}

	citations := make([]dto.CitationDTO, 0, len(resolved.Citations))
	for _, c := range resolved.Citations {
		id, err := uuid.Parse(c.SourceId)
		if err != nil {
			continue
		}
		citations = append(citations, dto.CitationDTO{
			Index:      c.Index,
			SourceId:   id,
			SourceName: c.SourceName,
		})
	}
	return citations
}
