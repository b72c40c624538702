package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"notebooklm-be/internal/constant"
	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/mapper"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/contract"
)

type INotebookService interface {
	GetAll(ctx context.Context) ([]*dto.GetAllNotebookResponse, error)
	Create(ctx context.Context, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowNotebookResponse, error)
	Update(ctx context.Context, req *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID) error

	RenameSource(ctx context.Context, notebookId, sourceId uuid.UUID, name string) (*dto.SourceResponse, error)
	DeleteSource(ctx context.Context, notebookId, sourceId uuid.UUID) error
	GetSourceContent(ctx context.Context, notebookId, sourceId uuid.UUID) (*dto.SourceContentResponse, error)
}

type notebookService struct {
	store       contract.NotebookStore
	persistence IPersistenceService
	mapper      *mapper.NotebookMapper
	logger      logger.ILogger
}

func NewNotebookService(
	store contract.NotebookStore,
	persistence IPersistenceService,
	sysLogger logger.ILogger,
) INotebookService {
	return &notebookService{
		store:       store,
		persistence: persistence,
		mapper:      mapper.NewNotebookMapper(),
		logger:      sysLogger,
	}
}

func (s *notebookService) GetAll(ctx context.Context) ([]*dto.GetAllNotebookResponse, error) {
	notebooks, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	activeId, hasActive := s.store.ActiveId(ctx)

	result := make([]*dto.GetAllNotebookResponse, 0, len(notebooks))
	for _, n := range notebooks {
		result = append(result, s.mapper.ToGetAllResponse(n, hasActive && n.Id == activeId))
	}
	return result, nil
}

func (s *notebookService) Create(ctx context.Context, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error) {
	name := req.Name
	if name == "" {
		name = constant.DefaultNotebookName
	}

	notebook := &entity.Notebook{
		Id:            uuid.New(),
		Name:          name,
		Sources:       make([]*entity.Source, 0),
		ChatHistory:   make([]*entity.ChatMessage, 0),
		StudioHistory: make([]*entity.StudioItem, 0),
		CreatedAt:     time.Now(),
	}
	if err := s.store.Create(ctx, notebook); err != nil {
		return nil, err
	}

	// A freshly created notebook is what the user works in next.
	if err := s.store.SetActive(ctx, notebook.Id); err != nil {
		return nil, err
	}
	s.persistAsync(ctx)

	return &dto.CreateNotebookResponse{Id: notebook.Id, Name: notebook.Name}, nil
}

func (s *notebookService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowNotebookResponse, error) {
	notebook, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	activeId, hasActive := s.store.ActiveId(ctx)
	return s.mapper.ToShowResponse(notebook, hasActive && activeId == id), nil
}

func (s *notebookService) Update(ctx context.Context, req *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error) {
	updated, err := s.store.Update(ctx, req.Id, func(n *entity.Notebook) error {
		now := time.Now()
		n.Name = req.Name
		n.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.persistAsync(ctx)

	return &dto.UpdateNotebookResponse{Id: updated.Id, Name: updated.Name}, nil
}

func (s *notebookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.persistAsync(ctx)
	return nil
}

func (s *notebookService) SetActive(ctx context.Context, id uuid.UUID) error {
	if err := s.store.SetActive(ctx, id); err != nil {
		return err
	}
	s.persistAsync(ctx)
	return nil
}

func (s *notebookService) RenameSource(ctx context.Context, notebookId, sourceId uuid.UUID, name string) (*dto.SourceResponse, error) {
	var renamed *entity.Source
	_, err := s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		src := n.FindSource(sourceId)
		if src == nil {
			return contract.ErrSourceNotFound
		}
		src.Name = name
		renamed = src.Clone()
		now := time.Now()
		n.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.persistAsync(ctx)

	return s.mapper.ToSourceResponse(renamed), nil
}

func (s *notebookService) DeleteSource(ctx context.Context, notebookId, sourceId uuid.UUID) error {
	_, err := s.store.Update(ctx, notebookId, func(n *entity.Notebook) error {
		for i, src := range n.Sources {
			if src.Id == sourceId {
				n.Sources = append(n.Sources[:i], n.Sources[i+1:]...)
				now := time.Now()
				n.UpdatedAt = &now
				return nil
			}
		}
		return contract.ErrSourceNotFound
	})
	if err != nil {
		return err
	}
	s.persistAsync(ctx)
	return nil
}

func (s *notebookService) GetSourceContent(ctx context.Context, notebookId, sourceId uuid.UUID) (*dto.SourceContentResponse, error) {
	notebook, err := s.store.Get(ctx, notebookId)
	if err != nil {
		return nil, err
	}
	src := notebook.FindSource(sourceId)
	if src == nil {
		return nil, contract.ErrSourceNotFound
	}
	return s.mapper.ToSourceContentResponse(src), nil
}

func (s *notebookService) persistAsync(ctx context.Context) {
	if s.persistence == nil {
		return
	}
	if err := s.persistence.Persist(ctx); err != nil {
		s.logger.Warn("notebook", "failed to persist snapshot", map[string]interface{}{"error": err.Error()})
	}
}
