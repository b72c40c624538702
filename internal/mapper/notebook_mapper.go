package mapper

import (
	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/entity"
)

// NotebookMapper maps domain entities to API responses. Binary source
// content never appears in list or detail views; the reader fetches it
// through the dedicated content endpoint.
type NotebookMapper struct{}

func NewNotebookMapper() *NotebookMapper {
	return &NotebookMapper{}
}

func (m *NotebookMapper) ToSourceResponse(s *entity.Source) *dto.SourceResponse {
	res := &dto.SourceResponse{
		Id:           s.Id,
		Name:         s.Name,
		OriginalType: s.OriginalType,
		Status:       string(s.Status),
		Progress:     s.Progress,
		Error:        s.Error,
		CreatedAt:    s.CreatedAt,
	}
	if s.Content != nil {
		res.Kind = string(s.Content.Kind)
		res.PageCount = s.Content.PageCount
		res.URL = s.Content.URL
	}
	return res
}

func (m *NotebookMapper) ToSourceResponses(sources []*entity.Source) []*dto.SourceResponse {
	out := make([]*dto.SourceResponse, 0, len(sources))
	for _, s := range sources {
		out = append(out, m.ToSourceResponse(s))
	}
	return out
}

func (m *NotebookMapper) ToChatMessageResponse(msg *entity.ChatMessage, citations []dto.CitationDTO) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:        msg.Id,
		Role:      msg.Role,
		Chat:      msg.Content,
		Citations: citations,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *NotebookMapper) ToChatMessageResponses(history []*entity.ChatMessage) []*dto.ChatMessageResponse {
	out := make([]*dto.ChatMessageResponse, 0, len(history))
	for _, msg := range history {
		out = append(out, m.ToChatMessageResponse(msg, nil))
	}
	return out
}

func (m *NotebookMapper) ToStudioItemResponse(item *entity.StudioItem) *dto.StudioItemResponse {
	return &dto.StudioItemResponse{
		Id:          item.Id,
		Type:        string(item.Type),
		Status:      string(item.Status),
		Name:        item.Name,
		Timestamp:   item.Timestamp,
		SourceCount: item.SourceCount,
		Error:       item.Error,
		CreatedAt:   item.CreatedAt,
	}
}

func (m *NotebookMapper) ToStudioItemResponses(items []*entity.StudioItem) []*dto.StudioItemResponse {
	out := make([]*dto.StudioItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, m.ToStudioItemResponse(item))
	}
	return out
}

func (m *NotebookMapper) ToStudioItemDetailResponse(item *entity.StudioItem) *dto.StudioItemDetailResponse {
	res := &dto.StudioItemDetailResponse{
		StudioItemResponse: *m.ToStudioItemResponse(item),
	}
	if item.Data != nil {
		res.MindMap = item.Data.MindMap
		res.ReportHTML = item.Data.ReportHTML
		res.Flashcards = item.Data.Flashcards
		res.Quiz = item.Data.Quiz
		res.Audio = item.Data.Audio
		res.Video = item.Data.Video
	}
	return res
}

func (m *NotebookMapper) ToGetAllResponse(n *entity.Notebook, active bool) *dto.GetAllNotebookResponse {
	return &dto.GetAllNotebookResponse{
		Id:          n.Id,
		Name:        n.Name,
		SourceCount: len(n.Sources),
		Active:      active,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func (m *NotebookMapper) ToShowResponse(n *entity.Notebook, active bool) *dto.ShowNotebookResponse {
	return &dto.ShowNotebookResponse{
		Id:            n.Id,
		Name:          n.Name,
		Active:        active,
		Sources:       m.ToSourceResponses(n.Sources),
		ChatHistory:   m.ToChatMessageResponses(n.ChatHistory),
		StudioHistory: m.ToStudioItemResponses(n.StudioHistory),
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func (m *NotebookMapper) ToSourceContentResponse(s *entity.Source) *dto.SourceContentResponse {
	res := &dto.SourceContentResponse{Id: s.Id}
	if s.Content == nil {
		return res
	}
	res.Kind = string(s.Content.Kind)
	res.MimeType = s.Content.MimeType
	res.Text = s.Content.Text
	res.Data = s.Content.Data
	res.Title = s.Content.Title
	res.URL = s.Content.URL
	return res
}
