package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"notebooklm-be/internal/entity"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/contract"
)

const (
	// SnapshotKey is the fixed key the whole application state lives under.
	SnapshotKey = "notebooklm.state"

	// SnapshotVersion guards against loading snapshots written by an
	// incompatible build.
	SnapshotVersion = 1
)

// Snapshot is the persisted projection of all in-memory state.
type Snapshot struct {
	Version          int                `json:"version"`
	ActiveNotebookId *uuid.UUID         `json:"active_notebook_id,omitempty"`
	Notebooks        []*entity.Notebook `json:"notebooks"`
}

// IPersistenceService writes the sanitized state snapshot after mutations
// and restores it at startup.
type IPersistenceService interface {
	Persist(ctx context.Context) error
	Restore(ctx context.Context) error
}

type persistenceService struct {
	store     contract.NotebookStore
	snapshots contract.SnapshotRepository
	logger    logger.ILogger
}

func NewPersistenceService(
	store contract.NotebookStore,
	snapshots contract.SnapshotRepository,
	sysLogger logger.ILogger,
) IPersistenceService {
	return &persistenceService{
		store:     store,
		snapshots: snapshots,
		logger:    sysLogger,
	}
}

func (s *persistenceService) Persist(ctx context.Context) error {
	notebooks, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	snapshot := &Snapshot{
		Version:   SnapshotVersion,
		Notebooks: notebooks,
	}
	if activeId, ok := s.store.ActiveId(ctx); ok {
		snapshot.ActiveNotebookId = &activeId
	}
	Sanitize(snapshot)

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.snapshots.Save(ctx, SnapshotKey, payload)
}

func (s *persistenceService) Restore(ctx context.Context) error {
	payload, err := s.snapshots.Load(ctx, SnapshotKey)
	if err != nil {
		if errors.Is(err, contract.ErrSnapshotNotFound) {
			s.logger.Info("persistence", "no snapshot to restore", nil)
			return nil
		}
		return err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return err
	}
	if snapshot.Version != SnapshotVersion {
		s.logger.Warn("persistence", "snapshot version mismatch, starting empty", map[string]interface{}{
			"found":    snapshot.Version,
			"expected": SnapshotVersion,
		})
		return nil
	}

	activeId := uuid.Nil
	if snapshot.ActiveNotebookId != nil {
		activeId = *snapshot.ActiveNotebookId
	}
	if err := s.store.ReplaceAll(ctx, snapshot.Notebooks, activeId); err != nil {
		return err
	}

	s.logger.Info("persistence", "snapshot restored", map[string]interface{}{
		"notebooks": len(snapshot.Notebooks),
	})
	return nil
}

// Sanitize strips what must not be persisted, in place. Binary source
// bytes are dropped (the metadata stays so the source remains listed and
// grounded), completed audio and video payloads are cleared, and work that
// was still in flight is marked failed: it cannot resume in a new process.
func Sanitize(snapshot *Snapshot) {
	for _, n := range snapshot.Notebooks {
		for _, src := range n.Sources {
			if src.Content != nil {
				src.Content.Data = nil
			}
			if src.Status == entity.SourceStatusProcessing {
				src.Status = entity.SourceStatusError
				src.Progress = 100
				src.Error = "processing interrupted"
				src.Content = nil
				src.Grounding = nil
			}
		}
		for _, item := range n.StudioHistory {
			if item.Data != nil {
				item.Data.Audio = nil
				item.Data.Video = nil
			}
			if item.Status == entity.StudioStatusLoading {
				item.Status = entity.StudioStatusError
				item.Error = "generation interrupted"
			}
		}
	}
}
