package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notebook is a named collection of sources, its conversation, and the
// artifacts generated from it. Source order is insertion order and is
// meaningful: citation indexes resolve against the ready subsequence in
// this order. StudioHistory is kept newest first.
type Notebook struct {
	Id            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Sources       []*Source      `json:"sources"`
	ChatHistory   []*ChatMessage `json:"chat_history"`
	StudioHistory []*StudioItem  `json:"studio_history"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
}

// ReadySources returns the subsequence of sources with status ready, in
// insertion order. Citation index k refers to ReadySources()[k-1].
func (n *Notebook) ReadySources() []*Source {
	ready := make([]*Source, 0, len(n.Sources))
	for _, s := range n.Sources {
		if s.Status == SourceStatusReady {
			ready = append(ready, s)
		}
	}
	return ready
}

// EligibleSources returns ready sources with non-empty grounding text.
func (n *Notebook) EligibleSources() []*Source {
	eligible := make([]*Source, 0, len(n.Sources))
	for _, s := range n.Sources {
		if s.EligibleForGeneration() {
			eligible = append(eligible, s)
		}
	}
	return eligible
}

// FindSource returns the source with the given id, or nil.
func (n *Notebook) FindSource(id uuid.UUID) *Source {
	for _, s := range n.Sources {
		if s.Id == id {
			return s
		}
	}
	return nil
}

// FindStudioItem returns the studio item with the given id, or nil.
func (n *Notebook) FindStudioItem(id uuid.UUID) *StudioItem {
	for _, item := range n.StudioHistory {
		if item.Id == id {
			return item
		}
	}
	return nil
}

// Clone returns a deep copy of the notebook and everything it owns.
func (n *Notebook) Clone() *Notebook {
	if n == nil {
		return nil
	}
	cp := *n
	if n.UpdatedAt != nil {
		updated := *n.UpdatedAt
		cp.UpdatedAt = &updated
	}
	cp.Sources = make([]*Source, len(n.Sources))
	for i, s := range n.Sources {
		cp.Sources[i] = s.Clone()
	}
	cp.ChatHistory = make([]*ChatMessage, len(n.ChatHistory))
	for i, m := range n.ChatHistory {
		cp.ChatHistory[i] = m.Clone()
	}
	cp.StudioHistory = make([]*StudioItem, len(n.StudioHistory))
	for i, item := range n.StudioHistory {
		cp.StudioHistory[i] = item.Clone()
	}
	return &cp
}
