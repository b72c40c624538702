package entity

import (
	"time"

	"github.com/google/uuid"
)

// StudioType identifies the kind of generated artifact.
type StudioType string

const (
	StudioTypeMindmap    StudioType = "mindmap"
	StudioTypeAudio      StudioType = "audio"
	StudioTypeReport     StudioType = "report"
	StudioTypeFlashcards StudioType = "flashcards"
	StudioTypeQuiz       StudioType = "quiz"
	StudioTypeVideo      StudioType = "video"
)

// StudioStatus is the lifecycle state of a generation job.
type StudioStatus string

const (
	StudioStatusLoading   StudioStatus = "loading"
	StudioStatusCompleted StudioStatus = "completed"
	StudioStatusError     StudioStatus = "error"
)

// MindMapNode is one labelled node of a hierarchical mind map.
type MindMapNode struct {
	Label    string         `json:"label"`
	Children []*MindMapNode `json:"children,omitempty"`
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
}

// StudioData is a tagged union keyed by the owning item's Type: exactly one
// variant is populated. Audio and Video carry binary payloads that the
// persistence projection drops.
type StudioData struct {
	MindMap    *MindMapNode   `json:"mindmap,omitempty"`
	ReportHTML string         `json:"report_html,omitempty"`
	Flashcards []Flashcard    `json:"flashcards,omitempty"`
	Quiz       []QuizQuestion `json:"quiz,omitempty"`
	Audio      []byte         `json:"audio,omitempty"`
	Video      []byte         `json:"video,omitempty"`
}

// StudioItem records one generation job. It is created in loading state and
// transitions exactly once to completed (Data set) or error (Error set).
type StudioItem struct {
	Id          uuid.UUID    `json:"id"`
	Type        StudioType   `json:"type"`
	Status      StudioStatus `json:"status"`
	Name        string       `json:"name"`
	Timestamp   string       `json:"timestamp"` // human-readable, display only
	SourceCount int          `json:"source_count"`
	Data        *StudioData  `json:"data,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// IsTerminal reports whether the job reached a final state.
func (i *StudioItem) IsTerminal() bool {
	return i.Status == StudioStatusCompleted || i.Status == StudioStatusError
}

func (i *StudioItem) Clone() *StudioItem {
	if i == nil {
		return nil
	}
	cp := *i
	if i.Data != nil {
		data := *i.Data
		if i.Data.Audio != nil {
			data.Audio = make([]byte, len(i.Data.Audio))
			copy(data.Audio, i.Data.Audio)
		}
		if i.Data.Video != nil {
			data.Video = make([]byte, len(i.Data.Video))
			copy(data.Video, i.Data.Video)
		}
		if i.Data.Flashcards != nil {
			data.Flashcards = append([]Flashcard(nil), i.Data.Flashcards...)
		}
		if i.Data.Quiz != nil {
			data.Quiz = make([]QuizQuestion, len(i.Data.Quiz))
			for qi, q := range i.Data.Quiz {
				q.Options = append([]string(nil), q.Options...)
				data.Quiz[qi] = q
			}
		}
		data.MindMap = cloneMindMap(i.Data.MindMap)
		cp.Data = &data
	}
	return &cp
}

func cloneMindMap(n *MindMapNode) *MindMapNode {
	if n == nil {
		return nil
	}
	cp := &MindMapNode{Label: n.Label}
	for _, child := range n.Children {
		cp.Children = append(cp.Children, cloneMindMap(child))
	}
	return cp
}
