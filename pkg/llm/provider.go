package llm

import (
	"context"
)

// Standard roles in provider-agnostic chat history.
const (
	RoleSystem = "system"
	RoleUser   = "user"
	RoleModel  = "model"
)

// Message represents a chat message in a provider-agnostic format.
type Message struct {
	Role    string
	Content string
}

// Part is a multimodal attachment to the final user turn. Exactly one of
// Text or (MimeType, Data) is set.
type Part struct {
	Text     string
	MimeType string
	Data     []byte
}

// IsBlob reports whether the part carries binary data.
func (p Part) IsBlob() bool {
	return len(p.Data) > 0
}

// SchemaType enumerates the JSON types usable in a response schema.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-agnostic response schema node. Providers translate
// it to their native structured-output representation.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
}

// Request is one generation request: role-tagged history, optional
// multimodal parts attached to the last turn, and an optional response
// schema. A non-nil Schema asks the provider for a bare JSON object.
type Request struct {
	System   string
	Messages []Message
	Parts    []Part
	Schema   *Schema
}

// HasBlobs reports whether the request carries binary attachments.
// Requests with blobs are bound to the primary multimodal provider.
func (r *Request) HasBlobs() bool {
	for _, p := range r.Parts {
		if p.IsBlob() {
			return true
		}
	}
	return false
}

// Option allows for optional parameters like Temperature or a model override.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ApplyOptions folds the given options into an Options struct.
func ApplyOptions(options ...Option) *Options {
	o := &Options{}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Provider defines the contract for any text/JSON generation backend.
type Provider interface {
	// Name identifies the provider in errors and logs.
	Name() string

	// Generate sends the request to the model and returns the raw response
	// text (or a JSON string when req.Schema is set).
	Generate(ctx context.Context, req *Request, options ...Option) (string, error)
}

// SpeechSynthesizer turns text into audio bytes. Bound to one provider;
// never part of the fallback chain.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// VideoSynthesizer turns a prompt into video bytes via a long-running,
// polled job. Bound to one provider; never part of the fallback chain.
type VideoSynthesizer interface {
	SynthesizeVideo(ctx context.Context, prompt string) ([]byte, error)
}
