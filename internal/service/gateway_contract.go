package service

import (
	"context"

	"notebooklm-be/pkg/llm"
)

// IAiGateway is the slice of the AI gateway the services depend on.
type IAiGateway interface {
	Generate(ctx context.Context, req *llm.Request, opts ...llm.Option) (string, error)
	GenerateJSON(ctx context.Context, req *llm.Request, target any, opts ...llm.Option) error
	Synthesize(ctx context.Context, text string) ([]byte, error)
	SynthesizeVideo(ctx context.Context, prompt string) ([]byte, error)
}
