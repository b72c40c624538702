package factory

import (
	"context"
	"fmt"

	"notebooklm-be/pkg/llm"
	"notebooklm-be/pkg/llm/gemini"
	"notebooklm-be/pkg/llm/openai"
)

// Config holds the provider credentials and model overrides.
type Config struct {
	GeminiApiKey string
	GeminiModel  string
	SpeechModel  string
	VideoModel   string

	// Optional text-only fallback chain member.
	OpenAIApiKey string
	OpenAIModel  string
}

// ProviderSet is everything the gateway needs: the ordered generation
// chain plus the media synthesizers.
type ProviderSet struct {
	Providers []llm.Provider
	Speech    llm.SpeechSynthesizer
	Video     llm.VideoSynthesizer
	closers   []func() error
}

// Close releases provider clients.
func (s *ProviderSet) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewProviderSet builds the provider chain. Gemini is required and always
// first: it is the only multimodal member. OpenAI joins the chain as a
// text-only fallback when a key is configured.
func NewProviderSet(ctx context.Context, cfg Config) (*ProviderSet, error) {
	if cfg.GeminiApiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	primary, err := gemini.NewGeminiProvider(ctx, cfg.GeminiApiKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("create gemini provider: %w", err)
	}

	set := &ProviderSet{
		Providers: []llm.Provider{primary},
		Speech:    gemini.NewSpeechClient(cfg.GeminiApiKey, cfg.SpeechModel),
		Video:     gemini.NewVideoClient(cfg.GeminiApiKey, cfg.VideoModel),
		closers:   []func() error{primary.Close},
	}

	if cfg.OpenAIApiKey != "" {
		set.Providers = append(set.Providers, openai.NewOpenAIProvider(cfg.OpenAIApiKey, cfg.OpenAIModel))
	}
	return set, nil
}
