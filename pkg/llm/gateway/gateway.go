package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notebooklm-be/pkg/llm"
)

const (
	// MaxAttempts is the per-provider attempt budget for quota failures.
	MaxAttempts = 3

	// BaseDelay is the first backoff delay; it doubles on each retry.
	BaseDelay = 2 * time.Second
)

// SleepFunc waits for d or until the context is cancelled. Injectable so
// tests run without real delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Gateway fronts an ordered chain of generation providers. Quota failures
// are retried with exponential backoff on the same provider; once the
// attempt budget is spent the next provider in the chain is tried.
// Requests carrying binary attachments never fall back: only the primary
// provider is multimodal.
type Gateway struct {
	providers []llm.Provider
	speech    llm.SpeechSynthesizer
	video     llm.VideoSynthesizer
	sleep     SleepFunc
}

type GatewayOption func(*Gateway)

func WithSpeech(s llm.SpeechSynthesizer) GatewayOption {
	return func(g *Gateway) {
		g.speech = s
	}
}

func WithVideo(v llm.VideoSynthesizer) GatewayOption {
	return func(g *Gateway) {
		g.video = v
	}
}

func WithSleep(sleep SleepFunc) GatewayOption {
	return func(g *Gateway) {
		g.sleep = sleep
	}
}

func NewGateway(providers []llm.Provider, opts ...GatewayOption) (*Gateway, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("gateway: at least one provider required")
	}
	g := &Gateway{
		providers: providers,
		sleep:     defaultSleep,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate runs the request through the provider chain and returns the
// first successful response text.
func (g *Gateway) Generate(ctx context.Context, req *llm.Request, opts ...llm.Option) (string, error) {
	chain := g.providers
	if req.HasBlobs() {
		chain = g.providers[:1]
	}

	// When every provider fails, the primary's error is the one reported:
	// it describes the preferred path, not the fallback's.
	var firstErr error
	for _, provider := range chain {
		content, err := g.callWithRetry(ctx, provider, req, opts...)
		if err == nil {
			return content, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return "", firstErr
}

// GenerateJSON runs the request with its response schema and decodes the
// result into target. A decode failure is terminal: the model answered,
// retrying the same prompt is pointless.
func (g *Gateway) GenerateJSON(ctx context.Context, req *llm.Request, target any, opts ...llm.Option) error {
	if req.Schema == nil {
		return fmt.Errorf("gateway: json generation requires a response schema")
	}
	content, err := g.Generate(ctx, req, opts...)
	if err != nil {
		return err
	}
	return llm.DecodeModelJSON(content, target)
}

// Synthesize produces narration audio. Quota failures are retried with the
// same backoff schedule; there is no fallback synthesizer.
func (g *Gateway) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if g.speech == nil {
		return nil, fmt.Errorf("gateway: no speech synthesizer configured")
	}

	var lastErr error
	delay := BaseDelay
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		audio, err := g.speech.Synthesize(ctx, text)
		if err == nil {
			return audio, nil
		}
		lastErr = err
		if !llm.IsQuotaError(err) || attempt == MaxAttempts {
			break
		}
		if sleepErr := g.sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
		delay *= 2
	}
	return nil, lastErr
}

// SynthesizeVideo delegates to the video backend. The backend owns its own
// polling schedule and deadline, so the gateway does not retry it.
func (g *Gateway) SynthesizeVideo(ctx context.Context, prompt string) ([]byte, error) {
	if g.video == nil {
		return nil, fmt.Errorf("gateway: no video synthesizer configured")
	}
	return g.video.SynthesizeVideo(ctx, prompt)
}

func (g *Gateway) callWithRetry(ctx context.Context, provider llm.Provider, req *llm.Request, opts ...llm.Option) (string, error) {
	var lastErr error
	delay := BaseDelay
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		content, err := provider.Generate(ctx, req, opts...)
		if err == nil {
			return content, nil
		}
		lastErr = err

		var malformed *llm.MalformedResponseError
		if errors.As(err, &malformed) {
			return "", err
		}
		if !llm.IsQuotaError(err) || attempt == MaxAttempts {
			break
		}
		if sleepErr := g.sleep(ctx, delay); sleepErr != nil {
			return "", sleepErr
		}
		delay *= 2
	}
	return "", lastErr
}
