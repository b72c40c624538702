package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebooklm-be/pkg/llm"
)

type stubProvider struct {
	name     string
	results  []stubResult
	calls    int
	lastReq  *llm.Request
	lastOpts *llm.Options
}

type stubResult struct {
	content string
	err     error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(_ context.Context, req *llm.Request, opts ...llm.Option) (string, error) {
	s.lastReq = req
	s.lastOpts = llm.ApplyOptions(opts...)
	idx := s.calls
	s.calls++
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	return s.results[idx].content, s.results[idx].err
}

type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) sleep(_ context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return nil
}

func quotaErr(provider string) error {
	return &llm.QuotaError{Provider: provider, Err: errors.New("429 resource exhausted")}
}

func textReq(prompt string) *llm.Request {
	return &llm.Request{Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}}}
}

func TestGenerateRetriesQuotaWithBackoff(t *testing.T) {
	provider := &stubProvider{
		name: "primary",
		results: []stubResult{
			{err: quotaErr("primary")},
			{err: quotaErr("primary")},
			{content: "finally"},
		},
	}
	sleeper := &fakeSleeper{}
	g, err := NewGateway([]llm.Provider{provider}, WithSleep(sleeper.sleep))
	require.NoError(t, err)

	content, err := g.Generate(context.Background(), textReq("hello"))
	require.NoError(t, err)
	assert.Equal(t, "finally", content)
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.delays)
}

func TestGenerateFallsBackAfterExhaustingPrimary(t *testing.T) {
	primary := &stubProvider{
		name:    "primary",
		results: []stubResult{{err: quotaErr("primary")}},
	}
	secondary := &stubProvider{
		name:    "secondary",
		results: []stubResult{{content: "from secondary"}},
	}
	sleeper := &fakeSleeper{}
	g, err := NewGateway([]llm.Provider{primary, secondary}, WithSleep(sleeper.sleep))
	require.NoError(t, err)

	content, err := g.Generate(context.Background(), textReq("hello"))
	require.NoError(t, err)
	assert.Equal(t, "from secondary", content)
	assert.Equal(t, MaxAttempts, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestGenerateNonQuotaErrorSkipsRetry(t *testing.T) {
	primary := &stubProvider{
		name:    "primary",
		results: []stubResult{{err: &llm.ProcessingError{Provider: "primary", Err: errors.New("safety block")}}},
	}
	secondary := &stubProvider{
		name:    "secondary",
		results: []stubResult{{content: "rescued"}},
	}
	sleeper := &fakeSleeper{}
	g, err := NewGateway([]llm.Provider{primary, secondary}, WithSleep(sleeper.sleep))
	require.NoError(t, err)

	content, err := g.Generate(context.Background(), textReq("hello"))
	require.NoError(t, err)
	assert.Equal(t, "rescued", content)
	assert.Equal(t, 1, primary.calls)
	assert.Empty(t, sleeper.delays)
}

func TestGenerateBlobRequestNeverFallsBack(t *testing.T) {
	primary := &stubProvider{
		name:    "primary",
		results: []stubResult{{err: quotaErr("primary")}},
	}
	secondary := &stubProvider{
		name:    "secondary",
		results: []stubResult{{content: "should not be used"}},
	}
	sleeper := &fakeSleeper{}
	g, err := NewGateway([]llm.Provider{primary, secondary}, WithSleep(sleeper.sleep))
	require.NoError(t, err)

	req := &llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "describe this"}},
		Parts:    []llm.Part{{MimeType: "image/png", Data: []byte{1, 2, 3}}},
	}
	_, err = g.Generate(context.Background(), req)
	require.Error(t, err)
	assert.True(t, llm.IsQuotaError(err))
	assert.Equal(t, 0, secondary.calls)
}

func TestGenerateJSON(t *testing.T) {
	schema := &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"title": {Type: llm.TypeString},
		},
		Required: []string{"title"},
	}

	t.Run("decodes successful response", func(t *testing.T) {
		provider := &stubProvider{
			name:    "primary",
			results: []stubResult{{content: "```json\n{\"title\":\"Tides\"}\n```"}},
		}
		g, err := NewGateway([]llm.Provider{provider})
		require.NoError(t, err)

		var out struct {
			Title string `json:"title"`
		}
		req := textReq("name this")
		req.Schema = schema
		require.NoError(t, g.GenerateJSON(context.Background(), req, &out))
		assert.Equal(t, "Tides", out.Title)
	})

	t.Run("rejects request without schema", func(t *testing.T) {
		provider := &stubProvider{name: "primary", results: []stubResult{{content: "{}"}}}
		g, err := NewGateway([]llm.Provider{provider})
		require.NoError(t, err)

		var out map[string]any
		err = g.GenerateJSON(context.Background(), textReq("x"), &out)
		require.Error(t, err)
	})

	t.Run("malformed output is terminal", func(t *testing.T) {
		provider := &stubProvider{
			name:    "primary",
			results: []stubResult{{content: "not json at all"}},
		}
		secondary := &stubProvider{name: "secondary", results: []stubResult{{content: "{}"}}}
		g, err := NewGateway([]llm.Provider{provider, secondary})
		require.NoError(t, err)

		var out map[string]any
		req := textReq("x")
		req.Schema = schema
		err = g.GenerateJSON(context.Background(), req, &out)
		require.Error(t, err)
		var malformed *llm.MalformedResponseError
		assert.True(t, errors.As(err, &malformed))
		assert.Equal(t, 0, secondary.calls)
	})
}

type stubSpeech struct {
	results []stubResult
	calls   int
}

func (s *stubSpeech) Synthesize(context.Context, string) ([]byte, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	if s.results[idx].err != nil {
		return nil, s.results[idx].err
	}
	return []byte(s.results[idx].content), nil
}

func TestSynthesizeRetriesQuota(t *testing.T) {
	speech := &stubSpeech{
		results: []stubResult{
			{err: quotaErr("gemini")},
			{content: "audio-bytes"},
		},
	}
	sleeper := &fakeSleeper{}
	g, err := NewGateway(
		[]llm.Provider{&stubProvider{name: "primary", results: []stubResult{{content: "x"}}}},
		WithSpeech(speech),
		WithSleep(sleeper.sleep),
	)
	require.NoError(t, err)

	audio, err := g.Synthesize(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), audio)
	assert.Equal(t, []time.Duration{2 * time.Second}, sleeper.delays)
}

func TestNewGatewayRequiresProvider(t *testing.T) {
	_, err := NewGateway(nil)
	require.Error(t, err)
}

func TestGenerateAllProvidersFailReturnsPrimaryError(t *testing.T) {
	primary := &stubProvider{
		name:    "primary",
		results: []stubResult{{err: quotaErr("primary")}},
	}
	secondary := &stubProvider{
		name:    "secondary",
		results: []stubResult{{err: quotaErr("secondary")}},
	}
	sleeper := &fakeSleeper{}
	g, err := NewGateway([]llm.Provider{primary, secondary}, WithSleep(sleeper.sleep))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), textReq("hello"))
	require.Error(t, err)

	var quota *llm.QuotaError
	require.ErrorAs(t, err, &quota)
	assert.Equal(t, "primary", quota.Provider)
	assert.Equal(t, MaxAttempts, primary.calls)
	assert.Equal(t, MaxAttempts, secondary.calls)
}
