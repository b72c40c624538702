package extract

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebooklm-be/pkg/llm"
)

type fakeGenerator struct {
	content string
	err     error
	lastReq *llm.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req *llm.Request, _ ...llm.Option) (string, error) {
	f.lastReq = req
	return f.content, f.err
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, req *llm.Request, target any, _ ...llm.Option) error {
	f.lastReq = req
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.content), target)
}

func TestExtractText(t *testing.T) {
	e := NewExtractor(&fakeGenerator{})

	t.Run("stores unicode text verbatim", func(t *testing.T) {
		res, err := e.Extract(context.Background(), Input{
			Name:     "greeting.txt",
			MimeType: "text/plain",
			Data:     []byte("Xin chào thế giới"),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, KindText, res.Kind)
		assert.Equal(t, "Xin chào thế giới", res.Text)
		assert.Equal(t, "Xin chào thế giới", res.Grounding)
	})

	t.Run("replaces invalid utf8", func(t *testing.T) {
		res, err := e.Extract(context.Background(), Input{
			MimeType: "text/plain",
			Data:     []byte{'h', 'i', 0xff},
		}, nil)
		require.NoError(t, err)
		assert.Contains(t, res.Text, "hi")
		assert.NotContains(t, res.Text, "\xff")
	})

	t.Run("markdown handled as text", func(t *testing.T) {
		res, err := e.Extract(context.Background(), Input{
			MimeType: "text/markdown; charset=utf-8",
			Data:     []byte("# Title"),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, KindText, res.Kind)
	})
}

func TestExtractUnsupportedType(t *testing.T) {
	e := NewExtractor(&fakeGenerator{})

	_, err := e.Extract(context.Background(), Input{
		MimeType: "application/x-msdownload",
		Data:     []byte{0x4d, 0x5a},
	}, nil)
	require.Error(t, err)
	var unsupported *UnsupportedTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Contains(t, err.Error(), "application/x-msdownload")
}

func TestExtractMediaGroundsThroughModel(t *testing.T) {
	gen := &fakeGenerator{content: "A diagram of ocean currents."}
	e := NewExtractor(gen)

	res, err := e.Extract(context.Background(), Input{
		Name:     "currents.png",
		MimeType: "image/png",
		Data:     []byte{1, 2, 3},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, KindImage, res.Kind)
	assert.Equal(t, []byte{1, 2, 3}, res.Data)
	assert.Equal(t, "A diagram of ocean currents.", res.Grounding)
	require.NotNil(t, gen.lastReq)
	assert.True(t, gen.lastReq.HasBlobs())
}

func TestExtractURL(t *testing.T) {
	t.Run("website", func(t *testing.T) {
		gen := &fakeGenerator{content: `{"title":"Tides Explained","content":"Tides are caused by the moon."}`}
		e := NewExtractor(gen)

		res, err := e.Extract(context.Background(), Input{URL: "https://example.com/tides"}, nil)
		require.NoError(t, err)
		assert.Equal(t, KindWebsite, res.Kind)
		assert.Equal(t, "Tides Explained", res.Title)
		assert.Equal(t, "Tides are caused by the moon.", res.Grounding)
	})

	t.Run("youtube detected", func(t *testing.T) {
		gen := &fakeGenerator{content: `{"title":"Lecture","content":"Transcript here."}`}
		e := NewExtractor(gen)

		res, err := e.Extract(context.Background(), Input{URL: "https://www.youtube.com/watch?v=abc123"}, nil)
		require.NoError(t, err)
		assert.Equal(t, KindYoutube, res.Kind)
	})

	t.Run("failure wraps url error", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("fetch blocked")}
		e := NewExtractor(gen)

		_, err := e.Extract(context.Background(), Input{URL: "https://example.com/blocked"}, nil)
		require.Error(t, err)
		var urlErr *UrlProcessingError
		require.True(t, errors.As(err, &urlErr))
		assert.Equal(t, "https://example.com/blocked", urlErr.URL)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		gen := &fakeGenerator{content: `{"title":"x","content":"  "}`}
		e := NewExtractor(gen)

		_, err := e.Extract(context.Background(), Input{URL: "https://example.com/empty"}, nil)
		require.Error(t, err)
	})
}

func TestIsYoutubeURL(t *testing.T) {
	assert.True(t, IsYoutubeURL("https://www.youtube.com/watch?v=abc"))
	assert.True(t, IsYoutubeURL("https://youtu.be/abc"))
	assert.True(t, IsYoutubeURL("https://YOUTUBE.com/shorts/abc"))
	assert.False(t, IsYoutubeURL("https://vimeo.com/123"))
	assert.False(t, IsYoutubeURL("https://example.com"))
}

func TestMonotonicProgress(t *testing.T) {
	var reported []int
	report := monotonic(func(p int) { reported = append(reported, p) })

	report(10)
	report(5)   // never decreases
	report(50)
	report(50)  // no duplicates
	report(120) // capped

	assert.Equal(t, []int{10, 50, 95}, reported)
}

func TestCountPdfPages(t *testing.T) {
	assert.Equal(t, 1, countPdfPages(""))
	assert.Equal(t, 1, countPdfPages("single page"))
	assert.Equal(t, 3, countPdfPages("one\ftwo\fthree"))
}
