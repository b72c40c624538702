package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripCodeFence(tc.input))
		})
	}
}

func TestDecodeModelJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	t.Run("decodes fenced output", func(t *testing.T) {
		var p payload
		err := DecodeModelJSON("```json\n{\"title\":\"Ocean Currents\"}\n```", &p)
		require.NoError(t, err)
		assert.Equal(t, "Ocean Currents", p.Title)
	})

	t.Run("reports malformed output", func(t *testing.T) {
		var p payload
		err := DecodeModelJSON("I cannot answer that.", &p)
		require.Error(t, err)
		var malformed *MalformedResponseError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, "I cannot answer that.", malformed.Raw)
	})
}

func TestIsRateLimited(t *testing.T) {
	assert.False(t, IsRateLimited(nil))
	assert.False(t, IsRateLimited(errors.New("connection refused")))
	assert.True(t, IsRateLimited(errors.New("googleapi: Error 429: Resource has been exhausted")))
	assert.True(t, IsRateLimited(errors.New("You exceeded your current quota")))
	assert.True(t, IsRateLimited(errors.New("Too Many Requests")))
}

func TestIsQuotaError(t *testing.T) {
	base := errors.New("boom")
	assert.False(t, IsQuotaError(base))
	assert.True(t, IsQuotaError(&QuotaError{Provider: "gemini", Err: base}))
	assert.True(t, IsQuotaError(&ProcessingError{Provider: "x", Err: &QuotaError{Provider: "gemini", Err: base}}))
}
