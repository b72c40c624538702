package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"notebooklm-be/pkg/llm"
)

const (
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// SpeechClient synthesizes narration audio through the generative language
// REST API. The Go SDK does not expose audio response modalities, so this
// talks to the endpoint directly.
type SpeechClient struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Voice     string
	Client    *http.Client
}

// Ensure SpeechClient implements SpeechSynthesizer
var _ llm.SpeechSynthesizer = &SpeechClient{}

func NewSpeechClient(apiKey, modelName string) *SpeechClient {
	if modelName == "" {
		modelName = DefaultSpeechModel
	}
	return &SpeechClient{
		APIKey:    apiKey,
		BaseURL:   defaultBaseURL,
		ModelName: modelName,
		Voice:     DefaultVoice,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type speechRequest struct {
	Contents         []speechContent        `json:"contents"`
	GenerationConfig speechGenerationConfig `json:"generationConfig"`
}

type speechContent struct {
	Parts []speechTextPart `json:"parts"`
}

type speechTextPart struct {
	Text string `json:"text"`
}

type speechGenerationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type speechResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (s *SpeechClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload := speechRequest{
		Contents: []speechContent{
			{Parts: []speechTextPart{{Text: text}}},
		},
		GenerationConfig: speechGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: s.Voice},
				},
			},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.BaseURL, s.ModelName, s.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &llm.QuotaError{Provider: "gemini", Err: fmt.Errorf("speech: status 429, body: %s", string(bodyBytes))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed speechResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("speech: no audio in response")
	}

	audio, err := base64.StdEncoding.DecodeString(parsed.Candidates[0].Content.Parts[0].InlineData.Data)
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	return audio, nil
}
