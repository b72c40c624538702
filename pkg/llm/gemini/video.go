package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"notebooklm-be/pkg/llm"
)

const (
	DefaultVideoModel = "veo-3.0-generate-preview"

	videoPollInterval = 5 * time.Second
	videoDeadline     = 10 * time.Minute
)

// VideoClient drives video generation as a long-running operation: submit,
// poll until done, then download the rendered file.
type VideoClient struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure VideoClient implements VideoSynthesizer
var _ llm.VideoSynthesizer = &VideoClient{}

func NewVideoClient(apiKey, modelName string) *VideoClient {
	if modelName == "" {
		modelName = DefaultVideoModel
	}
	return &VideoClient{
		APIKey:    apiKey,
		BaseURL:   defaultBaseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type videoSubmitRequest struct {
	Instances []videoInstance `json:"instances"`
}

type videoInstance struct {
	Prompt string `json:"prompt"`
}

type videoOperation struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Error    *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

func (v *VideoClient) SynthesizeVideo(ctx context.Context, prompt string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, videoDeadline)
	defer cancel()

	// 1. Submit the long-running generation job
	op, err := v.submit(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// 2. Poll the operation until done or the deadline expires
	ticker := time.NewTicker(videoPollInterval)
	defer ticker.Stop()
	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("video generation timed out: %w", ctx.Err())
		case <-ticker.C:
		}
		op, err = v.poll(ctx, op.Name)
		if err != nil {
			return nil, err
		}
	}
	if op.Error != nil {
		return nil, fmt.Errorf("video generation failed: %s", op.Error.Message)
	}
	if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
		return nil, fmt.Errorf("video generation returned no samples")
	}

	// 3. Download the rendered file
	return v.download(ctx, op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI)
}

func (v *VideoClient) submit(ctx context.Context, prompt string) (*videoOperation, error) {
	payloadBytes, err := json.Marshal(videoSubmitRequest{
		Instances: []videoInstance{{Prompt: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:predictLongRunning?key=%s", v.BaseURL, v.ModelName, v.APIKey)
	return v.doOperation(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
}

func (v *VideoClient) poll(ctx context.Context, name string) (*videoOperation, error) {
	url := fmt.Sprintf("%s/%s?key=%s", v.BaseURL, name, v.APIKey)
	return v.doOperation(ctx, "GET", url, nil)
}

func (v *VideoClient) doOperation(ctx context.Context, method, url string, body io.Reader) (*videoOperation, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &llm.QuotaError{Provider: "gemini", Err: fmt.Errorf("video: status 429, body: %s", string(bodyBytes))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var op videoOperation
	if err := json.Unmarshal(bodyBytes, &op); err != nil {
		return nil, fmt.Errorf("unmarshal operation: %w", err)
	}
	return &op, nil
}

func (v *VideoClient) download(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", uri, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	req.Header.Set("x-goog-api-key", v.APIKey)

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video download: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
