package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"notebooklm-be/pkg/llm"
)

const DefaultModel = "gemini-2.5-flash"

type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// Ensure GeminiProvider implements Provider
var _ llm.Provider = &GeminiProvider{}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}

func (g *GeminiProvider) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiProvider) Generate(ctx context.Context, req *llm.Request, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)

	// 1. Configure the model
	modelName := g.modelName
	if options.Model != "" {
		modelName = options.Model
	}
	model := g.client.GenerativeModel(modelName)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	if options.Temperature > 0 {
		model.SetTemperature(float32(options.Temperature))
	}
	if options.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(options.MaxTokens))
	}
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = toGenaiSchema(req.Schema)
	}

	// 2. Split history: everything before the last user message becomes
	// session history, the last message (plus attachments) is the send.
	history, final := splitHistory(req.Messages)

	session := model.StartChat()
	session.History = history

	parts := make([]genai.Part, 0, len(req.Parts)+1)
	if final != "" {
		parts = append(parts, genai.Text(final))
	}
	for _, p := range req.Parts {
		if p.IsBlob() {
			parts = append(parts, genai.Blob{MIMEType: p.MimeType, Data: p.Data})
		} else if p.Text != "" {
			parts = append(parts, genai.Text(p.Text))
		}
	}
	if len(parts) == 0 {
		return "", &llm.ProcessingError{Provider: g.Name(), Err: fmt.Errorf("empty request")}
	}

	// 3. Send and collect the text parts of the first candidate
	resp, err := session.SendMessage(ctx, parts...)
	if err != nil {
		if llm.IsRateLimited(err) {
			return "", &llm.QuotaError{Provider: g.Name(), Err: err}
		}
		return "", &llm.ProcessingError{Provider: g.Name(), Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &llm.ProcessingError{Provider: g.Name(), Err: fmt.Errorf("no candidates returned")}
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

// splitHistory maps provider-agnostic messages to genai history, holding
// back the trailing user message as the text to send. System messages are
// excluded: they travel as SystemInstruction.
func splitHistory(messages []llm.Message) ([]*genai.Content, string) {
	final := ""
	last := len(messages) - 1
	if last >= 0 && messages[last].Role == llm.RoleUser {
		final = messages[last].Content
		messages = messages[:last]
	}

	history := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == llm.RoleSystem {
			continue
		}
		role := "user"
		if msg.Role == llm.RoleModel {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return history, final
}

func toGenaiSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	switch s.Type {
	case llm.TypeObject:
		out.Type = genai.TypeObject
	case llm.TypeArray:
		out.Type = genai.TypeArray
	case llm.TypeString:
		out.Type = genai.TypeString
	case llm.TypeNumber:
		out.Type = genai.TypeNumber
	case llm.TypeInteger:
		out.Type = genai.TypeInteger
	case llm.TypeBoolean:
		out.Type = genai.TypeBoolean
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}
