package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"notebooklm-be/pkg/llm"
)

const DefaultModel = "gpt-4o-mini"

// OpenAIProvider is the text-only fallback backend. It cannot accept
// binary attachments; the gateway never routes blob requests here.
type OpenAIProvider struct {
	client    openai.Client
	modelName string
}

// Ensure OpenAIProvider implements Provider
var _ llm.Provider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName string) *OpenAIProvider {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &OpenAIProvider{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		modelName: modelName,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Generate(ctx context.Context, req *llm.Request, opts ...llm.Option) (string, error) {
	if req.HasBlobs() {
		return "", &llm.ProcessingError{Provider: p.Name(), Err: fmt.Errorf("binary attachments not supported")}
	}

	options := llm.ApplyOptions(opts...)

	// 1. Map generic messages to chat completion messages
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case llm.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case llm.RoleModel:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	for _, part := range req.Parts {
		if part.Text != "" {
			messages = append(messages, openai.UserMessage(part.Text))
		}
	}

	// 2. Prepare params
	model := p.modelName
	if options.Model != "" {
		model = options.Model
	}
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if options.Temperature > 0 {
		params.Temperature = openai.Float(options.Temperature)
	}
	if options.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(options.MaxTokens))
	}
	if req.Schema != nil {
		// The structured schema is enforced downstream by decoding; here we
		// only ask for a bare JSON object.
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	// 3. Send and unwrap the first choice
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if llm.IsRateLimited(err) {
			return "", &llm.QuotaError{Provider: p.Name(), Err: err}
		}
		return "", &llm.ProcessingError{Provider: p.Name(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &llm.ProcessingError{Provider: p.Name(), Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}
