package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/devscope/pkg/config"
)

// OpenAIProvider talks to any OpenAI-compatible chat completion endpoint.
// OpenRouter uses the same wire format, so both backends share this type and
// differ only in endpoint and display name.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAIProvider creates a provider for the given config. An empty
// endpoint means the official OpenAI API.
func NewOpenAIProvider(cfg config.LLMConfig, name string) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		name:   name,
	}
}

// Complete sends a single-turn chat completion request
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (Response, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	})
	if err != nil {
		return Response{}, &Error{Provider: p.name, Err: err}
	}
	if len(resp.Choices) == 0 {
		return Response{}, completionErr(p.name, "no choices in response")
	}

	return Response{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
	}, nil
}

// Name returns provider/model identifier
func (p *OpenAIProvider) Name() string { return p.name + "/" + p.model }
