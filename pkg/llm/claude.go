package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/umputun/devscope/pkg/config"
)

// ClaudeProvider implements Provider on top of the Anthropic messages API
type ClaudeProvider struct {
	client anthropic.Client
	model  string
}

// NewClaudeProvider creates a Claude-backed provider
func NewClaudeProvider(cfg config.LLMConfig) *ClaudeProvider {
	return &ClaudeProvider{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}
}

// Complete sends a single-turn message request
func (p *ClaudeProvider) Complete(ctx context.Context, req Request) (Response, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(float64(req.Temperature)),
		System:      []anthropic.TextBlockParam{{Text: req.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	})
	if err != nil {
		return Response{}, &Error{Provider: "claude", Err: err}
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return Response{}, completionErr("claude", "no text content in response")
	}

	return Response{
		Text:         text,
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		Model:        string(msg.Model),
	}, nil
}

// Name returns provider/model identifier
func (p *ClaudeProvider) Name() string { return "claude/" + p.model }
