package llm

import (
	"context"

	"google.golang.org/genai"

	"github.com/umputun/devscope/pkg/config"
)

// GeminiProvider implements Provider on top of the Google GenAI API
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini-backed provider. Client construction
// needs a context for its initial setup call.
func NewGeminiProvider(ctx context.Context, cfg config.LLMConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, completionErr("gemini", "create client: %w", err)
	}
	return &GeminiProvider{client: client, model: cfg.Model}, nil
}

// Complete sends a single-turn generation request
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (Response, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: req.User}}},
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxTokens), //nolint:gosec // bounded by config validation
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return Response{}, &Error{Provider: "gemini", Err: err}
	}

	text := resp.Text()
	if text == "" {
		return Response{}, completionErr("gemini", "empty response")
	}

	out := Response{Text: text, Model: p.model}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

// Name returns provider/model identifier
func (p *GeminiProvider) Name() string { return "gemini/" + p.model }
