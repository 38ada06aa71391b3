package openai

import (
	"context"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/scout-cfb/scout/internal/provider"
)

// buildRequest creates an API chat request from a provider
// CompletionRequest, merging request-level overrides with config defaults.
func (p *Provider) buildRequest(req provider.CompletionRequest) openai.ChatCompletionRequest {
	cr := openai.ChatCompletionRequest{
		Model:    p.config.Model,
		Messages: toMessages(req.Messages),
	}

	switch {
	case req.MaxTokens > 0:
		cr.MaxTokens = req.MaxTokens
	case p.config.MaxTokens > 0:
		cr.MaxTokens = p.config.MaxTokens
	}

	var temp *float64
	switch {
	case req.Temperature != nil:
		temp = req.Temperature
	case p.config.Temperature != nil:
		temp = p.config.Temperature
	}
	if temp != nil {
		// The client drops a zero temperature from the JSON payload,
		// which the API would read as the model default. Nudge it so an
		// explicit 0 survives serialization.
		if *temp == 0 {
			cr.Temperature = math.SmallestNonzeroFloat32
		} else {
			cr.Temperature = float32(*temp)
		}
	}

	return cr
}

// toMessages converts provider messages to the client's message type.
func toMessages(msgs []provider.LLMMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}

// Complete implements provider.Provider.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req))
	if err != nil {
		return provider.CompletionResponse{}, mapError(err)
	}

	if len(resp.Choices) == 0 {
		return provider.CompletionResponse{}, provider.ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return provider.CompletionResponse{}, provider.ErrEmptyResponse
	}

	return provider.CompletionResponse{
		Content: content,
		Usage: provider.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// HealthCheck implements provider.HealthChecker by listing models, a cheap
// authenticated round trip that both OpenAI and Azure endpoints support.
func (p *Provider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return mapError(err)
	}
	return nil
}
