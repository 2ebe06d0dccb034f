package llmservice

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"pdf-chat/internal/config"
)

// Model is the minimal chat-completion capability the answer engine needs.
// Alternate providers can be substituted without touching the pipeline.
type Model interface {
	Generate(ctx context.Context, messages []llms.MessageContent) (string, error)
}

type client struct {
	llm         *openai.LLM
	temperature float64
}

// New builds a chat-completion client against an OpenAI-compatible endpoint.
func New(cfg *config.LLMConfig) (Model, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Key != "" {
		opts = append(opts, openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &client{llm: llm, temperature: cfg.Temperature}, nil
}

func (c *client) Generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	var callOpts []llms.CallOption
	if c.temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(c.temperature))
	}

	resp, err := c.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Content, nil
}
