package llmservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/Velmurugan2695/document-question-answer/internal/config"
)

// OllamaClient runs completions against a local Ollama server.
type OllamaClient struct {
	llm *ollama.LLM
}

func NewOllamaClient(cfg *config.LLMConfig) (*OllamaClient, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama client: %w", err)
	}
	return &OllamaClient{llm: llm}, nil
}

func (c *OllamaClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	msgContent := make([]llms.MessageContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgContent = append(msgContent, llms.TextParts(roleType(m.Role), m.Content))
	}

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}

	res, err := c.llm.GenerateContent(ctx, msgContent, opts...)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	if len(res.Choices) == 0 {
		return "", &TransportError{Err: errors.New("no choices in response")}
	}
	return res.Choices[0].Content, nil
}

func roleType(role string) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
