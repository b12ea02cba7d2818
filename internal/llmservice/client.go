package llmservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Velmurugan2695/document-question-answer/internal/config"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
}

// ChatClient sends one chat completion and returns the reply text.
// Failures to get a reply are reported as *TransportError.
type ChatClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// TransportError means the call produced no usable reply: a non-2xx status,
// a timeout or a network failure. Status is 0 when no response was received.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		if e.Err != nil {
			return fmt.Sprintf("%d: %v", e.Status, e.Err)
		}
		return strconv.Itoa(e.Status)
	}
	if e.Err == nil {
		return "transport error"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the call was cut off by a deadline.
func (e *TransportError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// NewClient returns the chat client for the configured provider.
func NewClient(cfg *config.LLMConfig) (ChatClient, error) {
	switch cfg.Provider {
	case config.ProviderOpenRouter, config.ProviderOpenAI:
		return NewOpenRouterClient(cfg), nil
	case config.ProviderOllama:
		return NewOllamaClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
