package llmservice

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Velmurugan2695/document-question-answer/internal/config"
)

// OpenRouterClient talks to OpenRouter, or any OpenAI compatible endpoint.
type OpenRouterClient struct {
	client *openai.Client
}

func NewOpenRouterClient(cfg *config.LLMConfig) *OpenRouterClient {
	clientCfg := openai.DefaultConfig(strings.TrimPrefix(cfg.Key, "Bearer "))
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": cfg.Referer,
				"X-Title":      cfg.Title,
			},
		},
	}
	return &OpenRouterClient{client: openai.NewClientWithConfig(clientCfg)}
}

func (c *OpenRouterClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	var status int
	ctx = context.WithValue(ctx, statusKey{}, &status)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		log.Debug().Err(err).Str("model", req.Model).Msg("Chat completion failed")
		return "", transportError(err, status)
	}
	if len(resp.Choices) == 0 {
		return "", &TransportError{Status: http.StatusOK, Err: errors.New("no choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

// transportError maps a go-openai error to a TransportError. go-openai only
// types errors with a JSON body, so status is the code seen on the wire.
func transportError(err error, status int) *TransportError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &TransportError{Status: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &TransportError{Status: reqErr.HTTPStatusCode, Err: err}
	}
	if status >= http.StatusMultipleChoices {
		return &TransportError{Status: status, Err: err}
	}
	return &TransportError{Err: err}
}

type statusKey struct{}

// headerTransport adds fixed headers to every request and records the
// response status for the calling Complete.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	resp, err := t.base.RoundTrip(req)
	if err == nil {
		if status, ok := req.Context().Value(statusKey{}).(*int); ok {
			*status = resp.StatusCode
		}
	}
	return resp, err
}
