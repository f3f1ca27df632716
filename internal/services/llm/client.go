package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quill/internal/services"
	"quill/internal/services/retry"
)

const (
	jsonResponseType   = "json_object"
	defaultHTTPTimeout = 120 * time.Second
)

// Config captures the runtime settings required to talk to the provider.
type Config struct {
	APIKey              string
	BaseURL             string
	Model               string
	TimeoutSeconds      int
	MaxRetries          int
	RetryInitialDelayMS int
}

// Client wraps the chat completion API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	policy     retry.Policy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how retry waits are performed (useful for tests).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		c.policy.Sleep = sleep
	}
}

// NewClient constructs a generation client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	policy := retry.Default()
	if cfg.MaxRetries != 0 {
		policy.Retries = cfg.MaxRetries
	}
	if cfg.RetryInitialDelayMS > 0 {
		policy.InitialDelay = time.Duration(cfg.RetryInitialDelayMS) * time.Millisecond
	}
	client := &Client{
		cfg: Config{
			APIKey:              strings.TrimSpace(cfg.APIKey),
			BaseURL:             strings.TrimSpace(cfg.BaseURL),
			Model:               strings.TrimSpace(cfg.Model),
			TimeoutSeconds:      cfg.TimeoutSeconds,
			MaxRetries:          cfg.MaxRetries,
			RetryInitialDelayMS: cfg.RetryInitialDelayMS,
		},
		httpClient: &http.Client{Timeout: timeout},
		policy:     policy,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://openrouter.ai/api/v1/chat/completions"
	}
	return client
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

// Schema names the JSON shape the model must produce. Definition is a JSON
// schema descriptor serialized into the system prompt.
type Schema struct {
	Name       string
	Definition any
}

// Request describes a single structured completion.
type Request struct {
	Instruction string
	Schema      Schema
	Temperature float64
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (e *httpStatusError) HTTPStatus() int { return e.StatusCode }

// Complete issues a JSON-only chat completion and returns the raw text
// content of the first non-empty choice. A response with no choices or no
// content is not an error: the empty string lets callers produce zero
// results.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		return "", services.Wrap(services.ErrValidation, "llm", "complete", "instruction required", nil)
	}
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "llm", "complete", "api key required", nil)
	}

	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(req.Schema)},
			{Role: "user", Content: instruction},
		},
		Temperature:    req.Temperature,
		ResponseFormat: map[string]string{"type": jsonResponseType},
	}

	return retry.Do(ctx, c.policy, func(ctx context.Context) (string, error) {
		return c.sendChatRequestOnce(ctx, payload)
	})
}

func systemPrompt(schema Schema) string {
	var b strings.Builder
	b.WriteString("You are a precise content generation engine. Respond with JSON only, no prose and no code fences.")
	if schema.Definition != nil {
		encoded, err := json.MarshalIndent(schema.Definition, "", "  ")
		if err == nil {
			b.WriteString("\n\nThe response must conform to the ")
			if schema.Name != "" {
				b.WriteString(schema.Name)
				b.WriteString(" ")
			}
			b.WriteString("schema:\n")
			b.Write(encoded)
		}
	}
	return b.String()
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) sendChatRequestOnce(ctx context.Context, payload chatCompletionRequest) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("llm request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("llm request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", services.Wrap(services.ErrMalformed, "llm", "complete", "decode response", err)
	}
	if completion.Error != nil {
		return "", errors.New("llm request: api error: " + strings.TrimSpace(completion.Error.Message))
	}
	for _, choice := range completion.Choices {
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, nil
		}
		if content := strings.TrimSpace(choice.Text); content != "" {
			return content, nil
		}
	}
	return "", nil
}
