// Package llm talks to an OpenAI-compatible chat completions endpoint and
// validates the JSON the model returns. The rest of the application depends
// on it only through the Invoker interface: messages in, completion out.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Message is one role-tagged chat message. Every operation sends exactly
// two: a system instruction and a user task description.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat is the structured-output hint sent with every request.
type ResponseFormat struct {
	Type string `json:"type"`
}

// Request is the chat completions request body.
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ContentPart is one element of a multi-part message content list.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ChoiceMessage holds the raw content of one choice. Content is either a
// JSON string or a list of typed parts, so it is kept raw until extraction.
type ChoiceMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// Choice is one completion choice.
type Choice struct {
	Index        int           `json:"index"`
	FinishReason string        `json:"finish_reason"`
	Message      ChoiceMessage `json:"message"`
}

// Completion is the provider response. The adapter guarantees at least one
// choice is present.
type Completion struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Content extracts the canonical text from the first choice. A plain string
// is used directly; for a list of parts, the first element that is itself a
// string or is a typed text part wins. Anything else yields "".
func (c *Completion) Content() string {
	if len(c.Choices) == 0 {
		return ""
	}
	raw := c.Choices[0].Message.Content

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	for _, p := range parts {
		var ps string
		if err := json.Unmarshal(p, &ps); err == nil {
			return ps
		}
		var part ContentPart
		if err := json.Unmarshal(p, &part); err == nil && part.Type == "text" {
			return part.Text
		}
	}
	return ""
}

// Invoker is the narrow interface the operation handlers depend on.
// One call per operation, no retry, no streaming.
type Invoker interface {
	Invoke(ctx context.Context, messages []Message) (*Completion, error)
}

// ClientConfig configures the provider client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is a resty-backed Invoker.
type Client struct {
	http  *resty.Client
	model string
}

// NewClient constructs a provider client for an OpenAI-compatible endpoint.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		cli.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &Client{http: cli, model: cfg.Model}
}

// Invoke sends the messages with a JSON response-format hint and returns
// the full completion. Any transport, status, decode, or empty-choices
// failure is a ProviderError.
func (c *Client) Invoke(ctx context.Context, messages []Message) (*Completion, error) {
	body := Request{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/v1/chat/completions")
	if err != nil {
		return nil, &ProviderError{Err: fmt.Errorf("chat completions request: %w", err)}
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		msg := strings.TrimSpace(string(resp.Body()))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return nil, &ProviderError{Err: fmt.Errorf("http %d: %s", resp.StatusCode(), msg)}
	}

	var out Completion
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, &ProviderError{Err: fmt.Errorf("decode chat completions response: %w", err)}
	}
	if len(out.Choices) == 0 {
		return nil, &ProviderError{Err: errors.New("completion has no choices")}
	}

	return &out, nil
}
