// Package completion is the optional remote chat-completion backend. It is
// only constructed when a credential is configured.
package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/joeyaochen/portfolio/internal/profile"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7

	// ContextTurns is how many prior turns accompany a request.
	ContextTurns = 5
)

var ErrEmptyChoices = errors.New("completion returned no choices")

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// Message is one prior conversation turn sent as context.
type Message struct {
	Role    string
	Content string
}

type Client struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
	system      string
}

// New returns nil when cfg has no API key: the remote path is disabled.
func New(cfg Config, p *profile.Profile) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}

	return &Client{
		client: openai.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithAPIKey(cfg.APIKey),
			// One attempt only; failures degrade to the canned answers.
			option.WithMaxRetries(0),
		),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		system:      SystemPrompt(p),
	}
}

// Model reports the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the system instruction, the last ContextTurns of history and
// the new user message, and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, history []Message, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    BuildMessages(c.system, history, user),
		MaxTokens:   openai.Int(c.maxTokens),
		Temperature: openai.Float(c.temperature),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildMessages assembles the request message list: system first, then the
// trailing context window in chronological order, then the user message.
func BuildMessages(system string, history []Message, user string) []openai.ChatCompletionMessageParamUnion {
	if len(history) > ContextTurns {
		history = history[len(history)-ContextTurns:]
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	msgs = append(msgs, openai.SystemMessage(system))
	for _, m := range history {
		switch m.Role {
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(user))
	return msgs
}
