package llmprovider

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/panscience/chat-server/internal/domain/chat"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// Config controls the upstream model endpoint.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// Client implements the chat.Provider interface against an OpenAI-compatible
// chat completion API.
type Client struct {
	cfg    Config
	client *openai.Client
}

// NewClient creates an OpenAI-compatible provider client. A missing API key
// is tolerated here and reported on the first call, so the server can start
// and serve non-LLM endpoints while misconfigured.
func NewClient(cfg Config) *Client {
	c := &Client{cfg: cfg}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return c
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	c.client = openai.NewClientWithConfig(clientCfg)
	return c
}

// Complete runs one chat completion over the prior turns plus the current
// user message.
func (c *Client) Complete(ctx context.Context, systemPrompt string, history []chat.Turn, userMessage string) (string, error) {
	if c.client == nil {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnavailable,
			"missing LLM_API_KEY in environment",
			nil,
			"llm-missing-api-key",
		)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == chat.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages:    messages,
	})
	if err != nil {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"chat completion failed",
			err,
			"llm-completion-error",
		)
	}

	if len(resp.Choices) == 0 {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("chat completion returned no choices (model %s)", c.cfg.Model),
			nil,
			"llm-empty-response",
		)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Ensure interface compliance.
var _ chat.Provider = (*Client)(nil)
