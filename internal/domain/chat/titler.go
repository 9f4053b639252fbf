package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/conversation"
)

const (
	fallbackTitle = "New Chat"
	maxTitleChars = 80
)

// Titler names conversations from their first exchange. Failures are logged
// and swallowed; the conversation keeps its placeholder title.
type Titler struct {
	provider      Provider
	conversations *conversation.Service
	logger        zerolog.Logger
}

// NewTitler constructs a titler.
func NewTitler(provider Provider, conversations *conversation.Service, logger zerolog.Logger) *Titler {
	return &Titler{
		provider:      provider,
		conversations: conversations,
		logger:        logger.With().Str("component", "titler").Logger(),
	}
}

// Process generates a title for the task's conversation and stores it unless
// the user already renamed the conversation.
func (t *Titler) Process(ctx context.Context, task TitleTask) {
	title, err := t.GenerateTitle(ctx, task.FirstUserMessage, task.FirstAssistantMessage)
	if err != nil {
		t.logger.Warn().Err(err).
			Str("conversation_id", task.ConversationID).
			Msg("failed to generate conversation title")
		return
	}

	updated, err := t.conversations.SetTitleIfPlaceholder(ctx, task.UserID, task.ConversationID, title)
	if err != nil {
		t.logger.Warn().Err(err).
			Str("conversation_id", task.ConversationID).
			Msg("failed to persist conversation title")
		return
	}
	if !updated {
		t.logger.Debug().
			Str("conversation_id", task.ConversationID).
			Msg("title already set, keeping existing")
	}
}

// GenerateTitle asks the model for a short title from the first exchange.
// When both messages are blank it returns the fallback without a model call.
func (t *Titler) GenerateTitle(ctx context.Context, firstUserMessage, firstAssistantMessage string) (string, error) {
	userText := strings.TrimSpace(firstUserMessage)
	assistantText := strings.TrimSpace(firstAssistantMessage)
	if userText == "" && assistantText == "" {
		return fallbackTitle, nil
	}

	prompt := "Write a short, helpful chat title based on the user's first message and the assistant's first reply. " +
		"Rules: 3-8 words, Title Case, no quotes, no emojis, no trailing punctuation. " +
		"Return ONLY the title text.\n\n" +
		"User: " + userText + "\n" +
		"Assistant: " + assistantText + "\n" +
		"Title:"

	raw, err := t.provider.Complete(ctx, "", nil, prompt)
	if err != nil {
		return "", err
	}

	return CleanTitle(raw), nil
}

// CleanTitle normalizes model output into a single-line title capped at
// maxTitleChars, falling back when nothing usable remains.
func CleanTitle(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, `"`)
	cleaned = strings.Trim(cleaned, "'")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return fallbackTitle
	}
	// Cap by runes so a multibyte character never gets split.
	if runes := []rune(cleaned); len(runes) > maxTitleChars {
		cleaned = string(runes[:maxTitleChars])
	}
	return cleaned
}
