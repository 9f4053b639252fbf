package chat

import (
	"fmt"
	"strings"

	"github.com/panscience/chat-server/internal/domain/conversation"
)

const (
	// maxHistoryTurns caps how much prior conversation is replayed to the
	// model on each request.
	maxHistoryTurns = 40

	// maxDocumentPromptChars bounds inlined document text per prompt.
	maxDocumentPromptChars = 50000

	documentTruncationNotice = "\n\n[Content truncated for context window...]"
)

const (
	defaultSystemPrompt = "You are PanScience, a helpful conversational AI assistant. " +
		"Be concise, accurate, and friendly."

	documentSystemPrompt = "You are PanScience, a helpful conversational AI assistant. " +
		"When analyzing documents, provide clear summaries and accurate information. " +
		"Be concise, accurate, and friendly."

	transcriptSystemPrompt = "You are PanScience, a helpful conversational AI assistant. " +
		"If the user's message contains a Transcript section, you MUST use only that Transcript for facts " +
		"and ignore earlier conversation history for factual claims. " +
		"Be concise, accurate, and friendly."
)

// BuildTurns converts stored messages to model turns, oldest first. Blank
// messages are dropped and only the most recent maxHistoryTurns survive.
// Unknown senders default to the user role.
func BuildTurns(history []*conversation.Message) []Turn {
	turns := make([]Turn, 0, len(history))
	for _, m := range history {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		role := RoleUser
		if strings.ToLower(strings.TrimSpace(m.Sender)) == conversation.SenderAssistant {
			role = RoleAssistant
		}
		turns = append(turns, Turn{Role: role, Content: m.Text})
	}
	if len(turns) > maxHistoryTurns {
		turns = turns[len(turns)-maxHistoryTurns:]
	}
	return turns
}

// BuildDocumentPrompt inlines extracted document text under the question.
func BuildDocumentPrompt(question, filename, format, content string) string {
	if filename == "" {
		filename = "document"
	}
	if format == "" {
		format = "Unknown"
	}
	if len(content) > maxDocumentPromptChars {
		content = content[:maxDocumentPromptChars] + documentTruncationNotice
	}

	return fmt.Sprintf(
		"You are given the contents of a document: %s\n"+
			"Format: %s\n\n"+
			"Answer the user's question using the document content below. "+
			"Provide summaries, extract information, or answer questions based on the document. "+
			"If the answer is not in the document, say so clearly.\n\n"+
			"Question: %s\n\n"+
			"Document Content:\n%s\n\nAnswer:",
		filename, format, strings.TrimSpace(question), content,
	)
}

// BuildTranscriptChatPrompt wraps a rendered transcript window for the chat
// flow, naming the time window when the caller constrained one.
func BuildTranscriptChatPrompt(question, window string, start, end *float64) string {
	clause := ""
	if start != nil || end != nil {
		// %g keeps fractional bounds readable and drops a trailing ".0"
		// on whole seconds.
		st := "0"
		if start != nil {
			st = fmt.Sprintf("%g", *start)
		}
		et := "end"
		if end != nil {
			et = fmt.Sprintf("%g", *end)
		}
		clause = fmt.Sprintf(" Time window: %ss to %ss.", st, et)
	}

	return "You are given a transcript from an audio/video recording with timestamps." + clause + " " +
		"Answer the user's question using ONLY the transcript content below. " +
		"Do not mention any limitations about accessing media files; you already have the transcript. " +
		"If the answer is not present in the transcript, say exactly: Not stated in the recording. " +
		"When you make a factual claim, include at least one supporting timestamp range in brackets.\n\n" +
		"Question: " + strings.TrimSpace(question) + "\n\n" +
		"Transcript:\n" + window + "\n\nAnswer (with timestamps):"
}

// BuildTranscriptAnswerPrompt wraps a rendered transcript window for the
// single-shot media answer endpoint.
func BuildTranscriptAnswerPrompt(question, window string) string {
	return "You are given a transcript from an audio/video recording with timestamps. " +
		"Answer the user's question using ONLY the transcript content below. " +
		"If the answer is not present in the transcript, say: 'Not stated in the recording.' " +
		"When you make a factual claim, include at least one supporting timestamp range in brackets.\n\n" +
		"Question: " + strings.TrimSpace(question) + "\n\n" +
		"Transcript:\n" + window + "\n\nAnswer (with timestamps):"
}
