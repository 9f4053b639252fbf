package chat

import (
	"regexp"
	"strings"
)

// clockPattern matches clock-like references such as "12:30" or "1:02:45".
var clockPattern = regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\b`)

// transcriptKeywords are cues that a message is asking about uploaded media
// rather than continuing a plain conversation.
var transcriptKeywords = []string{
	"transcript",
	"recording",
	"audio",
	"video",
	"clip",
	"attached",
	"the file",
	"timestamp",
	"timecode",
	"minute",
	"minutes",
	"second",
	"seconds",
}

// LooksTranscriptRelated reports whether the message plausibly refers to an
// uploaded recording. An explicit time window always counts; otherwise the
// message must contain a clock reference or one of the media keywords.
func LooksTranscriptRelated(message string, start, end *float64) bool {
	if start != nil || end != nil {
		return true
	}

	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return false
	}

	if clockPattern.MatchString(text) {
		return true
	}

	for _, k := range transcriptKeywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
