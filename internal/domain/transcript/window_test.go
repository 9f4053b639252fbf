package transcript_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/panscience/chat-server/internal/domain/transcript"
)

func floatPtr(v float64) *float64 { return &v }

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "zero", seconds: 0, want: "00:00:00"},
		{name: "sub-second truncates", seconds: 0.9, want: "00:00:00"},
		{name: "seconds only", seconds: 59, want: "00:00:59"},
		{name: "minutes roll over", seconds: 61, want: "00:01:01"},
		{name: "hours roll over", seconds: 3661, want: "01:01:01"},
		{name: "negative clamps to zero", seconds: -5, want: "00:00:00"},
		{name: "hours above 99 keep width", seconds: 360000, want: "100:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transcript.FormatTimestamp(tt.seconds); got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestRenderWindow(t *testing.T) {
	segments := []transcript.Segment{
		{Start: 0, End: 4, Text: "hello there"},
		{Start: 5, End: 9, Text: "   "},
		{Start: 10, End: 14, Text: "second part"},
		{Start: 20, End: 24, Text: "third part"},
	}

	tests := []struct {
		name  string
		start *float64
		end   *float64
		want  string
	}{
		{
			name: "nil bounds include everything non-empty",
			want: "[00:00:00 - 00:00:04] hello there\n" +
				"[00:00:10 - 00:00:14] second part\n" +
				"[00:00:20 - 00:00:24] third part",
		},
		{
			name:  "window selects overlapping segments",
			start: floatPtr(8),
			end:   floatPtr(12),
			want:  "[00:00:10 - 00:00:14] second part",
		},
		{
			name:  "segment overlapping start boundary is kept",
			start: floatPtr(3),
			end:   floatPtr(3.5),
			want:  "[00:00:00 - 00:00:04] hello there",
		},
		{
			name:  "window past the recording is empty",
			start: floatPtr(100),
			end:   floatPtr(200),
			want:  "",
		},
		{
			name: "open-ended start",
			end:  floatPtr(4),
			want: "[00:00:00 - 00:00:04] hello there",
		},
		{
			name:  "open-ended end",
			start: floatPtr(15),
			want:  "[00:00:20 - 00:00:24] third part",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transcript.RenderWindow(segments, tt.start, tt.end)
			if got != tt.want {
				t.Errorf("RenderWindow() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderWindowCorrectsInvertedSegment(t *testing.T) {
	segments := []transcript.Segment{{Start: 10, End: 5, Text: "glitchy"}}

	got := transcript.RenderWindow(segments, floatPtr(9), floatPtr(11))
	want := "[00:00:10 - 00:00:10] glitchy"
	if got != want {
		t.Errorf("RenderWindow() = %q, want %q", got, want)
	}
}

func TestRenderWindowTruncatesLongOutput(t *testing.T) {
	line := strings.Repeat("x", 1000)
	segments := make([]transcript.Segment, 0, 200)
	for i := 0; i < 200; i++ {
		segments = append(segments, transcript.Segment{Start: float64(i), End: float64(i + 1), Text: line})
	}

	got := transcript.RenderWindow(segments, nil, nil)
	if len(got) != 120000 {
		t.Errorf("RenderWindow() length = %d, want 120000", len(got))
	}
}

func TestRenderWindowTruncatesOnRuneBoundary(t *testing.T) {
	line := strings.Repeat("é", 1000)
	segments := make([]transcript.Segment, 0, 200)
	for i := 0; i < 200; i++ {
		segments = append(segments, transcript.Segment{Start: float64(i), End: float64(i + 1), Text: line})
	}

	got := transcript.RenderWindow(segments, nil, nil)
	if !utf8.ValidString(got) {
		t.Error("RenderWindow() produced invalid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != 120000 {
		t.Errorf("RenderWindow() rune count = %d, want 120000", n)
	}
}
