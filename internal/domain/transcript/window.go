package transcript

import (
	"math"
	"strings"
)

// maxWindowChars bounds the rendered transcript so prompts stay within the
// model's context window.
const maxWindowChars = 120000

// RenderWindow formats the segments overlapping [start, end] as one line per
// segment: "[HH:MM:SS - HH:MM:SS] text". A nil start defaults to 0 and a nil
// end to the end of the recording. Segments with empty text are skipped. The
// result is truncated at maxWindowChars and is empty when nothing overlaps.
func RenderWindow(segments []Segment, start, end *float64) string {
	st := 0.0
	if start != nil {
		st = *start
	}
	et := math.Inf(1)
	if end != nil {
		et = *end
	}

	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segEnd := seg.End
		if segEnd < seg.Start {
			segEnd = seg.Start
		}
		if segEnd >= st && seg.Start <= et {
			lines = append(lines, "["+FormatTimestamp(seg.Start)+" - "+FormatTimestamp(segEnd)+"] "+text)
		}
	}

	if len(lines) == 0 {
		return ""
	}

	window := strings.Join(lines, "\n")
	// Cap by runes so a multibyte character never gets split.
	if runes := []rune(window); len(runes) > maxWindowChars {
		window = string(runes[:maxWindowChars])
	}
	return window
}
