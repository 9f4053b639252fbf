package transcriber

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/panscience/chat-server/internal/domain/transcript"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

const baseURL = "https://api.deepgram.com"

// Words are grouped into segments of at most this many seconds when the
// response has neither utterances nor paragraphs.
const maxWordBucketSeconds = 8.0

// Config controls the Deepgram prerecorded transcription client.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client implements transcript.Transcriber against the Deepgram prerecorded
// API.
type Client struct {
	cfg        Config
	httpClient *resty.Client
}

// NewClient creates a Resty-backed Deepgram client. A missing API key is
// reported on the first call rather than at startup.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(cfg.Timeout),
	}
}

// listenResponse mirrors the slice of the Deepgram response we consume.
type listenResponse struct {
	Metadata struct {
		Duration float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Utterances []struct {
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
			Transcript string  `json:"transcript"`
		} `json:"utterances"`
		Channels []struct {
			Alternatives []struct {
				Paragraphs struct {
					Paragraphs []struct {
						Start     float64 `json:"start"`
						End       float64 `json:"end"`
						Text      string  `json:"text"`
						Sentences []struct {
							Text string `json:"text"`
						} `json:"sentences"`
					} `json:"paragraphs"`
				} `json:"paragraphs"`
				Words []listenWord `json:"words"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

type listenWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcribe posts raw media bytes to Deepgram and extracts timestamped
// segments from the response.
func (c *Client) Transcribe(ctx context.Context, data []byte, mimetype, filename, language string) (*transcript.Result, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnavailable,
			"missing DEEPGRAM_API_KEY in environment",
			nil,
			"deepgram-missing-api-key",
		)
	}

	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	params := map[string]string{
		"model":        c.cfg.Model,
		"smart_format": "true",
		"punctuate":    "true",
		"utterances":   "true",
		"paragraphs":   "true",
	}
	if language != "" {
		params["language"] = language
	}

	var payload listenResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeader("Authorization", "Token "+c.cfg.APIKey).
		SetHeader("Content-Type", mimetype).
		SetBody(data).
		SetResult(&payload).
		Post("/v1/listen")
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"deepgram request failed",
			err,
			"deepgram-request-error",
		)
	}
	if resp.IsError() {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("deepgram transcription failed (%d): %s", resp.StatusCode(), resp.String()),
			nil,
			"deepgram-status-error",
		)
	}

	result := &transcript.Result{
		Segments: extractSegments(&payload),
	}
	if payload.Metadata.Duration > 0 {
		d := payload.Metadata.Duration
		result.Duration = &d
	}
	return result, nil
}

// extractSegments flattens the Deepgram response into timestamped segments,
// preferring utterances, then paragraphs, then grouped words.
func extractSegments(payload *listenResponse) []transcript.Segment {
	if segs := segmentsFromUtterances(payload); len(segs) > 0 {
		return segs
	}

	if len(payload.Results.Channels) == 0 || len(payload.Results.Channels[0].Alternatives) == 0 {
		return nil
	}
	alt := payload.Results.Channels[0].Alternatives[0]

	segs := make([]transcript.Segment, 0, len(alt.Paragraphs.Paragraphs))
	for _, p := range alt.Paragraphs.Paragraphs {
		text := p.Text
		if len(p.Sentences) > 0 {
			parts := make([]string, 0, len(p.Sentences))
			for _, s := range p.Sentences {
				if t := strings.TrimSpace(s.Text); t != "" {
					parts = append(parts, t)
				}
			}
			text = strings.Join(parts, " ")
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		segs = append(segs, transcript.Segment{Start: p.Start, End: p.End, Text: text})
	}
	if len(segs) > 0 {
		return segs
	}

	return segmentsFromWords(alt.Words)
}

func segmentsFromUtterances(payload *listenResponse) []transcript.Segment {
	segs := make([]transcript.Segment, 0, len(payload.Results.Utterances))
	for _, u := range payload.Results.Utterances {
		text := strings.TrimSpace(u.Transcript)
		if text == "" {
			continue
		}
		segs = append(segs, transcript.Segment{Start: u.Start, End: u.End, Text: text})
	}
	return segs
}

func segmentsFromWords(words []listenWord) []transcript.Segment {
	var segs []transcript.Segment
	var bucket []string
	bucketStart := -1.0
	bucketEnd := 0.0

	flush := func() {
		if len(bucket) > 0 && bucketStart >= 0 {
			segs = append(segs, transcript.Segment{
				Start: bucketStart,
				End:   bucketEnd,
				Text:  strings.Join(bucket, " "),
			})
		}
	}

	for _, w := range words {
		word := strings.TrimSpace(w.Word)
		if word == "" {
			continue
		}
		wEnd := w.End
		if wEnd < w.Start {
			wEnd = w.Start
		}

		if bucketStart < 0 {
			bucketStart, bucketEnd = w.Start, wEnd
			bucket = []string{word}
			continue
		}

		if wEnd-bucketStart > maxWordBucketSeconds {
			flush()
			bucketStart, bucketEnd = w.Start, wEnd
			bucket = []string{word}
		} else {
			bucket = append(bucket, word)
			bucketEnd = wEnd
		}
	}
	flush()

	return segs
}

// Ensure interface compliance.
var _ transcript.Transcriber = (*Client)(nil)
