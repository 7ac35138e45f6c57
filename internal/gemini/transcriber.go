package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// TranscribeTimeout bounds one transcription call.
const TranscribeTimeout = 15 * time.Second

// ErrEmptyTranscript indicates the audio produced no usable text. This is a
// normal outcome (silence, noise), not a service failure.
var ErrEmptyTranscript = errors.New("transcription produced no text")

// Transcriber converts voice audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

var _ Transcriber = (*Client)(nil)

// Transcribe converts a voice message to plain text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio data is required")
	}
	if mimeType == "" {
		mimeType = "audio/ogg"
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, TranscribeTimeout)
	defer cancel()

	resp, err := c.generator.GenerateContent(timeoutCtx, ModelName, []*genai.Content{
		{
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: audio}},
				{Text: "Transcribe this voice message verbatim in its original language. Return only the transcript text, nothing else. Return an empty string if there is no speech."},
			},
		},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	if resp == nil {
		return "", ErrEmptyTranscript
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}
