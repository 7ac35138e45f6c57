package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// mockGenerator returns a canned response or error for every call.
type mockGenerator struct {
	response *genai.GenerateContentResponse
	err      error
}

func (m *mockGenerator) GenerateContent(
	_ context.Context,
	_ string,
	_ []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "API key")
}

func TestGenerateJSON(t *testing.T) {
	t.Parallel()

	t.Run("returns trimmed text", func(t *testing.T) {
		t.Parallel()
		client := NewClientWithGenerator(&mockGenerator{response: textResponse("  {\"a\":1}  ")})
		got, err := client.GenerateJSON(context.Background(), "prompt", nil)
		require.NoError(t, err)
		require.Equal(t, `{"a":1}`, got)
	})

	t.Run("propagates generator error", func(t *testing.T) {
		t.Parallel()
		client := NewClientWithGenerator(&mockGenerator{err: errors.New("quota exceeded")})
		_, err := client.GenerateJSON(context.Background(), "prompt", nil)
		require.Error(t, err)
	})

	t.Run("empty response is an error", func(t *testing.T) {
		t.Parallel()
		client := NewClientWithGenerator(&mockGenerator{response: textResponse("")})
		_, err := client.GenerateJSON(context.Background(), "prompt", nil)
		require.Error(t, err)
	})
}

func TestSanitizeForPrompt(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a b c", SanitizeForPrompt("a\nb\t c", 0))
	require.Equal(t, "кофе", SanitizeForPrompt("кофе 150", 4))
	require.Equal(t, "short", SanitizeForPrompt("short", 100))
}
