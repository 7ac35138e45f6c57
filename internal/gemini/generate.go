package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GenerateJSON runs one structured-output generation call and returns the raw
// response text. The caller supplies the config, including ResponseSchema.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := c.generator.GenerateContent(ctx, ModelName, []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response from Gemini")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

// SanitizeForPrompt prepares user text for embedding in a prompt: newlines
// collapse to spaces and the result is capped at maxLen runes.
func SanitizeForPrompt(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if maxLen > 0 && len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return text
}
