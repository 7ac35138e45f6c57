package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// PhraseTimeout bounds one reply-phrasing call.
const PhraseTimeout = 8 * time.Second

// Phrase rewords a reply built from pre-computed facts. Only the facts are
// sent; the model must not invent or alter any number. Callers fall back to
// the plain facts string on any error.
func (c *Client) Phrase(ctx context.Context, facts, language string) (string, error) {
	if strings.TrimSpace(facts) == "" {
		return "", fmt.Errorf("facts are required")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, PhraseTimeout)
	defer cancel()

	prompt := fmt.Sprintf(`You phrase replies for a personal finance notebook bot.
Rewrite the facts below as one short friendly message in language %q.
Keep every number and currency code exactly as given. Do not add, remove,
round or convert any figure. Return only the message text.

Facts:
%s`, language, facts)

	resp, err := c.generator.GenerateContent(timeoutCtx, ModelName, []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to phrase reply: %w", err)
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
