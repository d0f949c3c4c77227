package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	keywordPrompt = `Extract up to %d keywords from the article below.

Rules:
- List named people, organizations, products, events and places first
- Then add important nouns, proper nouns and adjectives longer than 2 characters
- Skip stopwords and duplicates
- Keep the order in which each keyword first appears in the text
- Use the exact spelling from the text
- Reply with a JSON array of strings only

Article:
---
%s
---`

	// maxPromptRunes keeps keyword prompts well under the context window.
	maxPromptRunes = 12000
)

// KeywordExtractor ranks keywords with Gemini.
type KeywordExtractor struct {
	client Client
}

// NewKeywordExtractor wraps client as a segmenter keyword extractor.
func NewKeywordExtractor(client Client) *KeywordExtractor {
	return &KeywordExtractor{client: client}
}

func (k *KeywordExtractor) Name() string { return "gemini" }

// Extract asks Gemini for up to max ranked keywords as a JSON array.
func (k *KeywordExtractor) Extract(ctx context.Context, text string, max int) ([]string, error) {
	if runes := []rune(text); len(runes) > maxPromptRunes {
		text = string(runes[:maxPromptRunes])
	}

	raw, err := k.client.GenerateText(ctx, fmt.Sprintf(keywordPrompt, max, text), true)
	if err != nil {
		return nil, err
	}

	keywords, err := ParseKeywordList(raw)
	if err != nil {
		return nil, err
	}
	if max > 0 && len(keywords) > max {
		keywords = keywords[:max]
	}
	return keywords, nil
}

// ParseKeywordList decodes a JSON array of strings, tolerating a markdown
// code fence around it.
func ParseKeywordList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var keywords []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &keywords); err != nil {
		return nil, fmt.Errorf("parse keyword list: %w", err)
	}
	return keywords, nil
}
