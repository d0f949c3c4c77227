package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GenerateText calls the text model.
func (c *implClient) GenerateText(ctx context.Context, prompt string, jsonArray bool) (string, error) {
	var cfg *genai.GenerateContentConfig
	if jsonArray {
		cfg = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &genai.Schema{
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		}
	}

	result, err := c.call(ctx, c.cfg.Model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

// Speak calls the speech model and collects the inline audio parts.
func (c *implClient) Speak(ctx context.Context, text, voice, language string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: language,
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	result, err := c.call(ctx, c.cfg.TTSModel, genai.Text(text), cfg)
	if err != nil {
		return nil, err
	}

	var pcm []byte
	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil {
			pcm = append(pcm, part.InlineData.Data...)
		}
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("no audio in Gemini response")
	}
	return pcm, nil
}

// call tries each key at most once, rotating on rate-limit errors. Any
// other error is returned immediately.
func (c *implClient) call(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if len(c.apiKeys) == 0 {
		return nil, ErrNoAPIKeys
	}

	var lastErr error
	for range len(c.apiKeys) {
		idx, key := c.key()

		result, err := c.generate(ctx, key, model, contents, cfg)
		if err != nil {
			if isRateLimited(err) {
				c.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", idx+1)
				c.rotateKey(idx)
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("generate content: %w", err)
		}

		if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
			return nil, fmt.Errorf("empty response from Gemini")
		}
		return result, nil
	}

	return nil, fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (c *implClient) key() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentKey, c.apiKeys[c.currentKey]
}

// rotateKey advances past idx unless another caller already has.
func (c *implClient) rotateKey(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentKey == idx {
		c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
