// Package openaikw extracts slide keywords with OpenAI structured outputs.
package openaikw

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

const maxPromptRunes = 12000

// KeywordsResponse is the structured output requested from the model.
type KeywordsResponse struct {
	Keywords []string `json:"keywords" jsonschema_description:"Keywords in order of first appearance: named people, organizations, products, events and places, then important nouns and adjectives"`
}

// generateSchema reflects a strict JSON schema for T.
func generateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var keywordsSchema = generateSchema[KeywordsResponse]()

// Extractor implements keyword extraction against the chat completions API.
type Extractor struct {
	client openai.Client
	model  string
	logger logger.Logger
}

// New creates an Extractor. Extra request options are passed to the client.
func New(cfg config.OpenAIConfig, apiKey string, log logger.Logger, opts ...option.RequestOption) *Extractor {
	model := cfg.Model
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Extractor{
		client: openai.NewClient(opts...),
		model:  model,
		logger: log,
	}
}

func (e *Extractor) Name() string { return "openai" }

// Extract asks the model for up to max keywords as a strict JSON schema.
func (e *Extractor) Extract(ctx context.Context, text string, max int) ([]string, error) {
	if runes := []rune(text); len(runes) > maxPromptRunes {
		text = string(runes[:maxPromptRunes])
	}

	prompt := fmt.Sprintf(`Extract up to %d keywords from the article below.
Prefer named people, organizations, products, events and places, then important nouns and adjectives longer than 2 characters.
Skip stopwords and duplicates and keep the order of first appearance.

Article:
---
%s
---`, max, text)

	completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(e.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "slide_keywords",
					Description: openai.String("Keywords extracted from an article"),
					Schema:      keywordsSchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	raw := completion.Choices[0].Message.Content
	if raw == "" {
		return nil, fmt.Errorf("OpenAI returned empty response. Finish reason: %s", completion.Choices[0].FinishReason)
	}

	var resp KeywordsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI JSON response: %w", err)
	}

	e.logger.Debug(ctx, "OpenAI returned %d keywords", len(resp.Keywords))
	if max > 0 && len(resp.Keywords) > max {
		resp.Keywords = resp.Keywords[:max]
	}
	return resp.Keywords, nil
}
