package gemini

import (
	"context"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

// generateFunc performs one GenerateContent call with a single key.
type generateFunc func(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type implClient struct {
	cfg      config.GeminiConfig
	apiKeys  []string
	generate generateFunc
	logger   logger.Logger

	mu         sync.Mutex
	currentKey int
}

// New creates a Client that rotates through the supplied API keys.
func New(cfg config.GeminiConfig, apiKeys []string, log logger.Logger) Client {
	return newClient(cfg, apiKeys, generateContent, log)
}

func newClient(cfg config.GeminiConfig, apiKeys []string, gen generateFunc, log logger.Logger) *implClient {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.TTSModel == "" {
		cfg.TTSModel = "gemini-2.5-flash-preview-tts"
	}
	return &implClient{
		cfg:      cfg,
		apiKeys:  apiKeys,
		generate: gen,
		logger:   log,
	}
}

func generateContent(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models.GenerateContent(ctx, model, contents, cfg)
}
