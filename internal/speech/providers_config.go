package speech

import (
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/gemini"
	"github.com/nguyentantai21042004/slidecast/pkg/executor"
)

// Deps are the collaborators providers may need.
type Deps struct {
	Gemini     gemini.Client
	HTTPClient *http.Client
	TTSAPIKey  string
	Executor   executor.Executor
}

// ProvidersFromConfig builds the ranked provider chain named in
// cfg.Providers. A gemini entry without a client is skipped.
func ProvidersFromConfig(cfg config.SpeechConfig, deps Deps) ([]Provider, error) {
	var providers []Provider
	for _, name := range cfg.Providers {
		switch name {
		case "gemini":
			if deps.Gemini == nil {
				continue
			}
			providers = append(providers, NewGeminiProvider(deps.Gemini, cfg.GeminiVoice, deps.Executor))
		case "http":
			if cfg.HTTPEndpoint == "" {
				continue
			}
			providers = append(providers, NewHTTPProvider(cfg.HTTPEndpoint, deps.TTSAPIKey, cfg.HTTPSpeaker, deps.HTTPClient))
		case "silence":
			providers = append(providers, NewSilenceProvider(deps.Executor))
		default:
			return nil, fmt.Errorf("unknown speech provider %q", name)
		}
	}
	return providers, nil
}
