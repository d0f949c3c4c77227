package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"

	"github.com/nguyentantai21042004/slidecast/internal/gemini"
	"github.com/nguyentantai21042004/slidecast/pkg/executor"
)

const (
	sampleRate         = 24000
	wordsPerSecond     = 2.5
	minSilenceDuration = 5.0
	httpSampleRate     = 22050
	httpModel          = "bulbul:v2"
	defaultSpeaker     = "vidya"
)

// geminiProvider speaks through Gemini TTS and wraps the PCM in WAV.
type geminiProvider struct {
	client   gemini.Client
	voice    string
	executor executor.Executor
}

// NewGeminiProvider creates the Gemini TTS provider.
func NewGeminiProvider(client gemini.Client, voice string, exec executor.Executor) Provider {
	return &geminiProvider{client: client, voice: voice, executor: exec}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Synthesize(ctx context.Context, text, language, out string) error {
	pcm, err := p.client.Speak(ctx, text, p.voice, language)
	if err != nil {
		return err
	}
	if len(pcm) == 0 {
		return fmt.Errorf("gemini returned no audio")
	}

	raw := out + ".pcm"
	if err := os.WriteFile(raw, pcm, 0644); err != nil {
		return err
	}
	defer os.Remove(raw)

	args := []string{
		"-f", "s16le",
		"-ar", fmt.Sprint(gemini.SampleRate),
		"-ac", "1",
		"-i", raw,
		"-c:a", "pcm_s16le",
		"-y",
		out,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg wrap pcm: %w", err)
	}
	return nil
}

// httpProvider posts to a JSON TTS endpoint that answers with base64
// encoded audio.
type httpProvider struct {
	endpoint string
	apiKey   string
	speaker  string
	client   *http.Client
}

// NewHTTPProvider creates a provider for a Sarvam-compatible TTS endpoint.
func NewHTTPProvider(endpoint, apiKey, speaker string, client *http.Client) Provider {
	if client == nil {
		client = http.DefaultClient
	}
	if speaker == "" {
		speaker = defaultSpeaker
	}
	return &httpProvider{endpoint: endpoint, apiKey: apiKey, speaker: speaker, client: client}
}

func (p *httpProvider) Name() string { return "http" }

type ttsRequest struct {
	Inputs              []string `json:"inputs"`
	TargetLanguageCode  string   `json:"target_language_code"`
	Speaker             string   `json:"speaker"`
	SpeechSampleRate    int      `json:"speech_sample_rate"`
	EnablePreprocessing bool     `json:"enable_preprocessing"`
	Model               string   `json:"model"`
}

type ttsResponse struct {
	Audios []string `json:"audios"`
}

func (p *httpProvider) Synthesize(ctx context.Context, text, language, out string) error {
	if p.endpoint == "" {
		return fmt.Errorf("tts endpoint not configured")
	}

	payload, err := json.Marshal(ttsRequest{
		Inputs:              []string{text},
		TargetLanguageCode:  targetLanguage(language),
		Speaker:             p.speaker,
		SpeechSampleRate:    httpSampleRate,
		EnablePreprocessing: true,
		Model:               httpModel,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("api-subscription-key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(result.Audios) == 0 || result.Audios[0] == "" {
		return fmt.Errorf("no audio in response")
	}

	encoded := result.Audios[0]
	if i := strings.Index(encoded, ","); i != -1 {
		encoded = encoded[i+1:]
	}
	audio, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}
	return os.WriteFile(out, audio, 0644)
}

// targetLanguage maps a narration language to a BCP-47 code with region.
func targetLanguage(language string) string {
	switch language {
	case "en":
		return "en-IN"
	case "hi":
		return "hi-IN"
	}
	return language
}

// silenceProvider writes silence as long as the text would take to read.
type silenceProvider struct {
	executor executor.Executor
}

// NewSilenceProvider creates the last-resort provider.
func NewSilenceProvider(exec executor.Executor) Provider {
	return &silenceProvider{executor: exec}
}

func (p *silenceProvider) Name() string { return "silence" }

func (p *silenceProvider) Synthesize(ctx context.Context, text, _ string, out string) error {
	args := []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%d:cl=mono", sampleRate),
		"-t", fmt.Sprintf("%.3f", SilenceDuration(text)),
		"-c:a", "pcm_s16le",
		"-y",
		out,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg silence: %w", err)
	}
	return nil
}

// SilenceDuration estimates reading time at 2.5 words per second, never
// less than five seconds.
func SilenceDuration(text string) float64 {
	return math.Max(minSilenceDuration, float64(len(strings.Fields(text)))/wordsPerSecond)
}
