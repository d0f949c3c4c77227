package gemini

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

// scriptedGenerate answers per key: a key listed in failures returns that
// error, any other key returns resp.
type scriptedGenerate struct {
	mu       sync.Mutex
	failures map[string]error
	resp     *genai.GenerateContentResponse
	keys     []string
	models   []string
	configs  []*genai.GenerateContentConfig
}

func (s *scriptedGenerate) fn(_ context.Context, apiKey, model string, _ []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, apiKey)
	s.models = append(s.models, model)
	s.configs = append(s.configs, cfg)
	if err, ok := s.failures[apiKey]; ok {
		return nil, err
	}
	return s.resp, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGenerateTextRotatesOnQuota(t *testing.T) {
	gen := &scriptedGenerate{
		failures: map[string]error{"k1": errors.New("Error 429: RESOURCE_EXHAUSTED")},
		resp:     textResponse("hello"),
	}
	c := newClient(config.GeminiConfig{}, []string{"k1", "k2"}, gen.fn, logger.Nop())

	got, err := c.GenerateText(context.Background(), "prompt", false)
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("GenerateText() = %q", got)
	}
	if !reflect.DeepEqual(gen.keys, []string{"k1", "k2"}) {
		t.Errorf("keys tried = %v", gen.keys)
	}

	// The rotated key stays current for the next call.
	if _, err := c.GenerateText(context.Background(), "again", false); err != nil {
		t.Fatal(err)
	}
	if gen.keys[2] != "k2" {
		t.Errorf("second call used %s, want k2", gen.keys[2])
	}
}

func TestGenerateTextErrors(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		gen     *scriptedGenerate
		wantErr string
	}{
		{
			name:    "no keys",
			gen:     &scriptedGenerate{},
			wantErr: ErrNoAPIKeys.Error(),
		},
		{
			name: "all keys exhausted",
			keys: []string{"a", "b"},
			gen: &scriptedGenerate{failures: map[string]error{
				"a": errors.New("quota exceeded"),
				"b": errors.New("429 too many requests"),
			}},
			wantErr: "all API keys exhausted",
		},
		{
			name:    "other errors are not retried",
			keys:    []string{"a", "b"},
			gen:     &scriptedGenerate{failures: map[string]error{"a": errors.New("permission denied")}},
			wantErr: "permission denied",
		},
		{
			name:    "empty candidates",
			keys:    []string{"a"},
			gen:     &scriptedGenerate{resp: &genai.GenerateContentResponse{}},
			wantErr: "empty response",
		},
		{
			name:    "blank text",
			keys:    []string{"a"},
			gen:     &scriptedGenerate{resp: textResponse("  ")},
			wantErr: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(config.GeminiConfig{}, tt.keys, tt.gen.fn, logger.Nop())
			_, err := c.GenerateText(context.Background(), "p", false)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	t.Run("permission denied tries one key", func(t *testing.T) {
		gen := &scriptedGenerate{failures: map[string]error{"a": errors.New("permission denied")}}
		c := newClient(config.GeminiConfig{}, []string{"a", "b"}, gen.fn, logger.Nop())
		c.GenerateText(context.Background(), "p", false)
		if len(gen.keys) != 1 {
			t.Errorf("tried %d keys, want 1", len(gen.keys))
		}
	})
}

func TestSpeak(t *testing.T) {
	gen := &scriptedGenerate{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{InlineData: &genai.Blob{Data: []byte{1, 2}, MIMEType: "audio/L16;rate=24000"}},
				{InlineData: &genai.Blob{Data: []byte{3, 4}}},
			}},
		}},
	}}
	c := newClient(config.GeminiConfig{TTSModel: "tts-model"}, []string{"k"}, gen.fn, logger.Nop())

	pcm, err := c.Speak(context.Background(), "Hello there", "Kore", "en-US")
	if err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	if !reflect.DeepEqual(pcm, []byte{1, 2, 3, 4}) {
		t.Errorf("pcm = %v", pcm)
	}
	if gen.models[0] != "tts-model" {
		t.Errorf("model = %s", gen.models[0])
	}
	cfg := gen.configs[0]
	if cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Kore" || cfg.ResponseModalities[0] != "AUDIO" {
		t.Errorf("speech config = %+v", cfg)
	}

	noAudio := &scriptedGenerate{resp: textResponse("I cannot speak")}
	c = newClient(config.GeminiConfig{}, []string{"k"}, noAudio.fn, logger.Nop())
	if _, err := c.Speak(context.Background(), "x", "Kore", "en"); err == nil {
		t.Error("Speak() should fail without inline audio")
	}
}

func TestKeywordExtractor(t *testing.T) {
	gen := &scriptedGenerate{resp: textResponse("```json\n[\"NASA\", \"Artemis\", \"Moon\", \"launch\"]\n```")}
	c := newClient(config.GeminiConfig{}, []string{"k"}, gen.fn, logger.Nop())

	ex := NewKeywordExtractor(c)
	if ex.Name() != "gemini" {
		t.Errorf("Name() = %s", ex.Name())
	}

	got, err := ex.Extract(context.Background(), "NASA launched Artemis to the Moon.", 3)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"NASA", "Artemis", "Moon"}) {
		t.Errorf("Extract() = %v", got)
	}
	if cfg := gen.configs[0]; cfg == nil || cfg.ResponseMIMEType != "application/json" {
		t.Errorf("keyword call should request JSON, config = %+v", cfg)
	}
}

func TestParseKeywordList(t *testing.T) {
	if _, err := ParseKeywordList("not json"); err == nil {
		t.Error("ParseKeywordList() should reject non-JSON")
	}
	got, err := ParseKeywordList(` ["a","b"] `)
	if err != nil || !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ParseKeywordList() = %v, %v", got, err)
	}
}
