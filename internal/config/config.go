package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Slides      SlidesConfig      `yaml:"slides"`
	Video       VideoConfig       `yaml:"video"`
	Render      RenderConfig      `yaml:"render"`
	Speech      SpeechConfig      `yaml:"speech"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Source      SourceConfig      `yaml:"source"`
	Paths       PathsConfig       `yaml:"paths"`
	Jobs        JobsConfig        `yaml:"jobs"`
	HTTP        HTTPConfig        `yaml:"http"`
	Performance PerformanceConfig `yaml:"performance"`
	Retention   RetentionConfig   `yaml:"retention"`
	Logging     LoggingConfig     `yaml:"logging"`
	Output      OutputConfig      `yaml:"output"`

	// Secrets are read from the environment, never from YAML.
	Secrets Secrets `yaml:"-"`
}

type SlidesConfig struct {
	MaxSlides        int     `yaml:"max_slides"`
	WordsPerSlide    int     `yaml:"words_per_slide"`
	MinSlideDuration float64 `yaml:"min_slide_duration"`
	MaxSlideDuration float64 `yaml:"max_slide_duration"`
	MaxKeywords      int     `yaml:"max_keywords"`
}

type VideoConfig struct {
	FPS                int     `yaml:"fps"`
	Width              int     `yaml:"width"`
	Height             int     `yaml:"height"`
	TransitionDuration float64 `yaml:"transition_duration"`
	KenBurns           bool    `yaml:"ken_burns"`
	Codec              string  `yaml:"codec"`
	AudioCodec         string  `yaml:"audio_codec"`
	Preset             string  `yaml:"preset"`
}

type RenderConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	ColorScheme string `yaml:"color_scheme"`
}

type SpeechConfig struct {
	Providers    []string `yaml:"providers"`
	Language     string   `yaml:"language"`
	ChunkSize    int      `yaml:"chunk_size"`
	HTTPEndpoint string   `yaml:"http_endpoint"`
	HTTPSpeaker  string   `yaml:"http_speaker"`
	GeminiVoice  string   `yaml:"gemini_voice"`
}

type GeminiConfig struct {
	Model    string `yaml:"model"`
	TTSModel string `yaml:"tts_model"`
	Keywords bool   `yaml:"keywords"`
}

type OpenAIConfig struct {
	Model    string `yaml:"model"`
	Keywords bool   `yaml:"keywords"`
}

type SourceConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MinTextLength int           `yaml:"min_text_length"`
}

type PathsConfig struct {
	Temp     string `yaml:"temp"`
	Output   string `yaml:"output"`
	Inbox    string `yaml:"inbox"`
	Archived string `yaml:"archived"`
}

type JobsConfig struct {
	Store      string `yaml:"store"`
	SQLitePath string `yaml:"sqlite_path"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type PerformanceConfig struct {
	Workers           int `yaml:"workers"`
	QueueSize         int `yaml:"queue_size"`
	RenderConcurrency int `yaml:"render_concurrency"`
}

type RetentionConfig struct {
	Schedule string        `yaml:"schedule"`
	MaxAge   time.Duration `yaml:"max_age"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type OutputConfig struct {
	WriteScript    bool    `yaml:"write_script"`
	WriteThumbnail bool    `yaml:"write_thumbnail"`
	PreviewSeconds float64 `yaml:"preview_seconds"`
}

type Secrets struct {
	GeminiAPIKeys []string
	OpenAIAPIKey  string
	TTSAPIKey     string
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{
		Video:  VideoConfig{KenBurns: true},
		Gemini: GeminiConfig{Keywords: true},
		Output: OutputConfig{WriteScript: true, WriteThumbnail: true},
	}
	_ = cfg.Validate()
	return cfg
}

// Load reads a YAML config file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSecrets loads .env (if present) and reads API keys from the environment.
func (c *Config) LoadSecrets(envFile string) error {
	err := godotenv.Load(envFile)

	c.Secrets = Secrets{
		GeminiAPIKeys: splitKeys(os.Getenv("GEMINI_API_KEYS")),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		TTSAPIKey:     os.Getenv("TTS_API_KEY"),
	}
	if len(c.Secrets.GeminiAPIKeys) == 0 {
		c.Secrets.GeminiAPIKeys = splitKeys(os.Getenv("GEMINI_API_KEY"))
	}
	return err
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *Config) Validate() error {
	if c.Slides.MaxSlides < 0 {
		return fmt.Errorf("slides.max_slides must not be negative")
	}
	if c.Slides.MinSlideDuration < 0 || c.Slides.MaxSlideDuration < 0 {
		return fmt.Errorf("slides durations must not be negative")
	}
	if c.Slides.MaxSlideDuration != 0 && c.Slides.MinSlideDuration > c.Slides.MaxSlideDuration {
		return fmt.Errorf("slides.min_slide_duration exceeds slides.max_slide_duration")
	}
	if c.Output.PreviewSeconds < 0 {
		return fmt.Errorf("output.preview_seconds must not be negative")
	}
	if c.Video.TransitionDuration < 0 {
		return fmt.Errorf("video.transition_duration must not be negative")
	}
	if c.Jobs.Store != "" && c.Jobs.Store != "memory" && c.Jobs.Store != "sqlite" {
		return fmt.Errorf("jobs.store must be memory or sqlite, got %q", c.Jobs.Store)
	}

	if c.Slides.MaxSlides == 0 {
		c.Slides.MaxSlides = 8
	}
	if c.Slides.WordsPerSlide <= 0 {
		c.Slides.WordsPerSlide = 50
	}
	if c.Slides.MinSlideDuration == 0 {
		c.Slides.MinSlideDuration = 3.0
	}
	if c.Slides.MaxSlideDuration == 0 {
		c.Slides.MaxSlideDuration = 8.0
	}
	if c.Slides.MaxKeywords <= 0 {
		c.Slides.MaxKeywords = 10
	}

	if c.Video.FPS <= 0 {
		c.Video.FPS = 24
	}
	if c.Video.Width <= 0 {
		c.Video.Width = 1920
	}
	if c.Video.Height <= 0 {
		c.Video.Height = 1080
	}
	if c.Video.TransitionDuration == 0 {
		c.Video.TransitionDuration = 0.5
	}
	if c.Video.Codec == "" {
		c.Video.Codec = "libx264"
	}
	if c.Video.AudioCodec == "" {
		c.Video.AudioCodec = "aac"
	}
	if c.Video.Preset == "" {
		c.Video.Preset = "medium"
	}

	if c.Render.Width <= 0 {
		c.Render.Width = c.Video.Width
	}
	if c.Render.Height <= 0 {
		c.Render.Height = c.Video.Height
	}

	if len(c.Speech.Providers) == 0 {
		c.Speech.Providers = []string{"gemini", "http", "silence"}
	}
	if c.Speech.Language == "" {
		c.Speech.Language = "en"
	}
	if c.Speech.ChunkSize <= 0 {
		c.Speech.ChunkSize = 500
	}
	if c.Speech.GeminiVoice == "" {
		c.Speech.GeminiVoice = "Kore"
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.TTSModel == "" {
		c.Gemini.TTSModel = "gemini-2.5-flash-preview-tts"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}

	if c.Source.Timeout <= 0 {
		c.Source.Timeout = 10 * time.Second
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = defaultUserAgent
	}
	if c.Source.MinTextLength <= 0 {
		c.Source.MinTextLength = 50
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}

	if c.Jobs.Store == "" {
		c.Jobs.Store = "memory"
	}
	if c.Jobs.SQLitePath == "" {
		c.Jobs.SQLitePath = "data/jobs.sqlite"
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":5000"
	}

	if c.Performance.Workers <= 0 {
		c.Performance.Workers = 2
	}
	if c.Performance.QueueSize <= 0 {
		c.Performance.QueueSize = 100
	}
	if c.Performance.RenderConcurrency <= 0 {
		c.Performance.RenderConcurrency = 4
	}

	if c.Retention.Schedule == "" {
		c.Retention.Schedule = "@every 1h"
	}
	if c.Retention.MaxAge <= 0 {
		c.Retention.MaxAge = 24 * time.Hour
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
