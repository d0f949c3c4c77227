package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/slidecast/internal/composer"
	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/gemini"
	"github.com/nguyentantai21042004/slidecast/internal/httpapi"
	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/openaikw"
	"github.com/nguyentantai21042004/slidecast/internal/pipeline"
	"github.com/nguyentantai21042004/slidecast/internal/render"
	"github.com/nguyentantai21042004/slidecast/internal/retention"
	"github.com/nguyentantai21042004/slidecast/internal/segmenter"
	"github.com/nguyentantai21042004/slidecast/internal/source"
	"github.com/nguyentantai21042004/slidecast/internal/speech"
	"github.com/nguyentantai21042004/slidecast/internal/watcher"
	"github.com/nguyentantai21042004/slidecast/internal/worker"
	"github.com/nguyentantai21042004/slidecast/pkg/executor"
)

const shutdownTimeout = 30 * time.Second

type options struct {
	configPath string
	envFile    string
	request    pipeline.Request
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "config.yaml", "path to the YAML config")
	flag.StringVar(&o.envFile, "env", ".env", "path to the .env file with API keys")
	flag.StringVar(&o.request.Text, "text", "", "generate one video from this text and exit")
	flag.StringVar(&o.request.URL, "url", "", "generate one video from this article URL and exit")
	flag.StringVar(&o.request.PDFPath, "pdf", "", "generate one video from this PDF and exit")
	flag.StringVar(&o.request.Title, "title", "", "title override")
	flag.StringVar(&o.request.VoiceSample, "voice", "", "voice sample file")
	flag.StringVar(&o.request.Language, "lang", "", "narration language code")
	flag.Parse()
	return o
}

func main() {
	os.Exit(run(parseFlags()))
}

// run returns the process exit code so deferred cleanup, such as closing
// the job store, happens before exit.
func run(opts options) int {
	ctx := context.Background()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if err := cfg.LoadSecrets(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", opts.envFile, err)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Slidecast: articles to narrated slide videos")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, %d CPU cores", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		return 1
	}

	oneShot := opts.request.Validate() == nil

	var store jobs.Store
	if oneShot {
		store = jobs.NewMemoryStore()
	} else if store, err = jobs.New(cfg.Jobs); err != nil {
		log.Error(ctx, "Failed to open job store: %v", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "Close job store: %v", err)
		}
	}()

	proc, src, err := buildProcessor(ctx, cfg, store, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize pipeline: %v", err)
		return 1
	}

	if oneShot {
		if err := runOnce(ctx, proc, store, opts.request, log); err != nil {
			return 1
		}
		return 0
	}

	if err := serve(ctx, cfg, proc, store, src, log); err != nil {
		log.Error(ctx, "Server error: %v", err)
		return 1
	}
	return 0
}

// loadConfig falls back to defaults when the config file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func buildProcessor(ctx context.Context, cfg *config.Config, store jobs.Store, log logger.Logger) (pipeline.Processor, source.Source, error) {
	exec := executor.New()
	httpClient := &http.Client{Timeout: cfg.Source.Timeout}

	var geminiClient gemini.Client
	if len(cfg.Secrets.GeminiAPIKeys) > 0 {
		geminiClient = gemini.New(cfg.Gemini, cfg.Secrets.GeminiAPIKeys, log.With("gemini"))
		log.Info(ctx, "Gemini: %d API key(s), model %s", len(cfg.Secrets.GeminiAPIKeys), cfg.Gemini.Model)
	}

	var extractors []segmenter.KeywordExtractor
	if cfg.Gemini.Keywords && geminiClient != nil {
		extractors = append(extractors, gemini.NewKeywordExtractor(geminiClient))
	}
	if cfg.OpenAI.Keywords && cfg.Secrets.OpenAIAPIKey != "" {
		extractors = append(extractors, openaikw.New(cfg.OpenAI, cfg.Secrets.OpenAIAPIKey, log.With("openai")))
	}
	log.Info(ctx, "Keyword extractors: %d (frequency fallback always on)", len(extractors))

	providers, err := speech.ProvidersFromConfig(cfg.Speech, speech.Deps{
		Gemini:     geminiClient,
		HTTPClient: httpClient,
		TTSAPIKey:  cfg.Secrets.TTSAPIKey,
		Executor:   exec,
	})
	if err != nil {
		return nil, nil, err
	}
	for _, p := range providers {
		log.Info(ctx, "Speech provider: %s", p.Name())
	}

	renderer, err := render.New(cfg.Render, log.With("render"))
	if err != nil {
		return nil, nil, err
	}

	src := source.New(cfg.Source, httpClient, log.With("source"))
	proc := pipeline.New(cfg, pipeline.Stages{
		Source:    src,
		Segmenter: segmenter.New(cfg.Slides, log.With("segmenter"), extractors...),
		Speech:    speech.New(cfg.Speech, exec, log.With("speech"), providers...),
		Renderer:  renderer,
		Composer:  composer.New(cfg.Video, cfg.Performance.RenderConcurrency, exec, log.With("composer")),
	}, store, log)

	return proc, src, nil
}

func runOnce(ctx context.Context, proc pipeline.Processor, store jobs.Store, req pipeline.Request, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	id := uuid.NewString()
	if err := store.Create(ctx, jobs.Job{ID: id, Status: jobs.StatusQueued, Message: "Starting video generation..."}); err != nil {
		log.Error(ctx, "Failed to create job: %v", err)
		return err
	}

	video, err := proc.Process(ctx, id, req)
	if err != nil {
		log.Error(ctx, "Video generation failed: %v", err)
		return err
	}
	fmt.Println(video.Path)
	return nil
}

func serve(ctx context.Context, cfg *config.Config, proc pipeline.Processor, store jobs.Store, src source.Source, log logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := worker.New(cfg.Performance, proc, store, log.With("worker"))

	w, err := watcher.New(cfg.Paths.Inbox, cfg.Paths.Archived, pool, log.With("watcher"))
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	sweeper := retention.New(cfg.Retention, log.With("retention"), cfg.Paths.Output, cfg.Paths.Temp, cfg.Paths.Archived)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(pool, store, src, log.With("http"))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("watcher: %w", err)
		}
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http: %w", err)
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Slidecast is ready!")
	log.Info(ctx, "API: http://localhost%s", cfg.HTTP.Addr)
	log.Info(ctx, "Inbox: %s", cfg.Paths.Inbox)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Workers: %d, queue %d, jobs in %s store", cfg.Performance.Workers, cfg.Performance.QueueSize, cfg.Jobs.Store)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	var runErr error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case runErr = <-errChan:
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "HTTP shutdown: %v", err)
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "Workers did not finish in time: %v", err)
	}

	log.Info(shutdownCtx, "Slidecast stopped")
	return runErr
}

func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Temp,
		cfg.Paths.Output,
		cfg.Paths.Inbox,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
