package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/slidecast/internal/models"
	"github.com/nguyentantai21042004/slidecast/pkg/media"
)

func (s *implSynthesizer) Synthesize(ctx context.Context, req Request) (models.AudioAsset, error) {
	text := CleanText(req.Text)
	if text == "" {
		return models.AudioAsset{}, fmt.Errorf("%w: empty text after cleaning", ErrNoAudio)
	}

	language := req.Language
	if language == "" {
		language = s.language
	}
	if !IsSupportedLanguage(language) {
		s.logger.Warn(ctx, "Unsupported language %q, falling back to en", language)
		language = "en"
	}
	if req.VoiceSample != "" {
		if _, err := os.Stat(req.VoiceSample); err != nil {
			s.logger.Warn(ctx, "Voice sample %s unavailable: %v", req.VoiceSample, err)
		} else {
			s.logger.Info(ctx, "Voice cloning is not supported by the configured providers, using default voice")
		}
	}

	dir, err := os.MkdirTemp(filepath.Dir(req.OutputPath), ".speech-*")
	if err != nil {
		return models.AudioAsset{}, fmt.Errorf("create chunk dir: %w", err)
	}
	defer os.RemoveAll(dir)

	chunks := SplitChunks(text, s.chunkSize)
	s.logger.Info(ctx, "Synthesizing %d characters in %d chunks (%s)", len(text), len(chunks), language)

	var files []string
	for i, chunk := range chunks {
		out := filepath.Join(dir, fmt.Sprintf("chunk_%03d.wav", i))
		name, err := s.synthesizeChunk(ctx, chunk, language, out)
		if err != nil {
			s.logger.Warn(ctx, "Skipping chunk %d: %v", i, err)
			continue
		}
		s.logger.Debug(ctx, "Chunk %d synthesized by %s", i, name)
		files = append(files, out)
	}
	if len(files) == 0 {
		return models.AudioAsset{}, ErrNoAudio
	}

	if err := s.concat(ctx, dir, files, req.OutputPath); err != nil {
		return models.AudioAsset{}, fmt.Errorf("concatenate audio: %w", err)
	}

	duration, err := media.Duration(ctx, s.executor, req.OutputPath)
	if err != nil {
		return models.AudioAsset{}, fmt.Errorf("measure narration: %w", err)
	}

	s.logger.Info(ctx, "Narration ready: %s (%.2fs)", req.OutputPath, duration)
	return models.AudioAsset{Path: req.OutputPath, DurationSeconds: duration}, nil
}

// synthesizeChunk walks the provider chain and returns the name of the
// provider that produced out.
func (s *implSynthesizer) synthesizeChunk(ctx context.Context, text, language, out string) (string, error) {
	var errs []string
	for _, p := range s.providers {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		err := p.Synthesize(ctx, text, language, out)
		if err == nil {
			if info, statErr := os.Stat(out); statErr == nil && info.Size() > 0 {
				return p.Name(), nil
			}
			err = fmt.Errorf("empty output")
		}
		s.logger.Warn(ctx, "Speech provider %s failed: %v", p.Name(), err)
		errs = append(errs, p.Name()+": "+err.Error())
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("no speech providers configured")
	}
	return "", fmt.Errorf("all providers failed (%s)", strings.Join(errs, "; "))
}

const concatList = "chunks.txt"

// concat joins chunk files into out, re-encoding to a common format.
func (s *implSynthesizer) concat(ctx context.Context, dir string, files []string, out string) error {
	if len(files) == 1 {
		return os.Rename(files[0], out)
	}

	outAbs, err := filepath.Abs(out)
	if err != nil {
		return err
	}

	// Chunk names are relative to dir, where ffmpeg runs.
	var list strings.Builder
	for _, f := range files {
		fmt.Fprintf(&list, "file '%s'\n", filepath.Base(f))
	}
	if err := os.WriteFile(filepath.Join(dir, concatList), []byte(list.String()), 0644); err != nil {
		return err
	}

	args := []string{
		"-f", "concat",
		"-i", concatList,
		"-ar", fmt.Sprint(sampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		outAbs,
	}
	if _, err := s.executor.ExecuteInDir(ctx, dir, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg concat: %w", err)
	}
	return nil
}
