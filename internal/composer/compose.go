package composer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nguyentantai21042004/slidecast/internal/models"
	"github.com/nguyentantai21042004/slidecast/pkg/media"
)

const fallbackCaption = "Video Generation Error"

// Compose reconciles slide timing with the narration and encodes the video.
func (c *implComposer) Compose(ctx context.Context, images []models.ImageAsset, narration models.AudioAsset, slides []models.Slide, outputPath string) (models.VideoAsset, error) {
	startTime := time.Now()

	total, err := c.narrationDuration(ctx, narration)
	if err != nil {
		return models.VideoAsset{}, fmt.Errorf("%w: %v", ErrNarrationUnavailable, err)
	}
	c.logger.Info(ctx, "Composing %d images over %ss of narration", len(images), seconds(total))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return models.VideoAsset{}, fmt.Errorf("create output dir: %w", err)
	}

	video, err := c.compose(ctx, images, narration.Path, slides, total, outputPath)
	if err == nil {
		c.logger.Info(ctx, "Video composed in %s: %s", time.Since(startTime).Round(time.Millisecond), outputPath)
		return video, nil
	}

	c.logger.Error(ctx, "Composition failed, writing fallback video: %v", err)
	fallback, fbErr := c.fallbackVideo(ctx, narration.Path, total, outputPath)
	if fbErr != nil {
		return models.VideoAsset{}, fmt.Errorf("compose: %v; fallback video: %w", err, fbErr)
	}
	fallback.Reason = err.Error()
	return fallback, nil
}

// narrationDuration measures the narration with ffprobe; the measured length
// is authoritative over any provisional estimate.
func (c *implComposer) narrationDuration(ctx context.Context, narration models.AudioAsset) (float64, error) {
	if narration.Path == "" {
		return 0, fmt.Errorf("no narration path")
	}
	if _, err := os.Stat(narration.Path); err != nil {
		return 0, err
	}
	d, err := media.Duration(ctx, c.executor, narration.Path)
	if err != nil {
		return 0, err
	}
	if narration.DurationSeconds > 0 && narration.DurationSeconds != d {
		c.logger.Debug(ctx, "Narration measured at %ss, reported %ss", seconds(d), seconds(narration.DurationSeconds))
	}
	return d, nil
}

func (c *implComposer) compose(ctx context.Context, images []models.ImageAsset, audio string, slides []models.Slide, total float64, outputPath string) (models.VideoAsset, error) {
	if len(images) == 0 {
		return models.VideoAsset{}, fmt.Errorf("no images to compose")
	}

	durations := ScheduleDurations(len(images), slides, total)
	if len(images) != len(slides) {
		c.logger.Warn(ctx, "Image count %d differs from slide count %d, splitting time evenly", len(images), len(slides))
	}
	plan := PlanTimeline(durations, c.cfg.TransitionDuration, total)
	c.logger.Debug(ctx, "Timeline: visual %ss, target %ss, hold %ss, trimmed %v, transition %ss",
		seconds(plan.Visual), seconds(plan.Target), seconds(plan.Hold), plan.Trimmed(), seconds(plan.Transition))

	workDir, err := os.MkdirTemp(filepath.Dir(outputPath), ".compose-*")
	if err != nil {
		return models.VideoAsset{}, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.Path
	}

	clips, err := c.buildClips(ctx, workDir, paths, durations)
	if err != nil {
		return models.VideoAsset{}, fmt.Errorf("build clips: %w", err)
	}

	if err := c.assemble(ctx, clips, audio, plan, outputPath); err != nil {
		return models.VideoAsset{}, fmt.Errorf("assemble: %w", err)
	}

	return models.VideoAsset{Path: outputPath, DurationSeconds: total}, nil
}

// assemble encodes the clips and narration into outputPath through a
// temporary file so a failed encode never leaves a partial output.
func (c *implComposer) assemble(ctx context.Context, clips []string, audio string, plan Timeline, outputPath string) error {
	args := []string{"-y"}
	for _, clip := range clips {
		args = append(args, "-i", clip)
	}
	args = append(args,
		"-i", audio,
		"-filter_complex", BuildFilterGraph(plan, c.cfg.FPS),
		"-map", "[vout]",
		"-map", "[aout]",
		"-c:v", c.cfg.Codec,
		"-preset", c.cfg.Preset,
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(c.cfg.FPS),
		"-s", fmt.Sprintf("%dx%d", c.cfg.Width, c.cfg.Height),
		"-c:a", c.cfg.AudioCodec,
		"-t", seconds(plan.Target),
		"-movflags", "+faststart",
		"-f", "mp4",
	)

	return c.writeAtomic(ctx, outputPath, func(tmp string) error {
		_, err := c.executor.Execute(ctx, "ffmpeg", append(args, tmp)...)
		return err
	})
}

// fallbackVideo writes a solid frame with an error caption over the
// original narration.
func (c *implComposer) fallbackVideo(ctx context.Context, audio string, total float64, outputPath string) (models.VideoAsset, error) {
	err := c.writeAtomic(ctx, outputPath, func(tmp string) error {
		return c.solidClip(ctx, tmp, fallbackColor, fallbackCaption, total, audio)
	})
	if err != nil {
		return models.VideoAsset{}, err
	}

	c.logger.Warn(ctx, "Fallback video written: %s", outputPath)
	return models.VideoAsset{Path: outputPath, DurationSeconds: total, Degraded: true}, nil
}

// writeAtomic runs encode against a temporary path next to outputPath and
// renames it into place only if it produced a non-empty file.
func (c *implComposer) writeAtomic(ctx context.Context, outputPath string, encode func(tmp string) error) error {
	tmp := outputPath + ".part"
	defer os.Remove(tmp)

	if err := encode(tmp); err != nil {
		return err
	}

	info, err := os.Stat(tmp)
	if err != nil {
		return fmt.Errorf("encoded file missing: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("encoded file is empty")
	}

	if err := os.Rename(tmp, outputPath); err != nil {
		return fmt.Errorf("move output into place: %w", err)
	}
	c.logger.Debug(ctx, "Wrote %s (%d bytes)", outputPath, info.Size())
	return nil
}

// Info probes a produced video.
func (c *implComposer) Info(ctx context.Context, path string) (media.Info, error) {
	return media.Probe(ctx, c.executor, path)
}

// Preview re-encodes the first seconds of src into dst.
func (c *implComposer) Preview(ctx context.Context, src, dst string, secs float64) error {
	if secs <= 0 {
		secs = 10
	}
	return c.writeAtomic(ctx, dst, func(tmp string) error {
		_, err := c.executor.Execute(ctx, "ffmpeg",
			"-y",
			"-i", src,
			"-t", seconds(secs),
			"-c:v", c.cfg.Codec,
			"-preset", c.cfg.Preset,
			"-pix_fmt", "yuv420p",
			"-c:a", c.cfg.AudioCodec,
			"-f", "mp4",
			tmp,
		)
		return err
	})
}
