package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/models"
	"github.com/nguyentantai21042004/slidecast/internal/segmenter"
	"github.com/nguyentantai21042004/slidecast/internal/speech"
)

// Process orchestrates the whole generation: content, slides, narration,
// images, video.
func (p *implProcessor) Process(ctx context.Context, jobID string, req Request) (models.VideoAsset, error) {
	startTime := time.Now()
	log := p.logger.With(jobID)

	log.Info(ctx, "========================================")
	log.Info(ctx, "Starting video generation")
	log.Info(ctx, "========================================")

	if err := req.Validate(); err != nil {
		return models.VideoAsset{}, p.fail(ctx, jobID, err)
	}

	workDir := filepath.Join(p.cfg.Paths.Temp, jobID)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return models.VideoAsset{}, p.fail(ctx, jobID, fmt.Errorf("create work dir: %w", err))
	}
	defer p.cleanupDir(ctx, workDir)

	// Step 1: Extract content
	p.progress(ctx, jobID, 10, "Processing content...")
	content, err := p.stages.Source.Fetch(ctx, req.Request)
	if err != nil {
		return models.VideoAsset{}, p.fail(ctx, jobID, fmt.Errorf("fetch content: %w", err))
	}

	// Step 2: Segment into slides
	p.progress(ctx, jobID, 30, "Processing text content...")
	result := p.stages.Segmenter.Segment(ctx, content)
	if result.Status != segmenter.StatusOK {
		log.Warn(ctx, "Segmentation %s: %s", result.Status, result.Reason)
	}
	slides := result.Slides
	stats := segmenter.ComputeStats(slides)
	log.Info(ctx, "Created %d slides, %d words, %.1fs planned", stats.TotalSlides, stats.TotalWords, stats.TotalDuration)

	// Step 3: Narration
	p.progress(ctx, jobID, 50, "Generating audio narration...")
	narration, err := p.stages.Speech.Synthesize(ctx, speech.Request{
		Text:        content.Text,
		VoiceSample: req.VoiceSample,
		Language:    req.Language,
		OutputPath:  filepath.Join(workDir, "narration.wav"),
	})
	if err != nil {
		return models.VideoAsset{}, p.fail(ctx, jobID, fmt.Errorf("synthesize narration: %w", err))
	}

	// Step 4: Slide images
	p.progress(ctx, jobID, 70, "Creating visual slides...")
	images := p.renderSlides(ctx, workDir, slides)

	// Step 5: Compose
	p.progress(ctx, jobID, 90, "Composing final video...")
	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return models.VideoAsset{}, p.fail(ctx, jobID, fmt.Errorf("create output dir: %w", err))
	}
	outputPath := filepath.Join(p.cfg.Paths.Output, jobID+".mp4")
	video, err := p.stages.Composer.Compose(ctx, images, narration, slides, outputPath)
	if err != nil {
		return models.VideoAsset{}, p.fail(ctx, jobID, fmt.Errorf("compose video: %w", err))
	}

	// Step 6: Companion files next to the video
	p.writeExtras(ctx, jobID, outputPath, video, content, slides, images)

	message := "Video generation completed!"
	if video.Degraded {
		message = "Video generation completed with fallback video"
		log.Warn(ctx, "Composition degraded: %s", video.Reason)
	}
	p.update(ctx, jobID, func(j *jobs.Job) {
		j.Status = jobs.StatusCompleted
		j.Progress = 100
		j.Message = message
		j.OutputPath = video.Path
		j.Degraded = video.Degraded
	})

	log.Info(ctx, "========================================")
	log.Info(ctx, "Generation completed!")
	log.Info(ctx, "Output video: %s (%.2fs, %d slides)", video.Path, video.DurationSeconds, len(slides))
	log.Info(ctx, "Processing time: %s", time.Since(startTime))
	log.Info(ctx, "========================================")

	return video, nil
}

func (p *implProcessor) progress(ctx context.Context, jobID string, pct int, message string) {
	p.logger.With(jobID).Info(ctx, "[%d%%] %s", pct, message)
	p.update(ctx, jobID, func(j *jobs.Job) {
		j.Status = jobs.StatusProcessing
		j.Progress = pct
		j.Message = message
	})
}

// fail marks the job as errored and returns err.
func (p *implProcessor) fail(ctx context.Context, jobID string, err error) error {
	p.logger.With(jobID).Error(ctx, "Video generation failed: %v", err)
	p.update(ctx, jobID, func(j *jobs.Job) {
		j.Status = jobs.StatusError
		j.Message = "Error: " + err.Error()
		j.Error = err.Error()
	})
	return err
}

// update writes job state; a store failure must not abort generation.
func (p *implProcessor) update(ctx context.Context, jobID string, fn func(*jobs.Job)) {
	if err := p.jobs.Update(context.WithoutCancel(ctx), jobID, fn); err != nil {
		p.logger.With(jobID).Warn(ctx, "Failed to update job: %v", err)
	}
}
