package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/slidecast/internal/models"
	"github.com/nguyentantai21042004/slidecast/internal/scriptdoc"
)

// writeExtras produces the optional files that accompany a video. Failures
// are logged and never fail the job.
func (p *implProcessor) writeExtras(ctx context.Context, jobID, outputPath string, video models.VideoAsset, content models.Content, slides []models.Slide, images []models.ImageAsset) {
	log := p.logger.With(jobID)
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))

	if info, err := p.stages.Composer.Info(ctx, video.Path); err != nil {
		log.Warn(ctx, "Failed to probe output video: %v", err)
	} else {
		log.Info(ctx, "Video: %dx%d, %.2fs, %d bytes", info.Width, info.Height, info.Duration, info.Size)
	}

	if p.cfg.Output.WriteScript {
		if err := scriptdoc.Write(base+".docx", content, slides); err != nil {
			log.Warn(ctx, "Failed to write narration script: %v", err)
		}
	}

	if p.cfg.Output.WriteThumbnail && len(images) > 0 && images[0].Path != "" {
		if err := p.stages.Renderer.Thumbnail(ctx, images[0].Path, base+"_thumb.png"); err != nil {
			log.Warn(ctx, "Failed to write thumbnail: %v", err)
		}
	}

	if secs := p.cfg.Output.PreviewSeconds; secs > 0 && !video.Degraded {
		if err := p.stages.Composer.Preview(ctx, video.Path, base+"_preview.mp4", secs); err != nil {
			log.Warn(ctx, "Failed to write preview: %v", err)
		}
	}
}
