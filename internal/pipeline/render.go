package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/nguyentantai21042004/slidecast/internal/models"
	"github.com/nguyentantai21042004/slidecast/pkg/semaphore"
)

// renderSlides paints every slide concurrently. A slide that cannot be
// rendered keeps its path, which does not exist; the composer substitutes
// a placeholder clip for it.
func (p *implProcessor) renderSlides(ctx context.Context, dir string, slides []models.Slide) []models.ImageAsset {
	images := make([]models.ImageAsset, len(slides))
	sem := semaphore.New(p.cfg.Performance.RenderConcurrency)
	var wg sync.WaitGroup

	for i := range slides {
		images[i] = models.ImageAsset{Path: filepath.Join(dir, fmt.Sprintf("slide_%03d.png", i))}
	}

	for i, slide := range slides {
		if err := sem.Acquire(ctx); err != nil {
			p.logger.Warn(ctx, "Rendering stopped at slide %d: %v", i, err)
			break
		}
		wg.Add(1)
		go func(i int, slide models.Slide, path string) {
			defer wg.Done()
			defer sem.Release()

			if _, err := p.stages.Renderer.Render(ctx, slide, path); err != nil {
				p.logger.Warn(ctx, "Slide %d could not be rendered: %v", i, err)
			}
		}(i, slide, images[i].Path)
	}

	wg.Wait()
	return images
}
