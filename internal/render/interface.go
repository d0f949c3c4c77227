package render

import (
	"context"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

// Renderer paints slides as PNG images.
type Renderer interface {
	// Render writes the slide to outputPath. If painting fails an error
	// slide is written instead; an error is returned only when nothing
	// could be written.
	Render(ctx context.Context, slide models.Slide, outputPath string) (models.ImageAsset, error)

	// Thumbnail scales src to fit within 320x180 and writes it to dst.
	Thumbnail(ctx context.Context, src, dst string) error
}
