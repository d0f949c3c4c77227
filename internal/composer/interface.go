package composer

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/slidecast/internal/models"
	"github.com/nguyentantai21042004/slidecast/pkg/media"
)

// ErrNarrationUnavailable is returned when the narration track cannot be
// read. No video is written in that case.
var ErrNarrationUnavailable = errors.New("narration audio unavailable")

// Composer assembles slide images and narration into a video file.
type Composer interface {
	// Compose writes the video to outputPath. Once the narration duration
	// is known it always produces a playable file; a composition failure
	// yields the fallback video with Degraded set.
	Compose(ctx context.Context, images []models.ImageAsset, narration models.AudioAsset, slides []models.Slide, outputPath string) (models.VideoAsset, error)

	// Info reports container metadata of a produced video.
	Info(ctx context.Context, path string) (media.Info, error)

	// Preview cuts the first seconds of src into dst.
	Preview(ctx context.Context, src, dst string, seconds float64) error
}
