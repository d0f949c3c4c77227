package segmenter

import (
	"context"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

// Segmenter turns article content into an ordered slide sequence.
type Segmenter interface {
	// Segment never fails; degraded input yields fallback slides and a
	// non-OK Status.
	Segment(ctx context.Context, content models.Content) Result
}

// KeywordExtractor is one ranked keyword capability. The segmenter tries
// extractors in order and keeps the first non-empty result.
type KeywordExtractor interface {
	Name() string
	Extract(ctx context.Context, text string, max int) ([]string, error)
}

// Status reports how segmentation went.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusEmpty    Status = "empty"
)

// Result is the segmentation outcome. Slides is never empty.
type Result struct {
	Slides []models.Slide
	Status Status
	Reason string
}
