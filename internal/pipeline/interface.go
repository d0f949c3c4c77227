package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/nguyentantai21042004/slidecast/internal/models"
	"github.com/nguyentantai21042004/slidecast/internal/source"
)

// ErrEmptyRequest is returned for a request without text, URL or PDF.
var ErrEmptyRequest = errors.New("text content or URL required")

// Processor runs one video generation job end to end.
type Processor interface {
	// Process generates the video for req and keeps the job record with
	// jobID up to date. The job always ends completed or error.
	Process(ctx context.Context, jobID string, req Request) (models.VideoAsset, error)
}

// Request is a video generation request.
type Request struct {
	source.Request
	VoiceSample string `json:"voice_sample,omitempty"`
	Language    string `json:"language,omitempty"`
}

// Validate checks that the request names some input.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" && r.URL == "" && r.PDFPath == "" {
		return ErrEmptyRequest
	}
	return nil
}
